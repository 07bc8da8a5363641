package service

import (
	"context"
	"sort"
	"time"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/shopspring/decimal"
)

type HistoryKind string

const (
	HistoryDeposit HistoryKind = "deposit"
	HistoryPayment HistoryKind = "payment"
)

type HistoryFilter string

const (
	HistoryAll      HistoryFilter = "all"
	HistoryActive   HistoryFilter = "active"
	HistoryFinished HistoryFilter = "finished"
)

type HistoryEntry struct {
	Kind       HistoryKind      `json:"kind"`
	ID         string           `json:"id"`
	Status     string           `json:"status"`
	AmountUsdt decimal.Decimal  `json:"amount_usdt"`
	AmountRub  *decimal.Decimal `json:"amount_rub,omitempty"`
	Active     bool             `json:"active"`
	CreatedAt  time.Time        `json:"created_at"`
}

// GetHistory merges deposits and payment requests into one timeline, newest
// first.
func (s *Service) GetHistory(ctx context.Context, userID string, filter HistoryFilter) ([]HistoryEntry, error) {
	if _, err := s.mustUser(ctx, userID); err != nil {
		return nil, err
	}

	deposits, err := s.repo.GetDepositsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	requests, err := s.repo.GetPaymentRequestsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(deposits)+len(requests))
	for _, d := range deposits {
		entries = append(entries, HistoryEntry{
			Kind:       HistoryDeposit,
			ID:         d.ID,
			Status:     string(d.Status),
			AmountUsdt: d.Amount,
			Active:     d.Status == models.DepositPending,
			CreatedAt:  d.CreatedAt,
		})
	}
	for _, r := range requests {
		rub := r.AmountRub
		entries = append(entries, HistoryEntry{
			Kind:       HistoryPayment,
			ID:         r.ID,
			Status:     string(r.Status),
			AmountUsdt: r.AmountUsdt,
			AmountRub:  &rub,
			Active:     r.Status.IsActive(),
			CreatedAt:  r.CreatedAt,
		})
	}

	filtered := entries[:0]
	for _, e := range entries {
		switch filter {
		case HistoryActive:
			if !e.Active {
				continue
			}
		case HistoryFinished:
			if e.Active {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}
