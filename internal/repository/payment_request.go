package repository

import (
	"context"
	"fmt"

	"github.com/Fi44er/usdt_topup/internal/models"
)

func (r *Repository) GetPaymentRequest(ctx context.Context, id string) (*models.PaymentRequest, error) {
	var req models.PaymentRequest
	found, err := r.first(ctx, &req, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment request %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &req, nil
}

func (r *Repository) GetPaymentRequestsByUserID(ctx context.Context, userID string) ([]*models.PaymentRequest, error) {
	reqs := make([]*models.PaymentRequest, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(newestFirst).
		Find(&reqs).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to get payment requests of user %s: %w", userID, err)
	}
	return reqs, nil
}

func (r *Repository) CreatePaymentRequest(ctx context.Context, in models.InsertPaymentRequest) (*models.PaymentRequest, error) {
	req := in.ToPaymentRequest()
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		r.logger.Errorf("failed to create payment request for user %s: %v", in.UserID, err)
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}
	r.logger.Infof("Payment request %s created: %s RUB / %s USDT at %s", req.ID, req.AmountRub, req.AmountUsdt, req.FrozenRate)
	return req, nil
}

func (r *Repository) UpdatePaymentRequestStatus(ctx context.Context, id string, status models.PaymentRequestStatus) error {
	return r.updatePaymentRequest(ctx, id, map[string]any{"status": status})
}

func (r *Repository) UpdatePaymentRequestWithReceipt(ctx context.Context, id string, status models.PaymentRequestStatus, receipt models.Attachment) error {
	return r.updatePaymentRequest(ctx, id, map[string]any{
		"status":  status,
		"receipt": receipt,
	})
}

// UpdatePaymentRequestFull writes every set field of upd in one statement.
func (r *Repository) UpdatePaymentRequestFull(ctx context.Context, id string, upd models.PaymentRequestUpdate) error {
	if upd.IsEmpty() {
		return nil
	}
	return r.updatePaymentRequest(ctx, id, upd.Columns())
}

func (r *Repository) updatePaymentRequest(ctx context.Context, id string, cols map[string]any) error {
	err := r.db.WithContext(ctx).
		Model(&models.PaymentRequest{}).
		Where("id = ?", id).
		Updates(cols).
		Error
	if err != nil {
		r.logger.Errorf("failed to update payment request %s: %v", id, err)
		return fmt.Errorf("failed to update payment request: %w", err)
	}
	return nil
}

func (r *Repository) GetAllPaymentRequests(ctx context.Context) ([]*models.PaymentRequest, error) {
	reqs := make([]*models.PaymentRequest, 0)
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to get payment requests: %w", err)
	}
	return reqs, nil
}
