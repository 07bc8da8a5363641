package repository

import (
	"context"
	"fmt"

	"github.com/Fi44er/usdt_topup/internal/models"
)

func (r *Repository) GetDeposit(ctx context.Context, id string) (*models.Deposit, error) {
	var deposit models.Deposit
	found, err := r.first(ctx, &deposit, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &deposit, nil
}

func (r *Repository) GetDepositsByUserID(ctx context.Context, userID string) ([]*models.Deposit, error) {
	deposits := make([]*models.Deposit, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(newestFirst).
		Find(&deposits).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to get deposits of user %s: %w", userID, err)
	}
	return deposits, nil
}

func (r *Repository) GetPendingDeposits(ctx context.Context) ([]*models.Deposit, error) {
	deposits := make([]*models.Deposit, 0)
	err := r.db.WithContext(ctx).
		Where("status = ?", models.DepositPending).
		Order(newestFirst).
		Find(&deposits).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending deposits: %w", err)
	}
	return deposits, nil
}

func (r *Repository) CreateDeposit(ctx context.Context, in models.InsertDeposit) (*models.Deposit, error) {
	deposit := in.ToDeposit()
	if err := r.db.WithContext(ctx).Create(deposit).Error; err != nil {
		r.logger.Errorf("failed to create deposit for user %s: %v", in.UserID, err)
		return nil, fmt.Errorf("failed to create deposit: %w", err)
	}
	r.logger.Infof("Deposit %s of %s USDT created for user %s", deposit.ID, deposit.Amount, deposit.UserID)
	return deposit, nil
}

// ConfirmDeposit sets status, confirmed_at and confirmed_by in a single
// UPDATE so a half-confirmed deposit is never visible.
func (r *Repository) ConfirmDeposit(ctx context.Context, id, confirmedBy string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Deposit{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       models.DepositConfirmed,
			"confirmed_at": models.Now(),
			"confirmed_by": confirmedBy,
		}).
		Error
	if err != nil {
		r.logger.Errorf("failed to confirm deposit %s: %v", id, err)
		return fmt.Errorf("failed to confirm deposit: %w", err)
	}
	r.logger.Infof("Deposit %s confirmed by operator %s", id, confirmedBy)
	return nil
}

func (r *Repository) RejectDeposit(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Deposit{}).
		Where("id = ?", id).
		Update("status", models.DepositRejected).
		Error
	if err != nil {
		r.logger.Errorf("failed to reject deposit %s: %v", id, err)
		return fmt.Errorf("failed to reject deposit: %w", err)
	}
	r.logger.Infof("Deposit %s rejected", id)
	return nil
}
