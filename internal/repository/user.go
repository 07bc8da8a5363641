package repository

import (
	"context"
	"fmt"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/shopspring/decimal"
)

func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	found, err := r.first(ctx, &user, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	var user models.User
	found, err := r.first(ctx, &user, "telegram_id = ?", telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by telegram id %s: %w", telegramID, err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

func (r *Repository) CreateUser(ctx context.Context, in models.InsertUser) (*models.User, error) {
	user := in.ToUser()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.logger.Errorf("failed to create user with telegram id %s: %v", in.TelegramID, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	r.logger.Infof("User %s registered (telegram id %s)", user.ID, user.TelegramID)
	return user, nil
}

// UpdateUserBalance overwrites both balance columns. It does not read the
// current values; callers computing a delta race with each other.
func (r *Repository) UpdateUserBalance(ctx context.Context, userID string, available, frozen decimal.Decimal) error {
	tx := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"available_balance": available,
			"frozen_balance":    frozen,
		})

	if tx.Error != nil {
		r.logger.Errorf("failed to update balance of user %s: %v", userID, tx.Error)
		return fmt.Errorf("failed to update user balance: %w", tx.Error)
	}

	r.logger.Infof("Balance of user %s set to available=%s frozen=%s", userID, available, frozen)
	return nil
}

func (r *Repository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0)
	err := r.db.WithContext(ctx).
		Order("registered_at DESC").
		Find(&users).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}
