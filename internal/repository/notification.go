package repository

import (
	"context"
	"fmt"

	"github.com/Fi44er/usdt_topup/internal/models"
)

func (r *Repository) GetNotificationsByUserID(ctx context.Context, userID string) ([]*models.Notification, error) {
	notifications := make([]*models.Notification, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(newestFirst).
		Find(&notifications).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications of user %s: %w", userID, err)
	}
	return notifications, nil
}

func (r *Repository) CreateNotification(ctx context.Context, in models.InsertNotification) (*models.Notification, error) {
	n := in.ToNotification()
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		r.logger.Errorf("failed to create notification for user %s: %v", in.UserID, err)
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

func (r *Repository) MarkNotificationAsRead(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", 1).
		Error
	if err != nil {
		return fmt.Errorf("failed to mark notification %s as read: %w", id, err)
	}
	return nil
}

func (r *Repository) GetUnreadNotificationsCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, 0).
		Count(&count).
		Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications of user %s: %w", userID, err)
	}
	return count, nil
}
