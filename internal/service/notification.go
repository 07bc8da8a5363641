package service

import (
	"context"

	"github.com/Fi44er/usdt_topup/internal/models"
)

// notify stores a notification for the user. Failures are logged only, the
// operation that triggered it has already happened.
func (s *Service) notify(ctx context.Context, userID string, requestID *string, message string) {
	_, err := s.repo.CreateNotification(ctx, models.InsertNotification{
		UserID:    userID,
		RequestID: requestID,
		Message:   message,
	})
	if err != nil {
		s.logger.Errorf("Failed to notify user %s: %v", userID, err)
	}
}

func (s *Service) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	if _, err := s.mustUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetNotificationsByUserID(ctx, userID)
}

// MarkNotificationRead marks one of the user's notifications read. Ids that
// belong to somebody else are reported as missing.
func (s *Service) MarkNotificationRead(ctx context.Context, userID, id string) error {
	items, err := s.ListNotifications(ctx, userID)
	if err != nil {
		return err
	}
	for _, n := range items {
		if n.ID == id {
			return s.repo.MarkNotificationAsRead(ctx, id)
		}
	}
	return ErrNotificationNotFound
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.GetUnreadNotificationsCount(ctx, userID)
}
