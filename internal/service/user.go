package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/utils"
	"github.com/shopspring/decimal"
)

// RegisterUser returns the user bound to the Telegram account, creating it on
// first contact.
func (s *Service) RegisterUser(ctx context.Context, telegramID, username string) (*models.User, error) {
	telegramID = strings.TrimSpace(telegramID)
	if telegramID == "" {
		return nil, fmt.Errorf("%w: telegram id is required", ErrInvalidInput)
	}

	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	if username == "" {
		username = "user" + telegramID
	}
	user, err = s.repo.CreateUser(ctx, models.InsertUser{
		TelegramID: telegramID,
		Username:   username,
	})
	if err != nil {
		return nil, translateDuplicate(err)
	}

	s.logger.Infof("New user %s (%s) registered", user.ID, username)
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.mustUser(ctx, userID)
}

func (s *Service) GetUserByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	return s.repo.GetUserByTelegramID(ctx, telegramID)
}

func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

type Dashboard struct {
	User           *models.User    `json:"user"`
	Rate           decimal.Decimal `json:"rate"`
	AvailableRub   decimal.Decimal `json:"available_rub"`
	UnreadCount    int64           `json:"unread_count"`
	DepositAddress string          `json:"deposit_address"`
}

func (s *Service) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.mustUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.GetUnreadNotificationsCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	rate := s.CurrentRate(ctx)
	return &Dashboard{
		User:           user,
		Rate:           rate,
		AvailableRub:   utils.RoundTo(user.AvailableBalance.Mul(rate), utils.RubPlaces),
		UnreadCount:    unread,
		DepositAddress: s.opts.DepositAddress,
	}, nil
}
