package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/internal/repository"
	"github.com/Fi44er/usdt_topup/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository is the storage the service works against. Postgres in
// production, the memory implementation in tests. Flows that check a status
// or balance and then write it run inside Transaction.
type Repository interface {
	repository.Storage
	repository.Transactor
}

type RateProvider interface {
	USDTRUB(ctx context.Context) (decimal.Decimal, error)
}

type Options struct {
	DepositAddress string
	FallbackRate   decimal.Decimal
	// UrgentFee is a fraction added to the USDT amount of urgent requests.
	UrgentFee decimal.Decimal
}

type Service struct {
	repo   Repository
	rates  RateProvider
	opts   Options
	logger *utils.Logger
}

func NewService(repo Repository, rates RateProvider, opts Options, logger *utils.Logger) *Service {
	return &Service{
		repo:   repo,
		rates:  rates,
		opts:   opts,
		logger: logger,
	}
}

func (s *Service) DepositAddress() string {
	return s.opts.DepositAddress
}

// CurrentRate returns roubles per USDT, falling back to the configured rate
// when the source is unavailable.
func (s *Service) CurrentRate(ctx context.Context) decimal.Decimal {
	if s.rates != nil {
		rate, err := s.rates.USDTRUB(ctx)
		if err == nil {
			return rate
		}
		s.logger.Warnf("Failed to get USDT/RUB rate, using fallback %s: %v", s.opts.FallbackRate, err)
	}
	return s.opts.FallbackRate
}

func (s *Service) mustUser(ctx context.Context, userID string) (*models.User, error) {
	return findUser(ctx, s.repo, userID)
}

func findUser(ctx context.Context, st repository.Storage, userID string) (*models.User, error) {
	user, err := st.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func setBalance(ctx context.Context, tx repository.Storage, user *models.User, available, frozen decimal.Decimal) error {
	if available.IsNegative() || frozen.IsNegative() {
		return ErrInsufficientFunds
	}
	if err := tx.UpdateUserBalance(ctx, user.ID, available, frozen); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	user.AvailableBalance = available
	user.FrozenBalance = frozen
	return nil
}

func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	}
	return err
}
