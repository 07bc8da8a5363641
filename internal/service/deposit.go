package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/internal/repository"
	"github.com/Fi44er/usdt_topup/utils"
	"github.com/shopspring/decimal"
)

// CreateDeposit registers a user's claim that USDT was sent to the deposit
// address. The balance is credited only after an operator confirms it.
func (s *Service) CreateDeposit(ctx context.Context, userID string, amount decimal.Decimal, txHash string) (*models.Deposit, error) {
	if _, err := s.mustUser(ctx, userID); err != nil {
		return nil, err
	}

	amount = utils.RoundTo(amount, utils.UsdtPlaces)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	in := models.InsertDeposit{UserID: userID, Amount: amount}
	if txHash = strings.TrimSpace(txHash); txHash != "" {
		if !utils.IsTxHash(txHash) {
			return nil, fmt.Errorf("%w: malformed transaction hash", ErrInvalidInput)
		}
		in.TxHash = &txHash
	}

	deposit, err := s.repo.CreateDeposit(ctx, in)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, userID, nil, fmt.Sprintf("Заявка на пополнение %s USDT создана и ожидает подтверждения", amount))
	return deposit, nil
}

func (s *Service) ListDeposits(ctx context.Context, userID string) ([]*models.Deposit, error) {
	if _, err := s.mustUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetDepositsByUserID(ctx, userID)
}

func (s *Service) ListPendingDeposits(ctx context.Context) ([]*models.Deposit, error) {
	return s.repo.GetPendingDeposits(ctx)
}

func pendingDeposit(ctx context.Context, tx repository.Storage, id string) (*models.Deposit, error) {
	deposit, err := tx.GetDeposit(ctx, id)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, ErrDepositNotFound
	}
	if deposit.Status != models.DepositPending {
		return nil, fmt.Errorf("%w: deposit is %s", ErrInvalidTransition, deposit.Status)
	}
	return deposit, nil
}

// ConfirmDeposit marks a pending deposit confirmed by the operator and
// credits its amount to the owner's available balance.
func (s *Service) ConfirmDeposit(ctx context.Context, operatorID, depositID string) (*models.Deposit, error) {
	if _, err := s.activeOperator(ctx, operatorID); err != nil {
		return nil, err
	}

	var (
		deposit *models.Deposit
		user    *models.User
	)
	err := s.repo.Transaction(ctx, func(tx repository.Storage) error {
		var err error
		if deposit, err = pendingDeposit(ctx, tx, depositID); err != nil {
			return err
		}
		if user, err = findUser(ctx, tx, deposit.UserID); err != nil {
			return err
		}
		if err := tx.ConfirmDeposit(ctx, deposit.ID, operatorID); err != nil {
			return err
		}
		return setBalance(ctx, tx, user, user.AvailableBalance.Add(deposit.Amount), user.FrozenBalance)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Deposit %s of %s USDT credited to user %s", deposit.ID, deposit.Amount, user.ID)
	s.notify(ctx, user.ID, nil, fmt.Sprintf("Пополнение на %s USDT подтверждено. Доступно: %s USDT", deposit.Amount, user.AvailableBalance))

	return s.repo.GetDeposit(ctx, deposit.ID)
}

func (s *Service) RejectDeposit(ctx context.Context, operatorID, depositID string) (*models.Deposit, error) {
	if _, err := s.activeOperator(ctx, operatorID); err != nil {
		return nil, err
	}

	var deposit *models.Deposit
	err := s.repo.Transaction(ctx, func(tx repository.Storage) error {
		var err error
		if deposit, err = pendingDeposit(ctx, tx, depositID); err != nil {
			return err
		}
		return tx.RejectDeposit(ctx, deposit.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, deposit.UserID, nil, fmt.Sprintf("Пополнение на %s USDT отклонено", deposit.Amount))
	return s.repo.GetDeposit(ctx, deposit.ID)
}
