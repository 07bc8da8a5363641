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

type PaymentRequestInput struct {
	AmountRub   decimal.Decimal    `json:"amount_rub"`
	Urgency     models.Urgency     `json:"urgency"`
	Attachments models.Attachments `json:"attachments,omitempty"`
	Comment     string             `json:"comment,omitempty"`
}

// ReviewInput is what an operator may change on a request in one step.
type ReviewInput struct {
	Status       *models.PaymentRequestStatus `json:"status,omitempty"`
	Receipt      *models.Attachment           `json:"receipt,omitempty"`
	AdminComment *string                      `json:"admin_comment,omitempty"`
	AmountRub    *decimal.Decimal             `json:"amount_rub,omitempty"`
	AmountUsdt   *decimal.Decimal             `json:"amount_usdt,omitempty"`
}

// Quote converts a rouble amount to USDT at the given rate, adding the
// urgent fee when requested.
func (s *Service) Quote(amountRub, rate decimal.Decimal, urgent bool) decimal.Decimal {
	usdt := amountRub.Div(rate)
	if urgent {
		usdt = usdt.Mul(decimal.NewFromInt(1).Add(s.opts.UrgentFee))
	}
	return utils.RoundTo(usdt, utils.UsdtPlaces)
}

// SubmitPaymentRequest freezes the USDT equivalent of the rouble amount at the
// current rate and records the request.
func (s *Service) SubmitPaymentRequest(ctx context.Context, userID string, in PaymentRequestInput) (*models.PaymentRequest, error) {
	if _, err := s.mustUser(ctx, userID); err != nil {
		return nil, err
	}

	amountRub := utils.RoundTo(in.AmountRub, utils.RubPlaces)
	if !amountRub.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if in.Urgency == "" {
		in.Urgency = models.UrgencyStandard
	}
	if !in.Urgency.Valid() {
		return nil, fmt.Errorf("%w: unknown urgency %q", ErrInvalidInput, in.Urgency)
	}
	if err := in.Attachments.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rate := s.CurrentRate(ctx)
	if !rate.IsPositive() {
		return nil, fmt.Errorf("exchange rate is unavailable")
	}

	urgent := in.Urgency == models.UrgencyUrgent
	amountUsdt := s.Quote(amountRub, rate, urgent)
	if !amountUsdt.IsPositive() {
		return nil, ErrInvalidAmount
	}

	insert := models.InsertPaymentRequest{
		UserID:      userID,
		AmountRub:   amountRub,
		AmountUsdt:  amountUsdt,
		FrozenRate:  rate,
		Urgency:     in.Urgency,
		Attachments: in.Attachments,
	}
	if urgent {
		insert.HasUrgentFee = 1
	}
	if comment := strings.TrimSpace(in.Comment); comment != "" {
		insert.Comment = &comment
	}

	var req *models.PaymentRequest
	err := s.repo.Transaction(ctx, func(tx repository.Storage) error {
		user, err := findUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user.AvailableBalance.LessThan(amountUsdt) {
			return ErrInsufficientFunds
		}
		if err := setBalance(ctx, tx, user, user.AvailableBalance.Sub(amountUsdt), user.FrozenBalance.Add(amountUsdt)); err != nil {
			return err
		}
		req, err = tx.CreatePaymentRequest(ctx, insert)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Payment request %s: %s RUB (%s USDT at %s) from user %s", req.ID, amountRub, amountUsdt, rate, userID)
	s.notify(ctx, userID, &req.ID, fmt.Sprintf("Заявка на оплату %s ₽ принята. Заморожено %s USDT", amountRub, amountUsdt))
	return req, nil
}

func (s *Service) GetPaymentRequest(ctx context.Context, id string) (*models.PaymentRequest, error) {
	req, err := s.repo.GetPaymentRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func (s *Service) ListPaymentRequests(ctx context.Context) ([]*models.PaymentRequest, error) {
	return s.repo.GetAllPaymentRequests(ctx)
}

func (s *Service) ListUserPaymentRequests(ctx context.Context, userID string) ([]*models.PaymentRequest, error) {
	if _, err := s.mustUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetPaymentRequestsByUserID(ctx, userID)
}

// CancelPaymentRequest lets the owner withdraw a request nobody started
// processing yet. The frozen amount goes back to the available balance.
func (s *Service) CancelPaymentRequest(ctx context.Context, userID, requestID string) (*models.PaymentRequest, error) {
	var req *models.PaymentRequest
	err := s.repo.Transaction(ctx, func(tx repository.Storage) error {
		var err error
		if req, err = tx.GetPaymentRequest(ctx, requestID); err != nil {
			return err
		}
		if req == nil || req.UserID != userID {
			return ErrRequestNotFound
		}
		if req.Status != models.PaymentSubmitted {
			return fmt.Errorf("%w: request is %s", ErrInvalidTransition, req.Status)
		}

		user, err := findUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := tx.UpdatePaymentRequestStatus(ctx, req.ID, models.PaymentCancelled); err != nil {
			return err
		}
		return setBalance(ctx, tx, user,
			user.AvailableBalance.Add(req.AmountUsdt),
			user.FrozenBalance.Sub(req.AmountUsdt),
		)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, userID, &req.ID, fmt.Sprintf("Заявка на %s ₽ отменена, %s USDT разморожено", req.AmountRub, req.AmountUsdt))
	return s.GetPaymentRequest(ctx, req.ID)
}

// ReviewPaymentRequest applies an operator decision in a single update and
// moves the frozen amount accordingly: paid charges it, rejected and
// cancelled release it, a corrected amount re-freezes the difference.
func (s *Service) ReviewPaymentRequest(ctx context.Context, operatorID, requestID string, in ReviewInput) (*models.PaymentRequest, error) {
	if _, err := s.activeOperator(ctx, operatorID); err != nil {
		return nil, err
	}
	if in.Receipt != nil {
		if err := in.Receipt.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	var (
		req    *models.PaymentRequest
		next   models.PaymentRequestStatus
		final  decimal.Decimal
		update models.PaymentRequestUpdate
	)
	err := s.repo.Transaction(ctx, func(tx repository.Storage) error {
		var err error
		if req, err = tx.GetPaymentRequest(ctx, requestID); err != nil {
			return err
		}
		if req == nil {
			return ErrRequestNotFound
		}
		if next, final, update, err = s.planReview(req, in); err != nil {
			return err
		}
		if update.IsEmpty() {
			return nil
		}
		if req.Status.IsTerminal() {
			return tx.UpdatePaymentRequestFull(ctx, req.ID, update)
		}

		user, err := findUser(ctx, tx, req.UserID)
		if err != nil {
			return err
		}

		held, charged := final, decimal.Zero
		if next.IsTerminal() {
			held = decimal.Zero
			if next == models.PaymentPaid {
				charged = final
			}
		}
		available := user.AvailableBalance.Add(req.AmountUsdt).Sub(held).Sub(charged)
		frozen := user.FrozenBalance.Sub(req.AmountUsdt).Add(held)
		if available.IsNegative() {
			return ErrInsufficientFunds
		}

		if err := tx.UpdatePaymentRequestFull(ctx, req.ID, update); err != nil {
			return err
		}
		return setBalance(ctx, tx, user, available, frozen)
	})
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return req, nil
	}

	s.logger.Infof("Payment request %s reviewed by operator %s: %s -> %s", req.ID, operatorID, req.Status, next)
	if update.Status != nil {
		s.notify(ctx, req.UserID, &req.ID, reviewMessage(req, next, final))
	}
	return s.GetPaymentRequest(ctx, req.ID)
}

// planReview validates in against the current state of req and returns the
// resulting status, the USDT amount the request ends up with and the columns
// to write. Terminal requests accept only a comment or a receipt.
func (s *Service) planReview(req *models.PaymentRequest, in ReviewInput) (models.PaymentRequestStatus, decimal.Decimal, models.PaymentRequestUpdate, error) {
	update := models.PaymentRequestUpdate{
		Receipt:      in.Receipt,
		AdminComment: in.AdminComment,
	}

	next := req.Status
	if in.Status != nil && *in.Status != req.Status {
		if !in.Status.Valid() || !req.Status.CanTransitionTo(*in.Status) {
			return "", decimal.Zero, update, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.Status, *in.Status)
		}
		next = *in.Status
		update.Status = &next
	}

	final := req.AmountUsdt
	if in.AmountRub == nil && in.AmountUsdt == nil {
		return next, final, update, nil
	}
	if req.Status.IsTerminal() {
		return "", decimal.Zero, update, fmt.Errorf("%w: request is %s", ErrInvalidTransition, req.Status)
	}

	if in.AmountRub != nil {
		rub := utils.RoundTo(*in.AmountRub, utils.RubPlaces)
		if !rub.IsPositive() {
			return "", decimal.Zero, update, ErrInvalidAmount
		}
		update.AmountRub = &rub
		final = s.Quote(rub, req.FrozenRate, req.HasUrgentFee == 1)
	}
	if in.AmountUsdt != nil {
		final = utils.RoundTo(*in.AmountUsdt, utils.UsdtPlaces)
	}
	if !final.IsPositive() {
		return "", decimal.Zero, update, ErrInvalidAmount
	}
	update.AmountUsdt = &final
	return next, final, update, nil
}

func reviewMessage(req *models.PaymentRequest, status models.PaymentRequestStatus, amount decimal.Decimal) string {
	switch status {
	case models.PaymentProcessing:
		return fmt.Sprintf("Заявка на %s ₽ принята в работу", req.AmountRub)
	case models.PaymentPaid:
		return fmt.Sprintf("Заявка на %s ₽ оплачена, списано %s USDT", req.AmountRub, amount)
	case models.PaymentRejected:
		return fmt.Sprintf("Заявка на %s ₽ отклонена, %s USDT разморожено", req.AmountRub, req.AmountUsdt)
	case models.PaymentCancelled:
		return fmt.Sprintf("Заявка на %s ₽ отменена оператором", req.AmountRub)
	}
	return fmt.Sprintf("Статус заявки на %s ₽: %s", req.AmountRub, status)
}
