package models

import "github.com/shopspring/decimal"

// Insert variants hold what a caller supplies when creating a row. Server
// assigned fields (ids, timestamps, confirmation metadata) are absent; optional
// fields fall back to the column defaults.

type InsertUser struct {
	TelegramID       string           `json:"telegram_id"`
	Username         string           `json:"username"`
	AvailableBalance *decimal.Decimal `json:"available_balance,omitempty"`
	FrozenBalance    *decimal.Decimal `json:"frozen_balance,omitempty"`
}

func (in InsertUser) ToUser() *User {
	return &User{
		TelegramID:       in.TelegramID,
		Username:         in.Username,
		AvailableBalance: decimalOrZero(in.AvailableBalance),
		FrozenBalance:    decimalOrZero(in.FrozenBalance),
	}
}

type InsertPaymentRequest struct {
	UserID       string                `json:"user_id"`
	AmountRub    decimal.Decimal       `json:"amount_rub"`
	AmountUsdt   decimal.Decimal       `json:"amount_usdt"`
	FrozenRate   decimal.Decimal       `json:"frozen_rate"`
	Urgency      Urgency               `json:"urgency"`
	HasUrgentFee int                   `json:"has_urgent_fee"`
	Attachments  Attachments           `json:"attachments,omitempty"`
	Comment      *string               `json:"comment,omitempty"`
	Status       *PaymentRequestStatus `json:"status,omitempty"`
	Receipt      *Attachment           `json:"receipt,omitempty"`
	AdminComment *string               `json:"admin_comment,omitempty"`
}

func (in InsertPaymentRequest) ToPaymentRequest() *PaymentRequest {
	status := PaymentSubmitted
	if in.Status != nil {
		status = *in.Status
	}
	return &PaymentRequest{
		UserID:       in.UserID,
		AmountRub:    in.AmountRub,
		AmountUsdt:   in.AmountUsdt,
		FrozenRate:   in.FrozenRate,
		Urgency:      in.Urgency,
		HasUrgentFee: in.HasUrgentFee,
		Attachments:  in.Attachments,
		Comment:      in.Comment,
		Status:       status,
		Receipt:      in.Receipt,
		AdminComment: in.AdminComment,
	}
}

type InsertNotification struct {
	UserID    string  `json:"user_id"`
	RequestID *string `json:"request_id,omitempty"`
	Message   string  `json:"message"`
	IsRead    int     `json:"is_read"`
}

func (in InsertNotification) ToNotification() *Notification {
	return &Notification{
		UserID:    in.UserID,
		RequestID: in.RequestID,
		Message:   in.Message,
		IsRead:    in.IsRead,
	}
}

type InsertDeposit struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
	Status *DepositStatus  `json:"status,omitempty"`
	TxHash *string         `json:"tx_hash,omitempty"`
}

func (in InsertDeposit) ToDeposit() *Deposit {
	status := DepositPending
	if in.Status != nil {
		status = *in.Status
	}
	return &Deposit{
		UserID: in.UserID,
		Amount: in.Amount,
		Status: status,
		TxHash: in.TxHash,
	}
}

type InsertOperator struct {
	Login        string `json:"login"`
	PasswordHash string `json:"password_hash"`
	Salt         string `json:"salt"`
	IsActive     *int   `json:"is_active,omitempty"`
}

func (in InsertOperator) ToOperator() *Operator {
	active := 1
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &Operator{
		Login:        in.Login,
		PasswordHash: in.PasswordHash,
		Salt:         in.Salt,
		IsActive:     active,
	}
}

// PaymentRequestUpdate is the partial update applied by operator review.
// Nil fields are left untouched.
type PaymentRequestUpdate struct {
	Status       *PaymentRequestStatus `json:"status,omitempty"`
	Receipt      *Attachment           `json:"receipt,omitempty"`
	AdminComment *string               `json:"admin_comment,omitempty"`
	AmountRub    *decimal.Decimal      `json:"amount_rub,omitempty"`
	AmountUsdt   *decimal.Decimal      `json:"amount_usdt,omitempty"`
}

func (u PaymentRequestUpdate) IsEmpty() bool {
	return u.Status == nil && u.Receipt == nil && u.AdminComment == nil &&
		u.AmountRub == nil && u.AmountUsdt == nil
}

// Columns maps the set fields to column names for a single UPDATE.
func (u PaymentRequestUpdate) Columns() map[string]any {
	cols := make(map[string]any)
	if u.Status != nil {
		cols["status"] = *u.Status
	}
	if u.Receipt != nil {
		cols["receipt"] = *u.Receipt
	}
	if u.AdminComment != nil {
		cols["admin_comment"] = *u.AdminComment
	}
	if u.AmountRub != nil {
		cols["amount_rub"] = *u.AmountRub
	}
	if u.AmountUsdt != nil {
		cols["amount_usdt"] = *u.AmountUsdt
	}
	return cols
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
