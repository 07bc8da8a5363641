package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID               string          `gorm:"type:varchar;primaryKey;default:gen_random_uuid()" json:"id"`
	TelegramID       string          `gorm:"type:text;not null;uniqueIndex" json:"telegram_id"`
	Username         string          `gorm:"type:text;not null" json:"username"`
	AvailableBalance decimal.Decimal `gorm:"type:numeric(18,8);not null;default:0" json:"available_balance"`
	FrozenBalance    decimal.Decimal `gorm:"type:numeric(18,8);not null;default:0" json:"frozen_balance"`
	RegisteredAt     time.Time       `gorm:"type:timestamp;not null;default:now()" json:"registered_at"`
}

type PaymentRequest struct {
	ID           string               `gorm:"type:varchar;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       string               `gorm:"type:varchar;not null;index" json:"user_id"`
	AmountRub    decimal.Decimal      `gorm:"type:numeric(18,2);not null" json:"amount_rub"`
	AmountUsdt   decimal.Decimal      `gorm:"type:numeric(18,8);not null" json:"amount_usdt"`
	FrozenRate   decimal.Decimal      `gorm:"type:numeric(18,2);not null" json:"frozen_rate"`
	Urgency      Urgency              `gorm:"type:text;not null" json:"urgency"`
	HasUrgentFee int                  `gorm:"not null;default:0" json:"has_urgent_fee"`
	Attachments  Attachments          `gorm:"type:jsonb" json:"attachments,omitempty"`
	Comment      *string              `gorm:"type:text" json:"comment,omitempty"`
	Status       PaymentRequestStatus `gorm:"type:text;not null;default:submitted" json:"status"`
	Receipt      *Attachment          `gorm:"type:jsonb" json:"receipt,omitempty"`
	AdminComment *string              `gorm:"type:text" json:"admin_comment,omitempty"`
	CreatedAt    time.Time            `gorm:"type:timestamp;not null;default:now()" json:"created_at"`
}

type Notification struct {
	ID        string    `gorm:"type:varchar;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"type:varchar;not null;index" json:"user_id"`
	RequestID *string   `gorm:"type:varchar" json:"request_id,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    int       `gorm:"not null;default:0" json:"is_read"`
	CreatedAt time.Time `gorm:"type:timestamp;not null;default:now()" json:"created_at"`
}

type Deposit struct {
	ID          string          `gorm:"type:varchar;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      string          `gorm:"type:varchar;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,8);not null" json:"amount"`
	Status      DepositStatus   `gorm:"type:text;not null;default:pending" json:"status"`
	TxHash      *string         `gorm:"type:text" json:"tx_hash,omitempty"`
	CreatedAt   time.Time       `gorm:"type:timestamp;not null;default:now()" json:"created_at"`
	ConfirmedAt *time.Time      `gorm:"type:timestamp" json:"confirmed_at,omitempty"`
	ConfirmedBy *string         `gorm:"type:varchar" json:"confirmed_by,omitempty"`
}

type Operator struct {
	ID           string    `gorm:"type:varchar;primaryKey;default:gen_random_uuid()" json:"id"`
	Login        string    `gorm:"type:text;not null;uniqueIndex" json:"login"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Salt         string    `gorm:"type:varchar(64);not null" json:"-"`
	IsActive     int       `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"type:timestamp;not null;default:now()" json:"created_at"`
}

// Now is the clock used for server-assigned timestamps. Postgres keeps
// microseconds, so the value is truncated to make a created record compare
// equal to the stored one.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	u.ID = newID(u.ID)
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = Now()
	}
	return nil
}

func (p *PaymentRequest) BeforeCreate(_ *gorm.DB) error {
	p.ID = newID(p.ID)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = Now()
	}
	return nil
}

func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	n.ID = newID(n.ID)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = Now()
	}
	return nil
}

func (d *Deposit) BeforeCreate(_ *gorm.DB) error {
	d.ID = newID(d.ID)
	if d.CreatedAt.IsZero() {
		d.CreatedAt = Now()
	}
	return nil
}

func (o *Operator) BeforeCreate(_ *gorm.DB) error {
	o.ID = newID(o.ID)
	if o.CreatedAt.IsZero() {
		o.CreatedAt = Now()
	}
	return nil
}
