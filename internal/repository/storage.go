package repository

import (
	"context"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/shopspring/decimal"
)

// Storage is the data access contract shared by the Postgres repository and
// the in-memory one used in tests.
//
// Single-record lookups return nil, nil when nothing matches. Lists are
// ordered by creation time, newest first. Updates addressing a missing id are
// no-ops. Nothing here changes more than one entity per call.
type Storage interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID string) (*models.User, error)
	CreateUser(ctx context.Context, user models.InsertUser) (*models.User, error)
	UpdateUserBalance(ctx context.Context, userID string, available, frozen decimal.Decimal) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)

	GetPaymentRequest(ctx context.Context, id string) (*models.PaymentRequest, error)
	GetPaymentRequestsByUserID(ctx context.Context, userID string) ([]*models.PaymentRequest, error)
	CreatePaymentRequest(ctx context.Context, req models.InsertPaymentRequest) (*models.PaymentRequest, error)
	UpdatePaymentRequestStatus(ctx context.Context, id string, status models.PaymentRequestStatus) error
	UpdatePaymentRequestWithReceipt(ctx context.Context, id string, status models.PaymentRequestStatus, receipt models.Attachment) error
	UpdatePaymentRequestFull(ctx context.Context, id string, upd models.PaymentRequestUpdate) error
	GetAllPaymentRequests(ctx context.Context) ([]*models.PaymentRequest, error)

	GetNotificationsByUserID(ctx context.Context, userID string) ([]*models.Notification, error)
	CreateNotification(ctx context.Context, n models.InsertNotification) (*models.Notification, error)
	MarkNotificationAsRead(ctx context.Context, id string) error
	GetUnreadNotificationsCount(ctx context.Context, userID string) (int64, error)

	GetDeposit(ctx context.Context, id string) (*models.Deposit, error)
	GetDepositsByUserID(ctx context.Context, userID string) ([]*models.Deposit, error)
	GetPendingDeposits(ctx context.Context) ([]*models.Deposit, error)
	CreateDeposit(ctx context.Context, d models.InsertDeposit) (*models.Deposit, error)
	ConfirmDeposit(ctx context.Context, id, confirmedBy string) error
	RejectDeposit(ctx context.Context, id string) error

	GetOperator(ctx context.Context, id string) (*models.Operator, error)
	GetOperatorByLogin(ctx context.Context, login string) (*models.Operator, error)
	GetAllOperators(ctx context.Context) ([]*models.Operator, error)
	CreateOperator(ctx context.Context, op models.InsertOperator) (*models.Operator, error)
	UpdateOperatorStatus(ctx context.Context, id string, isActive int) error
	DeleteOperator(ctx context.Context, id string) error
}

var _ Storage = (*Repository)(nil)
