// Package memory is an in-process implementation of repository.Storage used
// by tests and local runs without Postgres.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	_ repository.Storage    = (*Storage)(nil)
	_ repository.Transactor = (*Storage)(nil)
)

type Storage struct {
	mu sync.RWMutex
	// held for the whole of a Transaction call
	txMu sync.Mutex

	users         map[string]*models.User
	requests      map[string]*models.PaymentRequest
	notifications map[string]*models.Notification
	deposits      map[string]*models.Deposit
	operators     map[string]*models.Operator

	// insertion order, used to break created_at ties
	seq   map[string]int
	next  int
	last  time.Time
	clock func() time.Time
}

func NewStorage() *Storage {
	return &Storage{
		users:         make(map[string]*models.User),
		requests:      make(map[string]*models.PaymentRequest),
		notifications: make(map[string]*models.Notification),
		deposits:      make(map[string]*models.Deposit),
		operators:     make(map[string]*models.Operator),
		seq:           make(map[string]int),
		clock:         models.Now,
	}
}

// WithClock replaces the timestamp source.
func (s *Storage) WithClock(clock func() time.Time) *Storage {
	s.clock = clock
	return s
}

// stamp returns a fresh id and a creation time strictly after the previous
// one. Must be called with mu held.
func (s *Storage) stamp() (string, time.Time) {
	now := s.clock()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	id := uuid.NewString()
	s.next++
	s.seq[id] = s.next
	return id, now
}

// Transaction runs fn while holding off every other transaction on this
// storage. When fn fails the entities are restored to what they were before
// it ran.
func (s *Storage) Transaction(_ context.Context, fn func(tx repository.Storage) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	users         map[string]*models.User
	requests      map[string]*models.PaymentRequest
	notifications map[string]*models.Notification
	deposits      map[string]*models.Deposit
	operators     map[string]*models.Operator
}

func (s *Storage) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		users:         make(map[string]*models.User, len(s.users)),
		requests:      make(map[string]*models.PaymentRequest, len(s.requests)),
		notifications: make(map[string]*models.Notification, len(s.notifications)),
		deposits:      make(map[string]*models.Deposit, len(s.deposits)),
		operators:     make(map[string]*models.Operator, len(s.operators)),
	}
	for id, u := range s.users {
		snap.users[id] = cloneUser(u)
	}
	for id, r := range s.requests {
		snap.requests[id] = cloneRequest(r)
	}
	for id, n := range s.notifications {
		snap.notifications[id] = cloneNotification(n)
	}
	for id, d := range s.deposits {
		snap.deposits[id] = cloneDeposit(d)
	}
	for id, op := range s.operators {
		c := *op
		snap.operators[id] = &c
	}
	return snap
}

func (s *Storage) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.requests = snap.requests
	s.notifications = snap.notifications
	s.deposits = snap.deposits
	s.operators = snap.operators
}

func duplicate(what, value string) error {
	return fmt.Errorf("%s %q already exists: %w", what, value, gorm.ErrDuplicatedKey)
}

func newestFirst[T any](s *Storage, items []*T, createdAt func(*T) time.Time, id func(*T) string) []*T {
	sort.Slice(items, func(i, j int) bool {
		ti, tj := createdAt(items[i]), createdAt(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return s.seq[id(items[i])] > s.seq[id(items[j])]
	})
	return items
}

// Users

func (s *Storage) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (s *Storage) GetUserByTelegramID(_ context.Context, telegramID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.TelegramID == telegramID {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *Storage) CreateUser(_ context.Context, in models.InsertUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.TelegramID == in.TelegramID {
			return nil, duplicate("telegram id", in.TelegramID)
		}
	}
	u := in.ToUser()
	u.ID, u.RegisteredAt = s.stamp()
	s.users[u.ID] = u
	return cloneUser(u), nil
}

func (s *Storage) UpdateUserBalance(_ context.Context, userID string, available, frozen decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.AvailableBalance = available
		u.FrozenBalance = frozen
	}
	return nil
}

func (s *Storage) GetAllUsers(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	return newestFirst(s, out,
		func(u *models.User) time.Time { return u.RegisteredAt },
		func(u *models.User) string { return u.ID }), nil
}

// Payment requests

func (s *Storage) GetPaymentRequest(_ context.Context, id string) (*models.PaymentRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.requests[id]; ok {
		return cloneRequest(r), nil
	}
	return nil, nil
}

func (s *Storage) GetPaymentRequestsByUserID(_ context.Context, userID string) ([]*models.PaymentRequest, error) {
	return s.listRequests(func(r *models.PaymentRequest) bool { return r.UserID == userID }), nil
}

func (s *Storage) GetAllPaymentRequests(_ context.Context) ([]*models.PaymentRequest, error) {
	return s.listRequests(func(*models.PaymentRequest) bool { return true }), nil
}

func (s *Storage) listRequests(keep func(*models.PaymentRequest) bool) []*models.PaymentRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.PaymentRequest, 0)
	for _, r := range s.requests {
		if keep(r) {
			out = append(out, cloneRequest(r))
		}
	}
	return newestFirst(s, out,
		func(r *models.PaymentRequest) time.Time { return r.CreatedAt },
		func(r *models.PaymentRequest) string { return r.ID })
}

func (s *Storage) CreatePaymentRequest(_ context.Context, in models.InsertPaymentRequest) (*models.PaymentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := cloneRequest(in.ToPaymentRequest())
	r.ID, r.CreatedAt = s.stamp()
	s.requests[r.ID] = r
	return cloneRequest(r), nil
}

func (s *Storage) UpdatePaymentRequestStatus(ctx context.Context, id string, status models.PaymentRequestStatus) error {
	return s.UpdatePaymentRequestFull(ctx, id, models.PaymentRequestUpdate{Status: &status})
}

func (s *Storage) UpdatePaymentRequestWithReceipt(ctx context.Context, id string, status models.PaymentRequestStatus, receipt models.Attachment) error {
	return s.UpdatePaymentRequestFull(ctx, id, models.PaymentRequestUpdate{Status: &status, Receipt: &receipt})
}

func (s *Storage) UpdatePaymentRequestFull(_ context.Context, id string, upd models.PaymentRequestUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil
	}
	if upd.Status != nil {
		r.Status = *upd.Status
	}
	if upd.Receipt != nil {
		receipt := cloneAttachment(*upd.Receipt)
		r.Receipt = &receipt
	}
	if upd.AdminComment != nil {
		r.AdminComment = cloneString(upd.AdminComment)
	}
	if upd.AmountRub != nil {
		r.AmountRub = *upd.AmountRub
	}
	if upd.AmountUsdt != nil {
		r.AmountUsdt = *upd.AmountUsdt
	}
	return nil
}

// Notifications

func (s *Storage) GetNotificationsByUserID(_ context.Context, userID string) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, cloneNotification(n))
		}
	}
	return newestFirst(s, out,
		func(n *models.Notification) time.Time { return n.CreatedAt },
		func(n *models.Notification) string { return n.ID }), nil
}

func (s *Storage) CreateNotification(_ context.Context, in models.InsertNotification) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := in.ToNotification()
	n.RequestID = cloneString(in.RequestID)
	n.ID, n.CreatedAt = s.stamp()
	s.notifications[n.ID] = n
	return cloneNotification(n), nil
}

func (s *Storage) MarkNotificationAsRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notifications[id]; ok {
		n.IsRead = 1
	}
	return nil
}

func (s *Storage) GetUnreadNotificationsCount(_ context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && n.IsRead == 0 {
			count++
		}
	}
	return count, nil
}

// Deposits

func (s *Storage) GetDeposit(_ context.Context, id string) (*models.Deposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.deposits[id]; ok {
		return cloneDeposit(d), nil
	}
	return nil, nil
}

func (s *Storage) GetDepositsByUserID(_ context.Context, userID string) ([]*models.Deposit, error) {
	return s.listDeposits(func(d *models.Deposit) bool { return d.UserID == userID }), nil
}

func (s *Storage) GetPendingDeposits(_ context.Context) ([]*models.Deposit, error) {
	return s.listDeposits(func(d *models.Deposit) bool { return d.Status == models.DepositPending }), nil
}

func (s *Storage) listDeposits(keep func(*models.Deposit) bool) []*models.Deposit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Deposit, 0)
	for _, d := range s.deposits {
		if keep(d) {
			out = append(out, cloneDeposit(d))
		}
	}
	return newestFirst(s, out,
		func(d *models.Deposit) time.Time { return d.CreatedAt },
		func(d *models.Deposit) string { return d.ID })
}

func (s *Storage) CreateDeposit(_ context.Context, in models.InsertDeposit) (*models.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := in.ToDeposit()
	d.TxHash = cloneString(in.TxHash)
	d.ID, d.CreatedAt = s.stamp()
	s.deposits[d.ID] = d
	return cloneDeposit(d), nil
}

func (s *Storage) ConfirmDeposit(_ context.Context, id, confirmedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.deposits[id]; ok {
		now := s.clock()
		if now.Before(d.CreatedAt) {
			now = d.CreatedAt
		}
		d.Status = models.DepositConfirmed
		d.ConfirmedAt = &now
		d.ConfirmedBy = &confirmedBy
	}
	return nil
}

func (s *Storage) RejectDeposit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.deposits[id]; ok {
		d.Status = models.DepositRejected
	}
	return nil
}

// Operators

func (s *Storage) GetOperator(_ context.Context, id string) (*models.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if op, ok := s.operators[id]; ok {
		c := *op
		return &c, nil
	}
	return nil, nil
}

func (s *Storage) GetOperatorByLogin(_ context.Context, login string) (*models.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, op := range s.operators {
		if op.Login == login {
			c := *op
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Storage) GetAllOperators(_ context.Context) ([]*models.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Operator, 0, len(s.operators))
	for _, op := range s.operators {
		c := *op
		out = append(out, &c)
	}
	return newestFirst(s, out,
		func(op *models.Operator) time.Time { return op.CreatedAt },
		func(op *models.Operator) string { return op.ID }), nil
}

func (s *Storage) CreateOperator(_ context.Context, in models.InsertOperator) (*models.Operator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range s.operators {
		if op.Login == in.Login {
			return nil, duplicate("operator login", in.Login)
		}
	}
	op := in.ToOperator()
	op.ID, op.CreatedAt = s.stamp()
	s.operators[op.ID] = op
	c := *op
	return &c, nil
}

func (s *Storage) UpdateOperatorStatus(_ context.Context, id string, isActive int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if op, ok := s.operators[id]; ok {
		op.IsActive = isActive
	}
	return nil
}

func (s *Storage) DeleteOperator(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.operators, id)
	return nil
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneAttachment(a models.Attachment) models.Attachment {
	a.Name = cloneString(a.Name)
	return a
}

func cloneRequest(r *models.PaymentRequest) *models.PaymentRequest {
	c := *r
	if r.Attachments != nil {
		c.Attachments = make(models.Attachments, len(r.Attachments))
		for i, a := range r.Attachments {
			c.Attachments[i] = cloneAttachment(a)
		}
	}
	if r.Receipt != nil {
		receipt := cloneAttachment(*r.Receipt)
		c.Receipt = &receipt
	}
	c.Comment = cloneString(r.Comment)
	c.AdminComment = cloneString(r.AdminComment)
	return &c
}

func cloneNotification(n *models.Notification) *models.Notification {
	c := *n
	c.RequestID = cloneString(n.RequestID)
	return &c
}

func cloneDeposit(d *models.Deposit) *models.Deposit {
	c := *d
	c.TxHash = cloneString(d.TxHash)
	c.ConfirmedBy = cloneString(d.ConfirmedBy)
	if d.ConfirmedAt != nil {
		t := *d.ConfirmedAt
		c.ConfirmedAt = &t
	}
	return &c
}
