package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Fi44er/usdt_topup/internal/models"
	"golang.org/x/crypto/argon2"
)

const (
	saltBytes     = 32
	argonTime     = 1
	argonMemory   = 64 * 1024
	argonThreads  = 4
	argonKeyBytes = 32
	minPassword   = 8
)

func hashPassword(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyBytes)
	return hex.EncodeToString(key)
}

func newSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (s *Service) CreateOperator(ctx context.Context, login, password string) (*models.Operator, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, fmt.Errorf("%w: login is required", ErrInvalidInput)
	}
	if len(password) < minPassword {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPassword)
	}

	salt, err := newSalt()
	if err != nil {
		return nil, err
	}

	op, err := s.repo.CreateOperator(ctx, models.InsertOperator{
		Login:        login,
		PasswordHash: hashPassword(password, salt),
		Salt:         salt,
	})
	if err != nil {
		return nil, translateDuplicate(err)
	}
	return op, nil
}

// Authenticate checks the credentials and returns the operator. Inactive
// operators cannot log in.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*models.Operator, error) {
	op, err := s.repo.GetOperatorByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, ErrInvalidCredentials
	}

	got := hashPassword(password, op.Salt)
	if subtle.ConstantTimeCompare([]byte(got), []byte(op.PasswordHash)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if op.IsActive != 1 {
		return nil, ErrOperatorInactive
	}
	return op, nil
}

func (s *Service) activeOperator(ctx context.Context, id string) (*models.Operator, error) {
	op, err := s.repo.GetOperator(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, ErrOperatorNotFound
	}
	if op.IsActive != 1 {
		return nil, ErrOperatorInactive
	}
	return op, nil
}

func (s *Service) ListOperators(ctx context.Context) ([]*models.Operator, error) {
	return s.repo.GetAllOperators(ctx)
}

func (s *Service) SetOperatorActive(ctx context.Context, id string, active bool) (*models.Operator, error) {
	op, err := s.repo.GetOperator(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, ErrOperatorNotFound
	}

	flag := 0
	if active {
		flag = 1
	}
	if err := s.repo.UpdateOperatorStatus(ctx, id, flag); err != nil {
		return nil, err
	}
	op.IsActive = flag
	s.logger.Infof("Operator %s active=%d", op.Login, flag)
	return op, nil
}

func (s *Service) DeleteOperator(ctx context.Context, id string) error {
	op, err := s.repo.GetOperator(ctx, id)
	if err != nil {
		return err
	}
	if op == nil {
		return ErrOperatorNotFound
	}
	return s.repo.DeleteOperator(ctx, id)
}

// EnsureBootstrapOperator creates the configured admin account on an empty
// operators table. Existing operators are never touched.
func (s *Service) EnsureBootstrapOperator(ctx context.Context, login, password string) error {
	if login == "" || password == "" {
		return nil
	}

	ops, err := s.repo.GetAllOperators(ctx)
	if err != nil {
		return err
	}
	if len(ops) > 0 {
		return nil
	}

	if _, err := s.CreateOperator(ctx, login, password); err != nil {
		return fmt.Errorf("failed to create bootstrap operator: %w", err)
	}
	s.logger.Infof("Bootstrap operator %s created", login)
	return nil
}
