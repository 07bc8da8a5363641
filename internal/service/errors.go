package service

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDepositNotFound      = errors.New("deposit not found")
	ErrRequestNotFound      = errors.New("payment request not found")
	ErrOperatorNotFound     = errors.New("operator not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidCredentials   = errors.New("invalid login or password")
	ErrOperatorInactive     = errors.New("operator is disabled")
	ErrAlreadyExists        = errors.New("already exists")
	ErrForbidden            = errors.New("access denied")
)
