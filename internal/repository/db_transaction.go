package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs several Storage calls as one unit.
//
// Single-record lookups made through tx lock the row until fn returns, so a
// status or balance read inside fn stays valid for the writes that follow.
// Returning an error from fn rolls everything back.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx Storage) error) error
}

var _ Transactor = (*Repository)(nil)

func (r *Repository) Transaction(ctx context.Context, fn func(tx Storage) error) error {
	r.logger.Debug("Starting transaction...")
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.withTransaction(tx))
	})
	if err != nil {
		r.logger.Debugf("Transaction rolled back: %v", err)
		return err
	}
	return nil
}

func (r *Repository) withTransaction(tx *gorm.DB) *Repository {
	return &Repository{db: tx, logger: r.logger, locking: true}
}
