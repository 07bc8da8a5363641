package repository

import (
	"context"
	"errors"

	"github.com/Fi44er/usdt_topup/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *utils.Logger
	// set inside Transaction: single-row reads take FOR UPDATE locks
	locking bool
}

func NewRepository(db *gorm.DB, logger *utils.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const newestFirst = "created_at DESC"

// first loads one row into dst. A missing row is reported as found == false
// rather than an error.
func (r *Repository) first(ctx context.Context, dst any, query string, args ...any) (bool, error) {
	q := r.db.WithContext(ctx)
	if r.locking {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where(query, args...).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
