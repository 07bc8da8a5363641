package repository

import (
	"context"
	"fmt"

	"github.com/Fi44er/usdt_topup/internal/models"
)

func (r *Repository) GetOperator(ctx context.Context, id string) (*models.Operator, error) {
	var op models.Operator
	found, err := r.first(ctx, &op, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get operator %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &op, nil
}

func (r *Repository) GetOperatorByLogin(ctx context.Context, login string) (*models.Operator, error) {
	var op models.Operator
	found, err := r.first(ctx, &op, "login = ?", login)
	if err != nil {
		return nil, fmt.Errorf("failed to get operator by login %s: %w", login, err)
	}
	if !found {
		return nil, nil
	}
	return &op, nil
}

func (r *Repository) GetAllOperators(ctx context.Context) ([]*models.Operator, error) {
	ops := make([]*models.Operator, 0)
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&ops).Error; err != nil {
		return nil, fmt.Errorf("failed to get operators: %w", err)
	}
	return ops, nil
}

func (r *Repository) CreateOperator(ctx context.Context, in models.InsertOperator) (*models.Operator, error) {
	op := in.ToOperator()
	if err := r.db.WithContext(ctx).Create(op).Error; err != nil {
		r.logger.Errorf("failed to create operator %s: %v", in.Login, err)
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}
	r.logger.Infof("Operator %s created (%s)", op.Login, op.ID)
	return op, nil
}

func (r *Repository) UpdateOperatorStatus(ctx context.Context, id string, isActive int) error {
	err := r.db.WithContext(ctx).
		Model(&models.Operator{}).
		Where("id = ?", id).
		Update("is_active", isActive).
		Error
	if err != nil {
		return fmt.Errorf("failed to update operator status: %w", err)
	}
	return nil
}

// DeleteOperator removes the row. Deleting a missing id is not an error.
func (r *Repository) DeleteOperator(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Operator{})
	if tx.Error != nil {
		r.logger.Errorf("failed to delete operator %s: %v", id, tx.Error)
		return fmt.Errorf("failed to delete operator: %w", tx.Error)
	}
	if tx.RowsAffected > 0 {
		r.logger.Infof("Operator %s deleted", id)
	}
	return nil
}
