package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/pagos-go-api/internal/models"
)

// ExpenseRepository persists the expense ledger.
type ExpenseRepository interface {
	List(ctx context.Context) ([]models.Expense, error)
	GetByID(ctx context.Context, id uint) (models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) error
	// Delete removes the row inside its own transaction. Secondary
	// cleanup (stored receipt, audit entry) happens outside, after
	// commit.
	Delete(ctx context.Context, id uint) error
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository instantiates the repository.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) List(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := r.db.WithContext(ctx).Order("date DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}

	return expenses, nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id uint) (models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).First(&expense, id).Error; err != nil {
		return models.Expense{}, err
	}

	return expense, nil
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Expense{}, id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
