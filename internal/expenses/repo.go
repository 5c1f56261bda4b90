package expenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
)

// Repository defines persistence operations for operating expenses.
type Repository interface {
	List(ctx context.Context) ([]models.Expense, error)
	FindByID(ctx context.Context, expenseID uuid.UUID) (*models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	Update(ctx context.Context, expenseID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, expenseID uuid.UUID) error
	TotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs an expense repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context) ([]models.Expense, error) {
	var rows []models.Expense
	if err := r.db.WithContext(ctx).
		Order("incurred_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository) FindByID(ctx context.Context, expenseID uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).Where("id = ?", expenseID).First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *gormRepository) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

func (r *gormRepository) Update(ctx context.Context, expenseID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("id = ?", expenseID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, expenseID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", expenseID).
		Delete(&models.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TotalSince sums expense amounts incurred at or after the given time.
func (r *gormRepository) TotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("incurred_at >= ?", since).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
