package summary

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	"github.com/blushmart/blushmart-backend/pkg/enums"
)

// Repository defines the aggregate queries behind the admin dashboard.
type Repository interface {
	OrderStatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error)
	RevenueTotal(ctx context.Context) (decimal.Decimal, error)
	ProductCount(ctx context.Context) (int64, error)
	LowStockCount(ctx context.Context, threshold int) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a summary repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) OrderStatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	type row struct {
		Status enums.OrderStatus
		Total  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, entry := range rows {
		counts[entry.Status] = entry.Total
	}
	return counts, nil
}

// RevenueTotal sums delivered orders only; in-flight and cancelled orders do
// not count as income.
func (r *gormRepository) RevenueTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ?", enums.OrderStatusDelivered).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *gormRepository) ProductCount(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&total).Error
	return total, err
}

func (r *gormRepository) LowStockCount(ctx context.Context, threshold int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND stock <= ?", true, threshold).
		Count(&total).Error
	return total, err
}
