package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
)

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	ListAdmin(ctx context.Context, filters AdminListFilters) ([]models.Order, int64, error)
	Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}

// TxRunner executes a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AddressReader resolves a user-owned shipping destination.
type AddressReader interface {
	FindOwned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
}

// EmployeeReader resolves staff records for delivery assignment.
type EmployeeReader interface {
	FindByID(ctx context.Context, employeeID uuid.UUID) (*models.Employee, error)
}
