package employees

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	"github.com/blushmart/blushmart-backend/pkg/enums"
)

// Repository defines persistence operations for staff records.
type Repository interface {
	List(ctx context.Context) ([]models.Employee, error)
	FindByID(ctx context.Context, employeeID uuid.UUID) (*models.Employee, error)
	FindByPhone(ctx context.Context, phone string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	Update(ctx context.Context, employeeID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, employeeID uuid.UUID) error
	CountActive(ctx context.Context) (int64, error)
	ListActiveByRole(ctx context.Context, role enums.EmployeeRole) ([]models.Employee, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs an employee repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context) ([]models.Employee, error) {
	var rows []models.Employee
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository) FindByID(ctx context.Context, employeeID uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", employeeID).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *gormRepository) FindByPhone(ctx context.Context, phone string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *gormRepository) Create(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	if err := r.db.WithContext(ctx).Create(employee).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *gormRepository) Update(ctx context.Context, employeeID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", employeeID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, employeeID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", employeeID).
		Delete(&models.Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("is_active = ?", true).
		Count(&total).Error
	return total, err
}

// ListActiveByRole returns the assignable pool for a role, e.g. delivery
// agents offered in the admin status dropdown.
func (r *gormRepository) ListActiveByRole(ctx context.Context, role enums.EmployeeRole) ([]models.Employee, error) {
	var rows []models.Employee
	if err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", role, true).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
