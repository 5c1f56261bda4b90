package employees

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	"github.com/blushmart/blushmart-backend/pkg/enums"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

// EmployeeDTO is the staff projection returned to the admin.
type EmployeeDTO struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Phone     string             `json:"phone"`
	Role      enums.EmployeeRole `json:"role"`
	IsActive  bool               `json:"is_active"`
	CreatedAt time.Time          `json:"created_at"`
}

// CreateEmployeeInput is the admin payload for a new staff record.
type CreateEmployeeInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone" validate:"required,e164"`
	Role  string `json:"role" validate:"required"`
}

// UpdateEmployeeInput carries partial staff edits; nil fields are untouched.
type UpdateEmployeeInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ListFilters narrow the staff list. The collection is small, so filtering
// happens in the service after a whole-table fetch.
type ListFilters struct {
	Search     string
	Role       string
	ActiveOnly bool
}

// ServiceParams groups dependencies for the employee service.
type ServiceParams struct {
	EmployeeRepo Repository
}

// Service manages back-office staff records.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]EmployeeDTO, error)
	ListDeliveryAgents(ctx context.Context) ([]EmployeeDTO, error)
	Get(ctx context.Context, employeeID uuid.UUID) (EmployeeDTO, error)
	Create(ctx context.Context, input CreateEmployeeInput) (EmployeeDTO, error)
	Update(ctx context.Context, employeeID uuid.UUID, input UpdateEmployeeInput) (EmployeeDTO, error)
	Delete(ctx context.Context, employeeID uuid.UUID) error
}

type service struct {
	employeeRepo Repository
}

// NewService builds an employee service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.EmployeeRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee repo is required")
	}
	return &service{employeeRepo: params.EmployeeRepo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]EmployeeDTO, error) {
	var role enums.EmployeeRole
	if filters.Role != "" {
		parsed, err := enums.ParseEmployeeRole(filters.Role)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role filter")
		}
		role = parsed
	}

	rows, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list employees")
	}

	search := strings.ToLower(strings.TrimSpace(filters.Search))

	items := make([]EmployeeDTO, 0, len(rows))
	for _, row := range rows {
		if filters.ActiveOnly && !row.IsActive {
			continue
		}
		if role != "" && row.Role != role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(row.Name), search) &&
			!strings.Contains(strings.ToLower(row.Phone), search) {
			continue
		}
		items = append(items, toDTO(row))
	}
	return items, nil
}

// ListDeliveryAgents returns active delivery staff, the assignable pool for
// out-for-delivery orders.
func (s *service) ListDeliveryAgents(ctx context.Context) ([]EmployeeDTO, error) {
	rows, err := s.employeeRepo.ListActiveByRole(ctx, enums.EmployeeRoleDelivery)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery agents")
	}
	items := make([]EmployeeDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, employeeID uuid.UUID) (EmployeeDTO, error) {
	employee, err := s.find(ctx, employeeID)
	if err != nil {
		return EmployeeDTO{}, err
	}
	return toDTO(*employee), nil
}

func (s *service) Create(ctx context.Context, input CreateEmployeeInput) (EmployeeDTO, error) {
	role, err := enums.ParseEmployeeRole(input.Role)
	if err != nil {
		return EmployeeDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}

	phone := strings.TrimSpace(input.Phone)
	if existing, err := s.employeeRepo.FindByPhone(ctx, phone); err == nil && existing != nil {
		return EmployeeDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return EmployeeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check phone")
	}

	employee := &models.Employee{
		Name:     strings.TrimSpace(input.Name),
		Phone:    phone,
		Role:     role,
		IsActive: true,
	}
	created, err := s.employeeRepo.Create(ctx, employee)
	if err != nil {
		return EmployeeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create employee")
	}
	return toDTO(*created), nil
}

func (s *service) Update(ctx context.Context, employeeID uuid.UUID, input UpdateEmployeeInput) (EmployeeDTO, error) {
	if employeeID == uuid.Nil {
		return EmployeeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Role != nil {
		role, err := enums.ParseEmployeeRole(*input.Role)
		if err != nil {
			return EmployeeDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		updates["role"] = role
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return s.Get(ctx, employeeID)
	}

	if err := s.employeeRepo.Update(ctx, employeeID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "employee not found")
		}
		return EmployeeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update employee")
	}
	return s.Get(ctx, employeeID)
}

func (s *service) Delete(ctx context.Context, employeeID uuid.UUID) error {
	if employeeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	}
	if err := s.employeeRepo.Delete(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "employee not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete employee")
	}
	return nil
}

func (s *service) find(ctx context.Context, employeeID uuid.UUID) (*models.Employee, error) {
	if employeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	}
	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	return employee, nil
}

func toDTO(e models.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Role:      e.Role,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
	}
}
