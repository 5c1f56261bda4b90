package employees

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	"github.com/blushmart/blushmart-backend/pkg/enums"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

type stubEmployeeRepo struct {
	employees map[uuid.UUID]*models.Employee
}

func newStubEmployeeRepo(rows ...models.Employee) *stubEmployeeRepo {
	repo := &stubEmployeeRepo{employees: map[uuid.UUID]*models.Employee{}}
	for i := range rows {
		row := rows[i]
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		repo.employees[row.ID] = &row
	}
	return repo
}

func (s *stubEmployeeRepo) List(ctx context.Context) ([]models.Employee, error) {
	var rows []models.Employee
	for _, employee := range s.employees {
		rows = append(rows, *employee)
	}
	return rows, nil
}

func (s *stubEmployeeRepo) FindByID(ctx context.Context, employeeID uuid.UUID) (*models.Employee, error) {
	employee, ok := s.employees[employeeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return employee, nil
}

func (s *stubEmployeeRepo) FindByPhone(ctx context.Context, phone string) (*models.Employee, error) {
	for _, employee := range s.employees {
		if employee.Phone == phone {
			return employee, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubEmployeeRepo) Create(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	employee.ID = uuid.New()
	s.employees[employee.ID] = employee
	return employee, nil
}

func (s *stubEmployeeRepo) Update(ctx context.Context, employeeID uuid.UUID, updates map[string]any) error {
	employee, ok := s.employees[employeeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		employee.Name = name
	}
	if role, ok := updates["role"].(enums.EmployeeRole); ok {
		employee.Role = role
	}
	if active, ok := updates["is_active"].(bool); ok {
		employee.IsActive = active
	}
	return nil
}

func (s *stubEmployeeRepo) Delete(ctx context.Context, employeeID uuid.UUID) error {
	if _, ok := s.employees[employeeID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.employees, employeeID)
	return nil
}

func (s *stubEmployeeRepo) CountActive(ctx context.Context) (int64, error) {
	var total int64
	for _, employee := range s.employees {
		if employee.IsActive {
			total++
		}
	}
	return total, nil
}

func (s *stubEmployeeRepo) ListActiveByRole(ctx context.Context, role enums.EmployeeRole) ([]models.Employee, error) {
	var rows []models.Employee
	for _, employee := range s.employees {
		if employee.IsActive && employee.Role == role {
			rows = append(rows, *employee)
		}
	}
	return rows, nil
}

func newEmployeeService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{EmployeeRepo: repo})
	require.NoError(t, err)
	return svc
}

func TestEmployeeCreateRejectsUnknownRole(t *testing.T) {
	svc := newEmployeeService(t, newStubEmployeeRepo())

	_, err := svc.Create(context.Background(), CreateEmployeeInput{
		Name:  "Arjun",
		Phone: "+15550003333",
		Role:  "WIZARD",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestEmployeeCreateRejectsDuplicatePhone(t *testing.T) {
	repo := newStubEmployeeRepo(
		models.Employee{Name: "Arjun", Phone: "+15550003333", Role: enums.EmployeeRoleSales, IsActive: true},
	)
	svc := newEmployeeService(t, repo)

	_, err := svc.Create(context.Background(), CreateEmployeeInput{
		Name:  "Another Arjun",
		Phone: "+15550003333",
		Role:  "DELIVERY",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestEmployeeListFiltersByRole(t *testing.T) {
	repo := newStubEmployeeRepo(
		models.Employee{Name: "Arjun", Phone: "+15550003333", Role: enums.EmployeeRoleSales, IsActive: true},
		models.Employee{Name: "Dev", Phone: "+15550004444", Role: enums.EmployeeRoleDelivery, IsActive: true},
	)
	svc := newEmployeeService(t, repo)

	items, err := svc.List(context.Background(), ListFilters{Role: "DELIVERY"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dev", items[0].Name)
}

func TestEmployeeListRejectsUnknownRoleFilter(t *testing.T) {
	svc := newEmployeeService(t, newStubEmployeeRepo())

	_, err := svc.List(context.Background(), ListFilters{Role: "NINJA"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListDeliveryAgentsExcludesInactive(t *testing.T) {
	repo := newStubEmployeeRepo(
		models.Employee{Name: "Dev", Phone: "+15550004444", Role: enums.EmployeeRoleDelivery, IsActive: true},
		models.Employee{Name: "Gone", Phone: "+15550005555", Role: enums.EmployeeRoleDelivery, IsActive: false},
		models.Employee{Name: "Arjun", Phone: "+15550003333", Role: enums.EmployeeRoleSales, IsActive: true},
	)
	svc := newEmployeeService(t, repo)

	items, err := svc.ListDeliveryAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dev", items[0].Name)
}

func TestEmployeeDeactivate(t *testing.T) {
	repo := newStubEmployeeRepo(
		models.Employee{Name: "Dev", Phone: "+15550004444", Role: enums.EmployeeRoleDelivery, IsActive: true},
	)
	svc := newEmployeeService(t, repo)
	var employeeID uuid.UUID
	for id := range repo.employees {
		employeeID = id
	}
	inactive := false

	updated, err := svc.Update(context.Background(), employeeID, UpdateEmployeeInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}
