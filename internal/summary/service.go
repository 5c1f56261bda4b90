package summary

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

// lowStockThreshold marks products the dashboard flags for restocking.
const lowStockThreshold = 5

// customerCounter exposes the registered-shopper count.
type customerCounter interface {
	Count(ctx context.Context) (int64, error)
}

// employeeCounter exposes the active-staff count.
type employeeCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

// expenseTotaler sums expenses incurred since a point in time.
type expenseTotaler interface {
	TotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
}

// DashboardDTO is the admin landing-page aggregate.
type DashboardDTO struct {
	Revenue         decimal.Decimal  `json:"revenue"`
	ExpenseTotal    decimal.Decimal  `json:"expense_total"`
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
	ProductCount    int64            `json:"product_count"`
	LowStockCount   int64            `json:"low_stock_count"`
	CustomerCount   int64            `json:"customer_count"`
	EmployeeCount   int64            `json:"employee_count"`
	GeneratedAtUnix int64            `json:"generated_at"`
}

// ServiceParams groups dependencies for the summary service.
type ServiceParams struct {
	SummaryRepo  Repository
	UserRepo     customerCounter
	EmployeeRepo employeeCounter
	ExpenseRepo  expenseTotaler
}

// Service produces the admin dashboard aggregates.
type Service interface {
	Dashboard(ctx context.Context) (DashboardDTO, error)
}

type service struct {
	summaryRepo  Repository
	userRepo     customerCounter
	employeeRepo employeeCounter
	expenseRepo  expenseTotaler
	now          func() time.Time
}

// NewService builds a summary service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.SummaryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "summary repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.EmployeeRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee repo is required")
	}
	if params.ExpenseRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense repo is required")
	}
	return &service{
		summaryRepo:  params.SummaryRepo,
		userRepo:     params.UserRepo,
		employeeRepo: params.EmployeeRepo,
		expenseRepo:  params.ExpenseRepo,
		now:          time.Now,
	}, nil
}

func (s *service) Dashboard(ctx context.Context) (DashboardDTO, error) {
	statusCounts, err := s.summaryRepo.OrderStatusCounts(ctx)
	if err != nil {
		return DashboardDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order counts")
	}

	revenue, err := s.summaryRepo.RevenueTotal(ctx)
	if err != nil {
		return DashboardDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revenue total")
	}

	expenseTotal, err := s.expenseRepo.TotalSince(ctx, time.Time{})
	if err != nil {
		return DashboardDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expense total")
	}

	productCount, err := s.summaryRepo.ProductCount(ctx)
	if err != nil {
		return DashboardDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product count")
	}

	lowStock, err := s.summaryRepo.LowStockCount(ctx, lowStockThreshold)
	if err != nil {
		return DashboardDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "low stock count")
	}

	customers, err := s.userRepo.Count(ctx)
	if err != nil {
		return DashboardDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "customer count")
	}

	employees, err := s.employeeRepo.CountActive(ctx)
	if err != nil {
		return DashboardDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "employee count")
	}

	byStatus := make(map[string]int64, len(statusCounts))
	for status, count := range statusCounts {
		byStatus[status.String()] = count
	}

	return DashboardDTO{
		Revenue:         revenue,
		ExpenseTotal:    expenseTotal,
		OrdersByStatus:  byStatus,
		ProductCount:    productCount,
		LowStockCount:   lowStock,
		CustomerCount:   customers,
		EmployeeCount:   employees,
		GeneratedAtUnix: s.now().Unix(),
	}, nil
}
