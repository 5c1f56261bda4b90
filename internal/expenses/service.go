package expenses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

// ExpenseDTO is the expense projection returned to the admin.
type ExpenseDTO struct {
	ID         uuid.UUID       `json:"id"`
	Title      string          `json:"title"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	IncurredAt time.Time       `json:"incurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CreateExpenseInput is the admin payload for a new expense record.
type CreateExpenseInput struct {
	Title      string          `json:"title" validate:"required,max=200"`
	Category   string          `json:"category" validate:"required,max=100"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	IncurredAt time.Time       `json:"incurred_at" validate:"required"`
}

// UpdateExpenseInput carries partial expense edits; nil fields are untouched.
type UpdateExpenseInput struct {
	Title      *string          `json:"title,omitempty" validate:"omitempty,max=200"`
	Category   *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	IncurredAt *time.Time       `json:"incurred_at,omitempty"`
}

// ListFilters narrow the expense list. The collection is small, so filtering
// happens in the service after a whole-table fetch.
type ListFilters struct {
	Search   string
	Category string
}

// ServiceParams groups dependencies for the expense service.
type ServiceParams struct {
	ExpenseRepo Repository
}

// Service manages admin-recorded operating expenses.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]ExpenseDTO, error)
	Get(ctx context.Context, expenseID uuid.UUID) (ExpenseDTO, error)
	Create(ctx context.Context, input CreateExpenseInput) (ExpenseDTO, error)
	Update(ctx context.Context, expenseID uuid.UUID, input UpdateExpenseInput) (ExpenseDTO, error)
	Delete(ctx context.Context, expenseID uuid.UUID) error
}

type service struct {
	expenseRepo Repository
}

// NewService builds an expense service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ExpenseRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense repo is required")
	}
	return &service{expenseRepo: params.ExpenseRepo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]ExpenseDTO, error) {
	rows, err := s.expenseRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expenses")
	}

	search := strings.ToLower(strings.TrimSpace(filters.Search))
	category := strings.ToLower(strings.TrimSpace(filters.Category))

	items := make([]ExpenseDTO, 0, len(rows))
	for _, row := range rows {
		if category != "" && strings.ToLower(row.Category) != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(row.Title), search) &&
			!strings.Contains(strings.ToLower(row.Category), search) {
			continue
		}
		items = append(items, toDTO(row))
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, expenseID uuid.UUID) (ExpenseDTO, error) {
	expense, err := s.find(ctx, expenseID)
	if err != nil {
		return ExpenseDTO{}, err
	}
	return toDTO(*expense), nil
}

func (s *service) Create(ctx context.Context, input CreateExpenseInput) (ExpenseDTO, error) {
	if !input.Amount.IsPositive() {
		return ExpenseDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	expense := &models.Expense{
		Title:      strings.TrimSpace(input.Title),
		Category:   strings.TrimSpace(input.Category),
		Amount:     input.Amount,
		IncurredAt: input.IncurredAt,
	}
	created, err := s.expenseRepo.Create(ctx, expense)
	if err != nil {
		return ExpenseDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create expense")
	}
	return toDTO(*created), nil
}

func (s *service) Update(ctx context.Context, expenseID uuid.UUID, input UpdateExpenseInput) (ExpenseDTO, error) {
	if expenseID == uuid.Nil {
		return ExpenseDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "expense id is required")
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return ExpenseDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
		}
		updates["amount"] = *input.Amount
	}
	if input.IncurredAt != nil {
		updates["incurred_at"] = *input.IncurredAt
	}
	if len(updates) == 0 {
		return s.Get(ctx, expenseID)
	}

	if err := s.expenseRepo.Update(ctx, expenseID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpenseDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "expense not found")
		}
		return ExpenseDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update expense")
	}
	return s.Get(ctx, expenseID)
}

func (s *service) Delete(ctx context.Context, expenseID uuid.UUID) error {
	if expenseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "expense id is required")
	}
	if err := s.expenseRepo.Delete(ctx, expenseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "expense not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete expense")
	}
	return nil
}

func (s *service) find(ctx context.Context, expenseID uuid.UUID) (*models.Expense, error) {
	if expenseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense id is required")
	}
	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load expense")
	}
	return expense, nil
}

func toDTO(e models.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:         e.ID,
		Title:      e.Title,
		Category:   e.Category,
		Amount:     e.Amount,
		IncurredAt: e.IncurredAt,
		CreatedAt:  e.CreatedAt,
	}
}
