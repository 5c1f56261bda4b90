package expenses

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

type stubExpenseRepo struct {
	expenses map[uuid.UUID]*models.Expense
}

func newStubExpenseRepo(rows ...models.Expense) *stubExpenseRepo {
	repo := &stubExpenseRepo{expenses: map[uuid.UUID]*models.Expense{}}
	for i := range rows {
		row := rows[i]
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		repo.expenses[row.ID] = &row
	}
	return repo
}

func (s *stubExpenseRepo) List(ctx context.Context) ([]models.Expense, error) {
	var rows []models.Expense
	for _, expense := range s.expenses {
		rows = append(rows, *expense)
	}
	return rows, nil
}

func (s *stubExpenseRepo) FindByID(ctx context.Context, expenseID uuid.UUID) (*models.Expense, error) {
	expense, ok := s.expenses[expenseID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return expense, nil
}

func (s *stubExpenseRepo) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	expense.ID = uuid.New()
	s.expenses[expense.ID] = expense
	return expense, nil
}

func (s *stubExpenseRepo) Update(ctx context.Context, expenseID uuid.UUID, updates map[string]any) error {
	expense, ok := s.expenses[expenseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if title, ok := updates["title"].(string); ok {
		expense.Title = title
	}
	if amount, ok := updates["amount"].(decimal.Decimal); ok {
		expense.Amount = amount
	}
	return nil
}

func (s *stubExpenseRepo) Delete(ctx context.Context, expenseID uuid.UUID) error {
	if _, ok := s.expenses[expenseID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.expenses, expenseID)
	return nil
}

func (s *stubExpenseRepo) TotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, expense := range s.expenses {
		if !expense.IncurredAt.Before(since) {
			total = total.Add(expense.Amount)
		}
	}
	return total, nil
}

func newExpenseService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{ExpenseRepo: repo})
	require.NoError(t, err)
	return svc
}

func TestExpenseListFiltersBySearch(t *testing.T) {
	repo := newStubExpenseRepo(
		models.Expense{Title: "Warehouse rent", Category: "rent", Amount: decimal.NewFromInt(5000), IncurredAt: time.Now()},
		models.Expense{Title: "Courier charges", Category: "logistics", Amount: decimal.NewFromInt(900), IncurredAt: time.Now()},
	)
	svc := newExpenseService(t, repo)

	items, err := svc.List(context.Background(), ListFilters{Search: "courier"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Courier charges", items[0].Title)
}

func TestExpenseListSearchMatchingNothingIsEmpty(t *testing.T) {
	repo := newStubExpenseRepo(
		models.Expense{Title: "Warehouse rent", Category: "rent", Amount: decimal.NewFromInt(5000), IncurredAt: time.Now()},
	)
	svc := newExpenseService(t, repo)

	items, err := svc.List(context.Background(), ListFilters{Search: "payroll"})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExpenseCreateRejectsNonPositiveAmount(t *testing.T) {
	svc := newExpenseService(t, newStubExpenseRepo())

	_, err := svc.Create(context.Background(), CreateExpenseInput{
		Title:      "Free lunch",
		Category:   "misc",
		Amount:     decimal.Zero,
		IncurredAt: time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestExpenseUpdateRejectsNegativeAmount(t *testing.T) {
	repo := newStubExpenseRepo(
		models.Expense{Title: "Warehouse rent", Category: "rent", Amount: decimal.NewFromInt(5000), IncurredAt: time.Now()},
	)
	svc := newExpenseService(t, repo)
	var expenseID uuid.UUID
	for id := range repo.expenses {
		expenseID = id
	}
	bad := decimal.NewFromInt(-10)

	_, err := svc.Update(context.Background(), expenseID, UpdateExpenseInput{Amount: &bad})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestExpenseDeleteUnknownIsNotFound(t *testing.T) {
	svc := newExpenseService(t, newStubExpenseRepo())

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
