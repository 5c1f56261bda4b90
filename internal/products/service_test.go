package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
	updates  map[string]any
	listErr  error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) Update(ctx context.Context, productID uuid.UUID, updates map[string]any) error {
	if _, ok := s.products[productID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.updates = updates
	if title, ok := updates["title"].(string); ok {
		s.products[productID].Title = title
	}
	return nil
}

func (s *stubProductRepo) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, ok := s.products[productID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.products, productID)
	return nil
}

func (s *stubProductRepo) FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubProductRepo) FindByIDs(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error) {
	rows := make([]models.Product, 0, len(productIDs))
	for _, id := range productIDs {
		if product, ok := s.products[id]; ok {
			rows = append(rows, *product)
		}
	}
	return rows, nil
}

func (s *stubProductRepo) List(ctx context.Context, filters ListFilters) ([]models.Product, int64, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	rows := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		rows = append(rows, *product)
	}
	return rows, int64(len(rows)), nil
}

func (s *stubProductRepo) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	product, ok := s.products[productID]
	if !ok || product.Stock < quantity {
		return false, nil
	}
	product.Stock -= quantity
	return true, nil
}

func (s *stubProductRepo) IncrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if product, ok := s.products[productID]; ok {
		product.Stock += quantity
	}
	return nil
}

func newProductService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{ProductRepo: repo})
	require.NoError(t, err)
	return svc
}

func TestCreateRejectsNonPositivePrice(t *testing.T) {
	svc := newProductService(t, newStubProductRepo())

	_, err := svc.Create(context.Background(), CreateProductInput{
		Title:       "Velvet Lipstick",
		Description: "matte finish",
		Price:       decimal.Zero,
		Images:      []string{"https://cdn.example/l.jpg"},
		Category:    "lips",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateRejectsOldPriceBelowPrice(t *testing.T) {
	svc := newProductService(t, newStubProductRepo())

	old := decimal.NewFromInt(5)
	_, err := svc.Create(context.Background(), CreateProductInput{
		Title:       "Velvet Lipstick",
		Description: "matte finish",
		Price:       decimal.NewFromInt(10),
		OldPrice:    &old,
		Images:      []string{"https://cdn.example/l.jpg"},
		Category:    "lips",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateDefaultsToActive(t *testing.T) {
	repo := newStubProductRepo()
	svc := newProductService(t, repo)

	dto, err := svc.Create(context.Background(), CreateProductInput{
		Title:       "Rose Serum",
		Description: "hydrating",
		Price:       decimal.NewFromInt(20),
		Images:      []string{"https://cdn.example/s.jpg"},
		Category:    "skincare",
	})
	require.NoError(t, err)
	assert.True(t, dto.IsActive)
	assert.NotEqual(t, uuid.Nil, dto.ID)
}

func TestUpdateUnknownProductReturnsNotFound(t *testing.T) {
	svc := newProductService(t, newStubProductRepo())

	title := "renamed"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductInput{Title: &title})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateWithNoFieldsReturnsCurrentRow(t *testing.T) {
	repo := newStubProductRepo()
	svc := newProductService(t, repo)

	created, err := svc.Create(context.Background(), CreateProductInput{
		Title:       "Rose Serum",
		Description: "hydrating",
		Price:       decimal.NewFromInt(20),
		Images:      []string{"https://cdn.example/s.jpg"},
		Category:    "skincare",
	})
	require.NoError(t, err)

	dto, err := svc.Update(context.Background(), created.ID, UpdateProductInput{})
	require.NoError(t, err)
	assert.Equal(t, created.ID, dto.ID)
	assert.Nil(t, repo.updates)
}

func TestDeleteUnknownProductReturnsNotFound(t *testing.T) {
	svc := newProductService(t, newStubProductRepo())

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
