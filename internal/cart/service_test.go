package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/internal/products"
	"github.com/blushmart/blushmart-backend/pkg/db/models"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

type lineKey struct {
	userID    uuid.UUID
	productID uuid.UUID
}

type stubCartRepo struct {
	lines map[lineKey]*models.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{lines: map[lineKey]*models.CartItem{}}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) FindItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	item, ok := s.lines[lineKey{userID: userID, productID: productID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubCartRepo) ListItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	for key, item := range s.lines {
		if key.userID == userID {
			rows = append(rows, *item)
		}
	}
	return rows, nil
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.lines[lineKey{userID: item.UserID, productID: item.ProductID}] = item
	return item, nil
}

func (s *stubCartRepo) AdjustQuantity(ctx context.Context, userID, productID uuid.UUID, delta int) (int, error) {
	item, ok := s.lines[lineKey{userID: userID, productID: productID}]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	item.Quantity += delta
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return item.Quantity, nil
}

func (s *stubCartRepo) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	delete(s.lines, lineKey{userID: userID, productID: productID})
	return nil
}

func (s *stubCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	for key := range s.lines {
		if key.userID == userID {
			delete(s.lines, key)
		}
	}
	return nil
}

func (s *stubCartRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubCatalog) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubCatalog) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	return product, nil
}

func (s *stubCatalog) Update(ctx context.Context, productID uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubCatalog) Delete(ctx context.Context, productID uuid.UUID) error { return nil }

func (s *stubCatalog) FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubCatalog) FindByIDs(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (s *stubCatalog) List(ctx context.Context, filters products.ListFilters) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (s *stubCatalog) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	return true, nil
}

func (s *stubCatalog) IncrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	return nil
}

func catalogWith(product *models.Product) *stubCatalog {
	return &stubCatalog{products: map[uuid.UUID]*models.Product{product.ID: product}}
}

func regularProduct() *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Title:    "Rose Serum",
		Price:    decimal.NewFromInt(20),
		Stock:    10,
		IsActive: true,
	}
}

func newCartService(t *testing.T, repo Repository, catalog products.Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{CartRepo: repo, ProductRepo: catalog})
	require.NoError(t, err)
	return svc
}

func TestAddItemRejectsSpotlightProduct(t *testing.T) {
	product := regularProduct()
	product.IsSpotlight = true
	svc := newCartService(t, newStubCartRepo(), catalogWith(product))

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: product.ID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	product := regularProduct()
	product.IsActive = false
	svc := newCartService(t, newStubCartRepo(), catalogWith(product))

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: product.ID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	product := regularProduct()
	product.Stock = 1
	svc := newCartService(t, newStubCartRepo(), catalogWith(product))

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: product.ID, Quantity: 3})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestAddItemBumpsExistingLine(t *testing.T) {
	product := regularProduct()
	repo := newStubCartRepo()
	svc := newCartService(t, repo, catalogWith(product))
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	item, err := repo.FindItem(context.Background(), userID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
}

func TestAdjustQuantityFloorsAtOne(t *testing.T) {
	product := regularProduct()
	repo := newStubCartRepo()
	svc := newCartService(t, repo, catalogWith(product))
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	quantity, err := svc.AdjustQuantity(context.Background(), userID, product.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, 1, quantity)
}

func TestAdjustQuantityUnknownLineReturnsNotFound(t *testing.T) {
	product := regularProduct()
	svc := newCartService(t, newStubCartRepo(), catalogWith(product))

	_, err := svc.AdjustQuantity(context.Background(), uuid.New(), product.ID, 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAdjustQuantityRejectsZeroDelta(t *testing.T) {
	product := regularProduct()
	svc := newCartService(t, newStubCartRepo(), catalogWith(product))

	_, err := svc.AdjustQuantity(context.Background(), uuid.New(), product.ID, 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestGetComputesSubtotal(t *testing.T) {
	product := regularProduct()
	repo := newStubCartRepo()
	svc := newCartService(t, repo, catalogWith(product))
	userID := uuid.New()

	_, err := repo.CreateItem(context.Background(), &models.CartItem{
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  3,
		Product:   product,
	})
	require.NoError(t, err)

	dto, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.True(t, dto.Subtotal.Equal(decimal.NewFromInt(60)))
}
