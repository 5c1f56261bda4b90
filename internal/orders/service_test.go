package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/internal/cart"
	"github.com/blushmart/blushmart-backend/internal/products"
	"github.com/blushmart/blushmart-backend/pkg/db/models"
	"github.com/blushmart/blushmart-backend/pkg/enums"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

type stubOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var rows []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			rows = append(rows, *order)
		}
	}
	return rows, int64(len(rows)), nil
}

func (s *stubOrderRepo) ListAdmin(ctx context.Context, filters AdminListFilters) ([]models.Order, int64, error) {
	var rows []models.Order
	for _, order := range s.orders {
		if filters.Status != "" && order.Status.String() != filters.Status {
			continue
		}
		rows = append(rows, *order)
	}
	return rows, int64(len(rows)), nil
}

func (s *stubOrderRepo) Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.OrderStatus); ok {
		order.Status = status
	}
	if agentID, ok := updates["delivery_agent_id"].(uuid.UUID); ok {
		order.DeliveryAgentID = &agentID
	}
	return nil
}

type stubCartRepo struct {
	lines   []models.CartItem
	cleared bool
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) FindItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) ListItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return s.lines, nil
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	return item, nil
}

func (s *stubCartRepo) AdjustQuantity(ctx context.Context, userID, productID uuid.UUID, delta int) (int, error) {
	return 0, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return nil
}

func (s *stubCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	s.lines = nil
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
	product, ok := s.products[productID]
	if !ok || product.Stock < quantity {
		return false, nil
	}
	product.Stock -= quantity
	return true, nil
}

func (s *stubCatalog) IncrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if product, ok := s.products[productID]; ok {
		product.Stock += quantity
	}
	return nil
}

type stubAddressRepo struct {
	address *models.Address
}

func (s *stubAddressRepo) FindOwned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if s.address == nil || s.address.ID != addressID || s.address.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.address, nil
}

type stubEmployeeRepo struct {
	employees map[uuid.UUID]*models.Employee
}

func (s *stubEmployeeRepo) FindByID(ctx context.Context, employeeID uuid.UUID) (*models.Employee, error) {
	employee, ok := s.employees[employeeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return employee, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type orderFixture struct {
	svc       Service
	orderRepo *stubOrderRepo
	cartRepo  *stubCartRepo
	catalog   *stubCatalog
	employees *stubEmployeeRepo
	userID    uuid.UUID
	addressID uuid.UUID
	product   *models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	userID := uuid.New()
	addressID := uuid.New()
	product := &models.Product{
		ID:       uuid.New(),
		Title:    "Rose Serum",
		Price:    decimal.NewFromInt(20),
		Stock:    10,
		IsActive: true,
	}

	fixture := &orderFixture{
		orderRepo: newStubOrderRepo(),
		cartRepo: &stubCartRepo{lines: []models.CartItem{
			{UserID: userID, ProductID: product.ID, Quantity: 2},
		}},
		catalog: &stubCatalog{products: map[uuid.UUID]*models.Product{product.ID: product}},
		employees: &stubEmployeeRepo{employees: map[uuid.UUID]*models.Employee{}},
		userID:    userID,
		addressID: addressID,
		product:   product,
	}

	svc, err := NewService(ServiceParams{
		OrderRepo:   fixture.orderRepo,
		CartRepo:    fixture.cartRepo,
		ProductRepo: fixture.catalog,
		AddressRepo: &stubAddressRepo{address: &models.Address{
			ID:      addressID,
			UserID:  userID,
			Name:    "Priya",
			Phone:   "+15550001111",
			Street:  "12 Rose Lane",
			City:    "Mumbai",
			State:   "MH",
			Country: "IN",
			ZipCode: "400001",
		}},
		EmployeeRepo: fixture.employees,
		Tx:           stubTx{},
	})
	require.NoError(t, err)
	fixture.svc = svc
	return fixture
}

func (f *orderFixture) addDeliveryAgent(t *testing.T, role enums.EmployeeRole, active bool) uuid.UUID {
	t.Helper()
	agent := &models.Employee{ID: uuid.New(), Name: "Dev", Phone: "+15550002222", Role: role, IsActive: active}
	f.employees.employees[agent.ID] = agent
	return agent.ID
}

func TestCheckoutCreatesOneOrderPerCartLine(t *testing.T) {
	f := newOrderFixture(t)
	second := &models.Product{ID: uuid.New(), Title: "Lip Tint", Price: decimal.NewFromInt(5), Stock: 3, IsActive: true}
	f.catalog.products[second.ID] = second
	f.cartRepo.lines = append(f.cartRepo.lines, models.CartItem{UserID: f.userID, ProductID: second.ID, Quantity: 1})

	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.True(t, f.cartRepo.cleared)
	assert.Equal(t, 8, f.product.Stock)
	assert.Equal(t, 2, second.Stock)
}

func TestCheckoutSnapshotsAddress(t *testing.T) {
	f := newOrderFixture(t)

	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Priya", orders[0].Shipping.Name)
	assert.Equal(t, "400001", orders[0].Shipping.ZipCode)
	assert.True(t, orders[0].TotalAmount.Equal(decimal.NewFromInt(40)))
}

func TestCheckoutFailsOnInsufficientStock(t *testing.T) {
	f := newOrderFixture(t)
	f.product.Stock = 1

	_, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.False(t, f.cartRepo.cleared)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	f := newOrderFixture(t)
	f.cartRepo.lines = nil

	_, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCheckoutRejectsUnknownPaymentMode(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "CRYPTO"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCancelRestoresStock(t *testing.T) {
	f := newOrderFixture(t)
	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)
	require.Equal(t, 8, f.product.Stock)

	cancelled, err := f.svc.Cancel(context.Background(), f.userID, orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, f.product.Stock)
}

func TestCancelIsIdempotentOnCancelledOrder(t *testing.T) {
	f := newOrderFixture(t)
	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), f.userID, orders[0].ID)
	require.NoError(t, err)
	stockAfterFirst := f.product.Stock

	again, err := f.svc.Cancel(context.Background(), f.userID, orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, again.Status)
	assert.Equal(t, stockAfterFirst, f.product.Stock)
}

func TestCancelDeliveredOrderIsRejected(t *testing.T) {
	f := newOrderFixture(t)
	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)
	f.orderRepo.orders[orders[0].ID].Status = enums.OrderStatusDelivered

	_, err = f.svc.Cancel(context.Background(), f.userID, orders[0].ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestCancelSomeoneElsesOrderLooksMissing(t *testing.T) {
	f := newOrderFixture(t)
	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), uuid.New(), orders[0].ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAdminUpdateStatusRequiresAgentForOutForDelivery(t *testing.T) {
	f := newOrderFixture(t)
	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)

	_, err = f.svc.AdminUpdateStatus(context.Background(), orders[0].ID, UpdateStatusInput{Status: "OUTOFDELIVERY"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAdminUpdateStatusRejectsNonDeliveryEmployee(t *testing.T) {
	f := newOrderFixture(t)
	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)
	agentID := f.addDeliveryAgent(t, enums.EmployeeRoleSales, true)

	_, err = f.svc.AdminUpdateStatus(context.Background(), orders[0].ID, UpdateStatusInput{Status: "OUTOFDELIVERY", DeliveryAgentID: &agentID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAdminUpdateStatusAssignsDeliveryAgent(t *testing.T) {
	f := newOrderFixture(t)
	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)
	agentID := f.addDeliveryAgent(t, enums.EmployeeRoleDelivery, true)

	updated, err := f.svc.AdminUpdateStatus(context.Background(), orders[0].ID, UpdateStatusInput{Status: "OUTOFDELIVERY", DeliveryAgentID: &agentID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusOutOfDelivery, updated.Status)
	require.NotNil(t, f.orderRepo.orders[orders[0].ID].DeliveryAgentID)
	assert.Equal(t, agentID, *f.orderRepo.orders[orders[0].ID].DeliveryAgentID)
}

func TestAdminUpdateStatusRejectsBackwardMove(t *testing.T) {
	f := newOrderFixture(t)
	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)
	f.orderRepo.orders[orders[0].ID].Status = enums.OrderStatusDispatch

	_, err = f.svc.AdminUpdateStatus(context.Background(), orders[0].ID, UpdateStatusInput{Status: "CONFIRMED"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestAdminUpdateStatusOnTerminalOrderIsRejected(t *testing.T) {
	f := newOrderFixture(t)
	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)
	f.orderRepo.orders[orders[0].ID].Status = enums.OrderStatusDelivered

	_, err = f.svc.AdminUpdateStatus(context.Background(), orders[0].ID, UpdateStatusInput{Status: "CANCELLED"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestAdminUpdateStatusSameStatusIsNoOp(t *testing.T) {
	f := newOrderFixture(t)
	orders, err := f.svc.Checkout(context.Background(), f.userID, CheckoutInput{AddressID: f.addressID, PaymentMode: "COD"})
	require.NoError(t, err)

	updated, err := f.svc.AdminUpdateStatus(context.Background(), orders[0].ID, UpdateStatusInput{Status: "CONFIRMED"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, updated.Status)
}
