package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/internal/cart"
	"github.com/blushmart/blushmart-backend/internal/products"
	"github.com/blushmart/blushmart-backend/pkg/db/models"
	"github.com/blushmart/blushmart-backend/pkg/enums"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
	"github.com/blushmart/blushmart-backend/pkg/logger"
	"github.com/blushmart/blushmart-backend/pkg/pagination"
	"github.com/blushmart/blushmart-backend/pkg/types"
)

// statusRank orders the delivery lifecycle so updates can only move forward.
var statusRank = map[enums.OrderStatus]int{
	enums.OrderStatusConfirmed:     1,
	enums.OrderStatusDispatch:      2,
	enums.OrderStatusOutOfDelivery: 3,
	enums.OrderStatusDelivered:     4,
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	OrderRepo    Repository
	CartRepo     cart.Repository
	ProductRepo  products.Repository
	AddressRepo  AddressReader
	EmployeeRepo EmployeeReader
	Tx           TxRunner
	Logger       *logger.Logger
}

// Service exposes checkout and order lifecycle operations.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) ([]OrderDTO, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) (OrderListDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (OrderDTO, error)
	AdminList(ctx context.Context, filters AdminListFilters) (OrderListDTO, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (OrderDTO, error)
}

type service struct {
	orderRepo    Repository
	cartRepo     cart.Repository
	productRepo  products.Repository
	addressRepo  AddressReader
	employeeRepo EmployeeReader
	tx           TxRunner
	logg         *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.AddressRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address repo is required")
	}
	if params.EmployeeRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{
		orderRepo:    params.OrderRepo,
		cartRepo:     params.CartRepo,
		productRepo:  params.ProductRepo,
		addressRepo:  params.AddressRepo,
		employeeRepo: params.EmployeeRepo,
		tx:           params.Tx,
		logg:         params.Logger,
	}, nil
}

// Checkout converts every cart line into its own order, freezing the shipping
// address and unit price into each row, and empties the cart on success. The
// whole conversion is one transaction so a stock shortfall on any line aborts
// the entire checkout.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) ([]OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.AddressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	paymentMode, err := enums.ParsePaymentMode(input.PaymentMode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment mode")
	}

	address, err := s.addressRepo.FindOwned(ctx, userID, input.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}

	lines, err := s.cartRepo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var created []models.Order
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		for _, line := range lines {
			product, err := productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				return fmt.Errorf("load product %s: %w", line.ProductID, err)
			}
			if product.IsSpotlight || !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "product "+product.Title+" is unavailable")
			}

			ok, err := productRepo.DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock for %s: %w", product.ID, err)
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, "not enough stock for "+product.Title)
			}

			order := &models.Order{
				UserID:      userID,
				ProductID:   product.ID,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
				TotalAmount: product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
				Status:      enums.OrderStatusConfirmed,
				PaymentMode: paymentMode,
				Color:       line.Color,
				Size:        line.Size,
				ShipName:    address.Name,
				ShipPhone:   address.Phone,
				ShipStreet:  address.Street,
				ShipCity:    address.City,
				ShipState:   address.State,
				ShipCountry: address.Country,
				ShipZipCode: address.ZipCode,
			}
			saved, err := orderRepo.Create(ctx, order)
			if err != nil {
				return fmt.Errorf("create order: %w", err)
			}
			created = append(created, *saved)
		}

		if err := cartRepo.Clear(ctx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "checkout")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"user_id":     userID.String(),
			"order_count": len(created),
		})
		s.logg.Info(logCtx, "checkout.complete")
	}

	dtos := make([]OrderDTO, 0, len(created))
	for _, order := range created {
		dtos = append(dtos, toDTO(order))
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	return toDTO(*order), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, page, limit int) (OrderListDTO, error) {
	if userID == uuid.Nil {
		return OrderListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, total, err := s.orderRepo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return OrderListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return buildList(rows, total, page, limit), nil
}

// Cancel marks an order cancelled and returns its stock. Cancelling an
// already-cancelled order succeeds without touching anything; a delivered
// order can no longer be cancelled.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.findOwned(ctx, userID, orderID)
	if err != nil {
		return OrderDTO{}, err
	}

	if order.Status == enums.OrderStatusCancelled {
		return toDTO(*order), nil
	}
	if order.Status.IsTerminal() {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "delivered orders cannot be cancelled")
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Update(ctx, order.ID, map[string]any{"status": enums.OrderStatusCancelled}); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if err := s.productRepo.WithTx(tx).IncrementStock(ctx, order.ProductID, order.Quantity); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "cancel order")
	}

	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, order.ID.String())
		logCtx = s.logg.WithProductID(logCtx, order.ProductID.String())
		s.logg.Info(logCtx, "order.cancelled")
	}

	order.Status = enums.OrderStatusCancelled
	return toDTO(*order), nil
}

func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	return toDTO(*order), nil
}

func (s *service) AdminList(ctx context.Context, filters AdminListFilters) (OrderListDTO, error) {
	if filters.Status != "" {
		if _, err := enums.ParseOrderStatus(filters.Status); err != nil {
			return OrderListDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
	}
	rows, total, err := s.orderRepo.ListAdmin(ctx, filters)
	if err != nil {
		return OrderListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return buildList(rows, total, filters.Page, filters.Limit), nil
}

// AdminUpdateStatus advances an order along its lifecycle. Status can only
// move forward; OUTOFDELIVERY additionally requires an active delivery
// employee, whose assignment is recorded on the order.
func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (OrderDTO, error) {
	target, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}

	order, err := s.find(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}

	if order.Status == target {
		return toDTO(*order), nil
	}
	if order.Status.IsTerminal() {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already in a terminal state").
			WithDetails(map[string]any{"status": order.Status.String()})
	}

	updates := map[string]any{"status": target}

	switch target {
	case enums.OrderStatusCancelled:
		// Allowed from any non-terminal state; stock is restored below.
	case enums.OrderStatusOutOfDelivery:
		agent, err := s.resolveDeliveryAgent(ctx, input.DeliveryAgentID)
		if err != nil {
			return OrderDTO{}, err
		}
		updates["delivery_agent_id"] = agent.ID
	default:
		if statusRank[target] < statusRank[order.Status] {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "order status cannot move backwards").
				WithDetails(map[string]any{"from": order.Status.String(), "to": target.String()})
		}
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Update(ctx, order.ID, updates); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if target == enums.OrderStatusCancelled {
			if err := s.productRepo.WithTx(tx).IncrementStock(ctx, order.ProductID, order.Quantity); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "update order status")
	}

	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, order.ID.String())
		logCtx = s.logg.WithField(logCtx, "status", target.String())
		s.logg.Info(logCtx, "order.status_updated")
	}

	updated, err := s.find(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	return toDTO(*updated), nil
}

func (s *service) resolveDeliveryAgent(ctx context.Context, agentID *uuid.UUID) (*models.Employee, error) {
	if agentID == nil || *agentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery agent is required for out-for-delivery")
	}
	agent, err := s.employeeRepo.FindByID(ctx, *agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "delivery agent not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery agent")
	}
	if agent.Role != enums.EmployeeRoleDelivery {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee is not a delivery agent")
	}
	if !agent.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery agent is inactive")
	}
	return agent, nil
}

func (s *service) findOwned(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		// Respond as missing rather than leaking another shopper's order.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) find(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func buildList(rows []models.Order, total int64, page, limit int) OrderListDTO {
	items := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	normalizedLimit := pagination.NormalizeLimit(limit)
	return OrderListDTO{
		Items: items,
		PageMeta: types.PageMeta{
			Page:       pagination.NormalizePage(page),
			Limit:      normalizedLimit,
			Total:      total,
			TotalPages: pagination.TotalPages(total, normalizedLimit),
		},
	}
}
