package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/internal/products"
	"github.com/blushmart/blushmart-backend/pkg/db/models"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    Repository
	ProductRepo products.Repository
}

// Service exposes business rules for the shopping cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (CartDTO, error)
	AdjustQuantity(ctx context.Context, userID, productID uuid.UUID, delta int) (int, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	cartRepo    Repository
	productRepo products.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
	}, nil
}

// Get returns the full cart with line totals and subtotal.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.cartRepo.ListItems(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}

	items := make([]ItemDTO, 0, len(rows))
	subtotal := decimal.Zero
	for _, row := range rows {
		dto := itemToDTO(row)
		subtotal = subtotal.Add(dto.LineTotal)
		items = append(items, dto)
	}
	return CartDTO{Items: items, Subtotal: subtotal, Count: len(items)}, nil
}

// AddItem puts a product in the cart. Re-adding an existing line bumps its
// quantity instead of creating a duplicate row.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.IsSpotlight {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "spotlight products are store pickup only")
	}
	if !product.IsActive {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product is unavailable")
	}
	if product.Stock < quantity {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "not enough stock")
	}

	existing, err := s.cartRepo.FindItem(ctx, userID, input.ProductID)
	switch {
	case err == nil && existing != nil:
		if _, err := s.cartRepo.AdjustQuantity(ctx, userID, input.ProductID, quantity); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			UserID:    userID,
			ProductID: input.ProductID,
			Quantity:  quantity,
			Color:     input.Color,
			Size:      input.Size,
		}
		if _, err := s.cartRepo.CreateItem(ctx, item); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
		}
	default:
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart line")
	}

	return s.Get(ctx, userID)
}

// AdjustQuantity nudges a line by delta and returns the resulting quantity.
// The floor is one unit; removal is an explicit separate operation.
func (s *service) AdjustQuantity(ctx context.Context, userID, productID uuid.UUID, delta int) (int, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if delta == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}

	quantity, err := s.cartRepo.AdjustQuantity(ctx, userID, productID, delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart line not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust quantity")
	}
	return quantity, nil
}

// RemoveItem deletes a line regardless of its quantity.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return nil
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
