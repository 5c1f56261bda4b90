package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blushmart/blushmart-backend/internal/products"
	"github.com/blushmart/blushmart-backend/pkg/db/models"
)

// ItemDTO is one cart line with its catalog projection and line total.
type ItemDTO struct {
	ID        uuid.UUID            `json:"id"`
	ProductID uuid.UUID            `json:"product_id"`
	Quantity  int                  `json:"quantity"`
	Color     *string              `json:"color,omitempty"`
	Size      *string              `json:"size,omitempty"`
	LineTotal decimal.Decimal      `json:"line_total"`
	Product   *products.ProductDTO `json:"product,omitempty"`
}

// CartDTO is the whole-cart view returned to the storefront.
type CartDTO struct {
	Items    []ItemDTO       `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Count    int             `json:"count"`
}

// AddItemInput adds one product line to the shopper's cart.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0"`
	Color     *string   `json:"color,omitempty" validate:"omitempty,max=50"`
	Size      *string   `json:"size,omitempty" validate:"omitempty,max=50"`
}

// AdjustQuantityInput nudges a line's quantity by a signed delta.
type AdjustQuantityInput struct {
	Delta int `json:"delta" validate:"required"`
}

func itemToDTO(item models.CartItem) ItemDTO {
	dto := ItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Color:     item.Color,
		Size:      item.Size,
	}
	if item.Product != nil {
		product := products.ToDTO(*item.Product)
		dto.Product = &product
		dto.LineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return dto
}
