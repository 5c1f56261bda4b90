package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	"github.com/blushmart/blushmart-backend/pkg/types"
)

// ProductDTO is the public catalog projection of a product row.
type ProductDTO struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	OldPrice        *decimal.Decimal `json:"old_price,omitempty"`
	Images          []string         `json:"images"`
	Stock           int              `json:"stock"`
	Category        string           `json:"category"`
	InsideBox       []string         `json:"inside_box"`
	Colors          []string         `json:"colors"`
	Sizes           []string         `json:"sizes"`
	DiscountPercent *int             `json:"discount_percent,omitempty"`
	IsSpotlight     bool             `json:"is_spotlight"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ProductListDTO carries one catalog page plus paging metadata.
type ProductListDTO struct {
	Items []ProductDTO `json:"items"`
	types.PageMeta
}

// CreateProductInput is the admin payload for a new listing.
type CreateProductInput struct {
	Title           string           `json:"title" validate:"required,max=200"`
	Description     string           `json:"description" validate:"required"`
	Price           decimal.Decimal  `json:"price" validate:"required"`
	OldPrice        *decimal.Decimal `json:"old_price,omitempty"`
	Images          []string         `json:"images" validate:"required,min=1"`
	Stock           int              `json:"stock" validate:"min=0"`
	Category        string           `json:"category" validate:"required,max=100"`
	InsideBox       []string         `json:"inside_box,omitempty"`
	Colors          []string         `json:"colors,omitempty"`
	Sizes           []string         `json:"sizes,omitempty"`
	DiscountPercent *int             `json:"discount_percent,omitempty" validate:"omitempty,min=0,max=100"`
	IsSpotlight     bool             `json:"is_spotlight"`
}

// UpdateProductInput carries partial updates; nil fields are left untouched.
type UpdateProductInput struct {
	Title           *string          `json:"title,omitempty" validate:"omitempty,max=200"`
	Description     *string          `json:"description,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	OldPrice        *decimal.Decimal `json:"old_price,omitempty"`
	Images          []string         `json:"images,omitempty"`
	Stock           *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	Category        *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	InsideBox       []string         `json:"inside_box,omitempty"`
	Colors          []string         `json:"colors,omitempty"`
	Sizes           []string         `json:"sizes,omitempty"`
	DiscountPercent *int             `json:"discount_percent,omitempty" validate:"omitempty,min=0,max=100"`
	IsSpotlight     *bool            `json:"is_spotlight,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

// ListFilters narrow the catalog query.
type ListFilters struct {
	Search        string
	Category      string
	SpotlightOnly bool
	IncludeHidden bool
	Page          int
	Limit         int
}

// ToDTO maps a catalog row into its public projection.
func ToDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Price:           p.Price,
		OldPrice:        p.OldPrice,
		Images:          p.Images,
		Stock:           p.Stock,
		Category:        p.Category,
		InsideBox:       p.InsideBox,
		Colors:          p.Colors,
		Sizes:           p.Sizes,
		DiscountPercent: p.DiscountPercent,
		IsSpotlight:     p.IsSpotlight,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
