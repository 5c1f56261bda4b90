package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. Spotlight products are store-pickup
// only and never enter a cart or checkout.
type Product struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title           string           `gorm:"column:title;not null;index"`
	Description     string           `gorm:"column:description;type:text;not null"`
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	OldPrice        *decimal.Decimal `gorm:"column:old_price;type:numeric(12,2)"`
	Images          pq.StringArray   `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Stock           int              `gorm:"column:stock;not null;default:0"`
	Category        string           `gorm:"column:category;not null;index"`
	InsideBox       pq.StringArray   `gorm:"column:inside_box;type:text[];not null;default:ARRAY[]::text[]"`
	Colors          pq.StringArray   `gorm:"column:colors;type:text[];not null;default:ARRAY[]::text[]"`
	Sizes           pq.StringArray   `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	DiscountPercent *int             `gorm:"column:discount_percent"`
	IsSpotlight     bool             `gorm:"column:is_spotlight;not null;default:false"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
