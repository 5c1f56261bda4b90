package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blushmart/blushmart-backend/pkg/enums"
)

// Order is a single product purchase. The shipping address is copied from the
// address book at creation so later edits never rewrite order history.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	ProductID       uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	Quantity        int               `gorm:"column:quantity;not null"`
	UnitPrice       decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'CONFIRMED';index"`
	PaymentMode     enums.PaymentMode `gorm:"column:payment_mode;not null"`
	Color           *string           `gorm:"column:color"`
	Size            *string           `gorm:"column:size"`
	DeliveryAgentID *uuid.UUID        `gorm:"column:delivery_agent_id;type:uuid"`
	DeliveryAgent   *Employee         `gorm:"foreignKey:DeliveryAgentID"`
	Product         *Product          `gorm:"foreignKey:ProductID"`

	ShipName    string `gorm:"column:ship_name;not null"`
	ShipPhone   string `gorm:"column:ship_phone;not null"`
	ShipStreet  string `gorm:"column:ship_street;not null"`
	ShipCity    string `gorm:"column:ship_city;not null"`
	ShipState   string `gorm:"column:ship_state;not null"`
	ShipCountry string `gorm:"column:ship_country;not null"`
	ShipZipCode string `gorm:"column:ship_zip_code;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
