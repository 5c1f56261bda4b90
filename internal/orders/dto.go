package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blushmart/blushmart-backend/internal/products"
	"github.com/blushmart/blushmart-backend/pkg/db/models"
	"github.com/blushmart/blushmart-backend/pkg/enums"
	"github.com/blushmart/blushmart-backend/pkg/types"
)

// ShippingDTO is the address snapshot frozen into the order at checkout.
type ShippingDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zip_code"`
}

// AgentDTO identifies the delivery employee assigned to an order.
type AgentDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

// OrderDTO is the order projection returned to shoppers and admins.
type OrderDTO struct {
	ID            uuid.UUID            `json:"id"`
	UserID        uuid.UUID            `json:"user_id"`
	ProductID     uuid.UUID            `json:"product_id"`
	Quantity      int                  `json:"quantity"`
	UnitPrice     decimal.Decimal      `json:"unit_price"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	Status        enums.OrderStatus    `json:"status"`
	PaymentMode   enums.PaymentMode    `json:"payment_mode"`
	Color         *string              `json:"color,omitempty"`
	Size          *string              `json:"size,omitempty"`
	Shipping      ShippingDTO          `json:"shipping"`
	DeliveryAgent *AgentDTO            `json:"delivery_agent,omitempty"`
	Product       *products.ProductDTO `json:"product,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// OrderListDTO carries one order page plus paging metadata.
type OrderListDTO struct {
	Items []OrderDTO `json:"items"`
	types.PageMeta
}

// CheckoutInput turns the cart into orders shipped to one saved address.
type CheckoutInput struct {
	AddressID   uuid.UUID `json:"address_id" validate:"required"`
	PaymentMode string    `json:"payment_mode" validate:"required"`
}

// UpdateStatusInput is the admin payload moving an order along its lifecycle.
type UpdateStatusInput struct {
	Status          string     `json:"status" validate:"required"`
	DeliveryAgentID *uuid.UUID `json:"delivery_agent_id,omitempty"`
}

// AdminListFilters narrow the back-office order query.
type AdminListFilters struct {
	Status string
	Search string
	Page   int
	Limit  int
}

func toDTO(o models.Order) OrderDTO {
	dto := OrderDTO{
		ID:          o.ID,
		UserID:      o.UserID,
		ProductID:   o.ProductID,
		Quantity:    o.Quantity,
		UnitPrice:   o.UnitPrice,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		PaymentMode: o.PaymentMode,
		Color:       o.Color,
		Size:        o.Size,
		Shipping: ShippingDTO{
			Name:    o.ShipName,
			Phone:   o.ShipPhone,
			Street:  o.ShipStreet,
			City:    o.ShipCity,
			State:   o.ShipState,
			Country: o.ShipCountry,
			ZipCode: o.ShipZipCode,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.Product != nil {
		product := products.ToDTO(*o.Product)
		dto.Product = &product
	}
	if o.DeliveryAgent != nil {
		dto.DeliveryAgent = &AgentDTO{
			ID:    o.DeliveryAgent.ID,
			Name:  o.DeliveryAgent.Name,
			Phone: o.DeliveryAgent.Phone,
		}
	}
	return dto
}
