package wishlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/blushmart/blushmart-backend/internal/products"
)

// ItemDTO wraps the product projection included in a wishlist row.
type ItemDTO struct {
	Product   products.ProductDTO `json:"product"`
	CreatedAt time.Time           `json:"created_at"`
}

// ListDTO is one wishlist page for a shopper. NextCursor is empty on the
// last page.
type ListDTO struct {
	Items      []ItemDTO `json:"items"`
	Total      int       `json:"total"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ToggleResultDTO reports the authoritative state after a like/unlike flip.
// Clients that flipped the heart optimistically reconcile against Liked.
type ToggleResultDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Liked     bool      `json:"liked"`
}
