package models

import (
	"time"

	"github.com/google/uuid"
)

// Banner is an admin-managed storefront banner.
type Banner struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string     `gorm:"column:title;not null"`
	Category  string     `gorm:"column:category;not null"`
	ImageURL  string     `gorm:"column:image_url;not null"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
