package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/blushmart/blushmart-backend/pkg/enums"
)

// User represents the canonical shopper identity. Accounts are created on
// first successful OTP verification, so PasswordHash may be empty until the
// user sets one.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Phone        string         `gorm:"column:phone;not null;uniqueIndex"`
	Email        *string        `gorm:"column:email;uniqueIndex"`
	Name         *string        `gorm:"column:name"`
	PasswordHash *string        `gorm:"column:password_hash"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
