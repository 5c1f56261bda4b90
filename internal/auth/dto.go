package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	"github.com/blushmart/blushmart-backend/pkg/enums"
)

// SendOTPInput requests a one-time code for a phone number.
type SendOTPInput struct {
	Phone string `json:"phone" validate:"required,e164"`
}

// SendOTPResult acknowledges a code dispatch. DevCode is populated only in
// dev environments with echo enabled; it is never logged.
type SendOTPResult struct {
	Phone     string `json:"phone"`
	ExpiresIn int    `json:"expires_in_seconds"`
	DevCode   string `json:"dev_code,omitempty"`
}

// VerifyOTPInput exchanges a one-time code for a token pair.
type VerifyOTPInput struct {
	Phone string `json:"phone" validate:"required,e164"`
	Code  string `json:"code" validate:"required,min=4,max=10"`
}

// RefreshInput rotates a refresh token. The access token may be expired; its
// signature still identifies the session.
type RefreshInput struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdatePasswordInput sets or replaces the account password.
type UpdatePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// UserDTO is the identity projection embedded in token responses.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Phone       string         `json:"phone"`
	Name        *string        `json:"name,omitempty"`
	Email       *string        `json:"email,omitempty"`
	Role        enums.UserRole `json:"role"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TokenPairDTO carries a freshly minted access/refresh pair.
type TokenPairDTO struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    int     `json:"expires_in_seconds"`
	User         UserDTO `json:"user"`
}

func userToDTO(u models.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Phone:       u.Phone,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
