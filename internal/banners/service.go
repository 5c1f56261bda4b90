package banners

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

// BannerDTO is the banner projection returned to the storefront and admin.
type BannerDTO struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	ImageURL  string     `json:"image_url"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateBannerInput is the admin payload for a new banner.
type CreateBannerInput struct {
	Title     string     `json:"title" validate:"required,max=200"`
	Category  string     `json:"category" validate:"required,max=100"`
	ImageURL  string     `json:"image_url" validate:"required,url,max=500"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// UpdateBannerInput carries partial banner edits; nil fields are untouched.
type UpdateBannerInput struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Category  *string    `json:"category,omitempty" validate:"omitempty,max=100"`
	ImageURL  *string    `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
	IsActive  *bool      `json:"is_active,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ListFilters narrow the banner list. The collection is small, so filtering
// happens in the service after a whole-table fetch.
type ListFilters struct {
	Search     string
	Category   string
	ActiveOnly bool
}

// ServiceParams groups dependencies for the banner service.
type ServiceParams struct {
	BannerRepo Repository
}

// Service manages storefront banners.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]BannerDTO, error)
	Get(ctx context.Context, bannerID uuid.UUID) (BannerDTO, error)
	Create(ctx context.Context, input CreateBannerInput) (BannerDTO, error)
	Update(ctx context.Context, bannerID uuid.UUID, input UpdateBannerInput) (BannerDTO, error)
	Delete(ctx context.Context, bannerID uuid.UUID) error
}

type service struct {
	bannerRepo Repository
}

// NewService builds a banner service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.BannerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner repo is required")
	}
	return &service{bannerRepo: params.BannerRepo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]BannerDTO, error) {
	rows, err := s.bannerRepo.List(ctx, filters.ActiveOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}

	search := strings.ToLower(strings.TrimSpace(filters.Search))
	category := strings.ToLower(strings.TrimSpace(filters.Category))

	items := make([]BannerDTO, 0, len(rows))
	for _, row := range rows {
		if category != "" && strings.ToLower(row.Category) != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(row.Title), search) &&
			!strings.Contains(strings.ToLower(row.Category), search) {
			continue
		}
		items = append(items, toDTO(row))
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, bannerID uuid.UUID) (BannerDTO, error) {
	banner, err := s.find(ctx, bannerID)
	if err != nil {
		return BannerDTO{}, err
	}
	return toDTO(*banner), nil
}

func (s *service) Create(ctx context.Context, input CreateBannerInput) (BannerDTO, error) {
	if input.ExpiresAt != nil && input.ExpiresAt.Before(time.Now()) {
		return BannerDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "expiry must be in the future")
	}
	banner := &models.Banner{
		Title:     strings.TrimSpace(input.Title),
		Category:  strings.TrimSpace(input.Category),
		ImageURL:  strings.TrimSpace(input.ImageURL),
		IsActive:  true,
		ExpiresAt: input.ExpiresAt,
	}
	created, err := s.bannerRepo.Create(ctx, banner)
	if err != nil {
		return BannerDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create banner")
	}
	return toDTO(*created), nil
}

func (s *service) Update(ctx context.Context, bannerID uuid.UUID, input UpdateBannerInput) (BannerDTO, error) {
	if bannerID == uuid.Nil {
		return BannerDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "banner id is required")
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*input.ImageURL)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.ExpiresAt != nil {
		updates["expires_at"] = *input.ExpiresAt
	}
	if len(updates) == 0 {
		return s.Get(ctx, bannerID)
	}

	if err := s.bannerRepo.Update(ctx, bannerID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BannerDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "banner not found")
		}
		return BannerDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update banner")
	}
	return s.Get(ctx, bannerID)
}

func (s *service) Delete(ctx context.Context, bannerID uuid.UUID) error {
	if bannerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "banner id is required")
	}
	if err := s.bannerRepo.Delete(ctx, bannerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "banner not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete banner")
	}
	return nil
}

func (s *service) find(ctx context.Context, bannerID uuid.UUID) (*models.Banner, error) {
	if bannerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner id is required")
	}
	banner, err := s.bannerRepo.FindByID(ctx, bannerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "banner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load banner")
	}
	return banner, nil
}

func toDTO(b models.Banner) BannerDTO {
	return BannerDTO{
		ID:        b.ID,
		Title:     b.Title,
		Category:  b.Category,
		ImageURL:  b.ImageURL,
		IsActive:  b.IsActive,
		ExpiresAt: b.ExpiresAt,
		CreatedAt: b.CreatedAt,
	}
}
