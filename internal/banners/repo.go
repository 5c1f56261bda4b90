package banners

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
)

// Repository defines persistence operations for storefront banners.
type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	FindByID(ctx context.Context, bannerID uuid.UUID) (*models.Banner, error)
	Create(ctx context.Context, banner *models.Banner) (*models.Banner, error)
	Update(ctx context.Context, bannerID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, bannerID uuid.UUID) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a banner repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) List(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	query := r.db.WithContext(ctx).Model(&models.Banner{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.Banner
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository) FindByID(ctx context.Context, bannerID uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.WithContext(ctx).Where("id = ?", bannerID).First(&banner).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *gormRepository) Create(ctx context.Context, banner *models.Banner) (*models.Banner, error) {
	if err := r.db.WithContext(ctx).Create(banner).Error; err != nil {
		return nil, err
	}
	return banner, nil
}

func (r *gormRepository) Update(ctx context.Context, bannerID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Banner{}).
		Where("id = ?", bannerID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, bannerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", bannerID).
		Delete(&models.Banner{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeactivateExpired flips off banners whose expiry has passed. Used by the
// cron worker; returns the number of rows touched.
func (r *gormRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Banner{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
