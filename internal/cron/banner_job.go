package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/blushmart/blushmart-backend/pkg/logger"
)

type expiredBannerRepo interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// BannerExpiryJobParams configure the expired-banner deactivation job.
type BannerExpiryJobParams struct {
	Logger     *logger.Logger
	Repository expiredBannerRepo
}

// NewBannerExpiryJob builds the job that switches off banners whose expiry
// has passed, so the storefront never renders a stale promotion.
func NewBannerExpiryJob(params BannerExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("banner repository required")
	}
	return &bannerExpiryJob{
		logg: params.Logger,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type bannerExpiryJob struct {
	logg *logger.Logger
	repo expiredBannerRepo
	now  func() time.Time
}

func (j *bannerExpiryJob) Name() string { return "banner-expiry" }

func (j *bannerExpiryJob) Run(ctx context.Context) error {
	deactivated, err := j.repo.DeactivateExpired(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("banner expiry: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "rows_deactivated", deactivated)
	j.logg.Info(logCtx, "banner expiry sweep complete")
	return nil
}
