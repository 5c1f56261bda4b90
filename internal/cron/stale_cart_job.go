package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/blushmart/blushmart-backend/pkg/logger"
)

const defaultStaleCartAfter = 30 * 24 * time.Hour

type staleCartRepo interface {
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// StaleCartJobParams configure the stale-cart cleanup job.
type StaleCartJobParams struct {
	Logger     *logger.Logger
	Repository staleCartRepo
	StaleAfter time.Duration
}

// NewStaleCartJob builds the job that drops cart lines untouched for longer
// than the configured window.
func NewStaleCartJob(params StaleCartJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	staleAfter := params.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleCartAfter
	}
	return &staleCartJob{
		logg:       params.Logger,
		repo:       params.Repository,
		staleAfter: staleAfter,
		now:        time.Now,
	}, nil
}

type staleCartJob struct {
	logg       *logger.Logger
	repo       staleCartRepo
	staleAfter time.Duration
	now        func() time.Time
}

func (j *staleCartJob) Name() string { return "stale-cart-cleanup" }

func (j *staleCartJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.staleAfter)
	deleted, err := j.repo.DeleteStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("stale cart cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "stale cart cleanup complete")
	return nil
}
