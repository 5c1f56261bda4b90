package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blushmart/blushmart-backend/pkg/logger"
)

type fakeExpiredBannerRepo struct {
	deactivated int64
	err         error
	called      int
}

func (f *fakeExpiredBannerRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	f.called++
	if f.err != nil {
		return 0, f.err
	}
	return f.deactivated, nil
}

func TestBannerExpiryJobRunsSweep(t *testing.T) {
	repo := &fakeExpiredBannerRepo{deactivated: 2}
	jobIface, err := NewBannerExpiryJob(BannerExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewBannerExpiryJob: %v", err)
	}

	if err := jobIface.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestBannerExpiryJobPropagatesErrors(t *testing.T) {
	repo := &fakeExpiredBannerRepo{err: errors.New("boom")}
	jobIface, err := NewBannerExpiryJob(BannerExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewBannerExpiryJob: %v", err)
	}

	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
