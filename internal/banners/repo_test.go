package banners

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/db/models"
)

func setupBannerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	banners := `
CREATE TABLE IF NOT EXISTS banners (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  category TEXT NOT NULL,
  image_url TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  expires_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(banners).Error)
	return db
}

func insertBanner(t *testing.T, db *gorm.DB, active bool, expiresAt *time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()
	err := db.Exec(
		`INSERT INTO banners (id, title, category, image_url, is_active, expires_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, "Monsoon Sale", "skincare", "https://cdn.blushmart.in/banners/"+id.String()+".jpg", active, expiresAt, now, now,
	).Error
	require.NoError(t, err)
	return id
}

func TestDeactivateExpiredSweepsOnlyExpiredActive(t *testing.T) {
	db := setupBannerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	expiredID := insertBanner(t, db, true, &past)
	liveID := insertBanner(t, db, true, &future)
	evergreenID := insertBanner(t, db, true, nil)
	alreadyOffID := insertBanner(t, db, false, &past)

	swept, err := repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	require.GreaterOrEqual(t, swept, int64(1))

	assertActive := func(id uuid.UUID, want bool) {
		t.Helper()
		var banner models.Banner
		require.NoError(t, db.Where("id = ?", id).First(&banner).Error)
		require.Equal(t, want, banner.IsActive)
	}

	assertActive(expiredID, false)
	assertActive(liveID, true)
	assertActive(evergreenID, true)
	assertActive(alreadyOffID, false)
}

func TestBannerListActiveOnlyFiltersInactive(t *testing.T) {
	db := setupBannerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	activeID := insertBanner(t, db, true, nil)
	insertBanner(t, db, false, nil)

	rows, err := repo.List(ctx, true)
	require.NoError(t, err)

	found := false
	for _, row := range rows {
		require.True(t, row.IsActive)
		if row.ID == activeID {
			found = true
		}
	}
	require.True(t, found)
}
