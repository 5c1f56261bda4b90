package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/pagination"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func insertLike(t *testing.T, db *gorm.DB, userID uuid.UUID, createdAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	err := db.Exec(
		`INSERT INTO wishlist_items (id, user_id, product_id, created_at) VALUES (?, ?, ?, ?)`,
		id, userID, uuid.New(), createdAt,
	).Error
	require.NoError(t, err)
	return id
}

func TestAddItemTwiceKeepsOneRow(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	require.NoError(t, repo.AddItem(ctx, userID, productID))
	require.NoError(t, repo.AddItem(ctx, userID, productID))

	liked, err := repo.Exists(ctx, userID, productID)
	require.NoError(t, err)
	require.True(t, liked)

	var count int64
	require.NoError(t, db.Table("wishlist_items").
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestListItemsPagesNewestFirst(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)
	oldest := insertLike(t, db, userID, base.Add(-2*time.Minute))
	middle := insertLike(t, db, userID, base.Add(-time.Minute))
	newest := insertLike(t, db, userID, base)

	rows, err := repo.ListItems(ctx, userID, 2, nil)
	require.NoError(t, err)
	// One row past the page size so the caller can detect a next page.
	require.Len(t, rows, 3)
	require.Equal(t, newest, rows[0].ID)
	require.Equal(t, middle, rows[1].ID)

	cursor := &pagination.Cursor{CreatedAt: rows[1].CreatedAt, ID: rows[1].ID}
	tail, err := repo.ListItems(ctx, userID, 2, cursor)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	require.Equal(t, oldest, tail[0].ID)
}
