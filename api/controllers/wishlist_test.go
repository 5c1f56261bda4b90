package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/blushmart/blushmart-backend/api/middleware"
	"github.com/blushmart/blushmart-backend/internal/wishlist"
)

type countingWishlistService struct {
	calls int
}

func (c *countingWishlistService) List(ctx context.Context, userID uuid.UUID, limit int, cursor string) (wishlist.ListDTO, error) {
	c.calls++
	return wishlist.ListDTO{}, nil
}

func (c *countingWishlistService) Toggle(ctx context.Context, userID, productID uuid.UUID) (wishlist.ToggleResultDTO, error) {
	c.calls++
	return wishlist.ToggleResultDTO{ProductID: productID, Liked: true}, nil
}

func (c *countingWishlistService) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	c.calls++
	return nil
}

func (c *countingWishlistService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	c.calls++
	return nil
}

func newWishlistRouter(svc wishlist.Service) chi.Router {
	router := chi.NewRouter()
	router.Get("/wishlist", WishlistList(svc, nil))
	router.Post("/wishlist/{productId}/toggle", WishlistToggle(svc, nil))
	return router
}

func TestWishlistToggleUnauthenticatedNeverTouchesService(t *testing.T) {
	svc := &countingWishlistService{}
	router := newWishlistRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/wishlist/"+uuid.NewString()+"/toggle", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("expected zero service calls, got %d", svc.calls)
	}
}

func TestWishlistToggleAuthenticatedHitsService(t *testing.T) {
	svc := &countingWishlistService{}
	router := newWishlistRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/wishlist/"+uuid.NewString()+"/toggle", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.calls != 1 {
		t.Fatalf("expected one service call, got %d", svc.calls)
	}
}

func TestWishlistListUnauthenticatedIs401(t *testing.T) {
	svc := &countingWishlistService{}
	router := newWishlistRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("expected zero service calls, got %d", svc.calls)
	}
}
