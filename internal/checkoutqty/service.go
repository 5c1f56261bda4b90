package checkoutqty

import (
	"context"
	"strconv"
	"time"

	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
	"github.com/blushmart/blushmart-backend/pkg/logger"
)

// DefaultQuantity is what a shopper sees before ever touching the stepper.
const DefaultQuantity = 1

type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type keyer interface {
	CheckoutQtyKey(sessionID, productID string) string
}

// ServiceParams groups dependencies for the checkout quantity cache.
type ServiceParams struct {
	Store  store
	Keyer  keyer
	Logger *logger.Logger
	TTL    time.Duration
}

// Service remembers the quantity a shopper dialed in on a product page so the
// checkout screen opens with the same number. The cache is best-effort on both
// sides: a read that fails for any reason falls back to one unit, and a write
// that fails never surfaces to the caller.
type Service interface {
	Get(ctx context.Context, sessionID, productID string) int
	Set(ctx context.Context, sessionID, productID string, quantity int)
}

type service struct {
	store store
	keyer keyer
	logg  *logger.Logger
	ttl   time.Duration
}

// NewService builds the quantity cache service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if params.Keyer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "keyer is required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &service{
		store: params.Store,
		keyer: params.Keyer,
		logg:  params.Logger,
		ttl:   ttl,
	}, nil
}

// Get returns the cached quantity, or one unit when the entry is missing,
// expired, unreadable, or not a positive integer.
func (s *service) Get(ctx context.Context, sessionID, productID string) int {
	if sessionID == "" || productID == "" {
		return DefaultQuantity
	}

	raw, err := s.store.Get(ctx, s.keyer.CheckoutQtyKey(sessionID, productID))
	if err != nil {
		return DefaultQuantity
	}

	quantity, err := strconv.Atoi(raw)
	if err != nil || quantity < 1 {
		return DefaultQuantity
	}
	return quantity
}

// Set caches the chosen quantity. Non-positive values are clamped to one so a
// stale or hostile client can never park a zero in the cache. Write failures
// are logged and swallowed; losing the remembered quantity only costs the
// shopper a re-tap, never the request.
func (s *service) Set(ctx context.Context, sessionID, productID string, quantity int) {
	if sessionID == "" || productID == "" {
		return
	}
	if quantity < 1 {
		quantity = DefaultQuantity
	}

	key := s.keyer.CheckoutQtyKey(sessionID, productID)
	if err := s.store.Set(ctx, key, strconv.Itoa(quantity), s.ttl); err != nil && s.logg != nil {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"product_id": productID,
			"error":      err.Error(),
		})
		s.logg.Warn(warnCtx, "checkout quantity cache write failed")
	}
}
