package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blushmart/blushmart-backend/api/middleware"
	"github.com/blushmart/blushmart-backend/api/responses"
	"github.com/blushmart/blushmart-backend/api/validators"
	"github.com/blushmart/blushmart-backend/internal/checkoutqty"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
	"github.com/blushmart/blushmart-backend/pkg/logger"
)

type setQuantityPayload struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=999"`
}

// CheckoutQuantityGet returns the remembered checkout quantity for a product,
// falling back to one when nothing usable is cached.
func CheckoutQuantityGet(svc checkoutqty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		quantity := svc.Get(ctx, sessionID, productID.String())
		responses.WriteSuccess(w, map[string]int{"quantity": quantity})
	}
}

// CheckoutQuantitySet remembers the shopper's chosen quantity for a product.
// The write is best-effort; a cache failure never fails the request.
func CheckoutQuantitySet(svc checkoutqty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setQuantityPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		svc.Set(ctx, sessionID, productID.String(), payload.Quantity)
		responses.WriteSuccess(w, map[string]int{"quantity": payload.Quantity})
	}
}
