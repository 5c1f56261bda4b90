package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blushmart/blushmart-backend/api/responses"
	"github.com/blushmart/blushmart-backend/api/validators"
	"github.com/blushmart/blushmart-backend/internal/banners"
	"github.com/blushmart/blushmart-backend/pkg/logger"
)

// BannerList returns active storefront banners.
func BannerList(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filters := banners.ListFilters{
			Category:   validators.ParseQueryString(r, "category", maxSearchLen),
			ActiveOnly: true,
		}

		list, err := svc.List(ctx, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminBannerList returns every banner with search filtering.
func AdminBannerList(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filters := banners.ListFilters{
			Search:   validators.ParseQueryString(r, "search", maxSearchLen),
			Category: validators.ParseQueryString(r, "category", maxSearchLen),
		}

		list, err := svc.List(ctx, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminBannerCreate publishes a banner.
func AdminBannerCreate(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input banners.CreateBannerInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminBannerUpdate applies a partial banner edit.
func AdminBannerUpdate(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		bannerID, err := validators.ParsePathUUID(chi.URLParam(r, "bannerId"), "bannerId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input banners.UpdateBannerInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.Update(ctx, bannerID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminBannerDelete removes a banner.
func AdminBannerDelete(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		bannerID, err := validators.ParsePathUUID(chi.URLParam(r, "bannerId"), "bannerId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, bannerID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
