package controllers

import (
	"net/http"

	"github.com/blushmart/blushmart-backend/api/responses"
	"github.com/blushmart/blushmart-backend/internal/summary"
	"github.com/blushmart/blushmart-backend/pkg/logger"
)

// AdminDashboard returns the back-office landing-page aggregates.
func AdminDashboard(svc summary.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		dashboard, err := svc.Dashboard(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
