package controllers

import (
	"net/http"

	"github.com/blushmart/blushmart-backend/api/responses"
	"github.com/blushmart/blushmart-backend/pkg/db"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
	"github.com/blushmart/blushmart-backend/pkg/logger"
	redisclient "github.com/blushmart/blushmart-backend/pkg/redis"
)

// Health reports liveness plus datastore reachability.
func Health(database db.Pinger, cache redisclient.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		status := map[string]string{
			"service": "ok",
			"db":      "ok",
			"redis":   "ok",
		}

		healthy := true
		if database == nil || database.Ping(ctx) != nil {
			status["db"] = "unreachable"
			healthy = false
		}
		if cache == nil || cache.Ping(ctx) != nil {
			status["redis"] = "unreachable"
			healthy = false
		}

		if !healthy {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency unreachable").WithDetails(status))
			return
		}
		responses.WriteSuccess(w, status)
	}
}
