package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/blushmart/blushmart-backend/api/middleware"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxSearchLen     = 120
)

// requireUserID pulls the authenticated shopper out of the request context.
func requireUserID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	return userID, nil
}
