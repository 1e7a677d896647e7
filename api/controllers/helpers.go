package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/davidmreyes/pricewatch-backend/api/middleware"
	"github.com/davidmreyes/pricewatch-backend/internal/stores"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
)

// requesterID pulls the authenticated user ID seeded by the auth middleware.
func requesterID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// requesterActor builds the store-facing actor from the request context.
func requesterActor(r *http.Request) (stores.Actor, error) {
	id, err := requesterID(r)
	if err != nil {
		return stores.Actor{}, err
	}
	role := enums.UserRole(middleware.RoleFromContext(r.Context()))
	if !role.IsValid() {
		role = enums.UserRoleUser
	}
	return stores.Actor{UserID: id, Role: role}, nil
}
