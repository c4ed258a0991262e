package controllers

import (
	"net/http"

	"github.com/adrianvasquez/fundhub-backend/api/middleware"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/google/uuid"
)

// authedUserID pulls the authenticated user id seeded by the auth middleware.
func authedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
