package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/api/responses"
	"github.com/maisonlumiere/boutique-backend/internal/users"
	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
	"github.com/maisonlumiere/boutique-backend/pkg/logger"
)

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AccountProfile returns the signed-in user's profile.
func AccountProfile(repo userFinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user store unavailable"))
			return
		}

		userID := actorUserID(r)
		if userID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		user, err := repo.FindByID(r.Context(), *userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account unavailable"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account"))
			return
		}
		responses.WriteSuccess(w, users.FromModel(user))
	}
}
