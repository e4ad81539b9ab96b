package controllers

import (
	"net/http"

	"github.com/maisonlumiere/boutique-backend/api/responses"
	contentsvc "github.com/maisonlumiere/boutique-backend/internal/content"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
	"github.com/maisonlumiere/boutique-backend/pkg/logger"
)

// HomeModules returns the visible home page modules in display order,
// localized for the request.
func HomeModules(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}
		out, err := svc.ListHome(r.Context(), requestLocale(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
