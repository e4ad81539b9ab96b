package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maisonlumiere/boutique-backend/api/responses"
	assetsvc "github.com/maisonlumiere/boutique-backend/internal/assets"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
	"github.com/maisonlumiere/boutique-backend/pkg/logger"
)

// AssetServe resolves and serves a static file with long-lived cache
// headers. Paths that escape the asset root come back as 404.
func AssetServe(svc assetsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}

		asset, err := svc.Resolve(r.Context(), chi.URLParam(r, "*"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", asset.ContentType)
		w.Header().Set("Cache-Control", asset.CacheControl)
		http.ServeFile(w, r, asset.Path)
	}
}
