package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maisonlumiere/boutique-backend/api/responses"
	catalogsvc "github.com/maisonlumiere/boutique-backend/internal/catalog"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
	"github.com/maisonlumiere/boutique-backend/pkg/logger"
)

// CollectionsList returns the visible collections in display order.
func CollectionsList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		out, err := svc.ListCollections(r.Context(), requestLocale(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// CollectionGet returns one visible collection with its products.
func CollectionGet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		out, err := svc.GetCollection(r.Context(), requestLocale(r), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductGet returns one visible product with its variants.
func ProductGet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		out, err := svc.GetProduct(r.Context(), requestLocale(r), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// Search answers the storefront search box. A failing backend degrades to an
// empty result list so the page still renders.
func Search(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteSuccess(w, []struct{}{})
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		out, err := svc.Search(r.Context(), requestLocale(r), query)
		if err != nil {
			if logg != nil {
				logg.Warn(r.Context(), "search degraded to empty results")
			}
			responses.WriteSuccess(w, []struct{}{})
			return
		}
		responses.WriteSuccess(w, out)
	}
}
