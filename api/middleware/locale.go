package middleware

import (
	"net/http"

	"github.com/maisonlumiere/boutique-backend/api/responses"
	"github.com/maisonlumiere/boutique-backend/internal/locale"
	"github.com/maisonlumiere/boutique-backend/pkg/logger"
)

// LocaleRedirect normalizes page URLs to their locale-prefixed form and seeds
// the resolved locale into the request context. API, asset and webhook paths
// pass through untouched.
func LocaleRedirect(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolution := locale.Resolve(r.URL.Path)
			if resolution.RedirectTo != "" {
				target := resolution.RedirectTo
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				responses.Redirect(w, r, target, http.StatusFound)
				return
			}

			ctx := WithLocale(r.Context(), resolution.Locale)
			if logg != nil {
				ctx = logg.WithLocale(ctx, resolution.Locale)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
