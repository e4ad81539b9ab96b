package middleware

import (
	"net/http"

	"github.com/maisonlumiere/boutique-backend/api/responses"
	"github.com/maisonlumiere/boutique-backend/internal/locale"
)

// RequireAccountVisitor redirects anonymous visitors of account-only pages to
// the locale-prefixed login page. Run after OptionalAuth.
func RequireAccountVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) == "" {
			responses.Redirect(w, r, locale.PathFor(pageLocale(r), "/login"), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectAuthenticated sends already-signed-in visitors of the login and
// register pages to their account page. Run after OptionalAuth.
func RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) != "" {
			responses.Redirect(w, r, locale.PathFor(pageLocale(r), "/account"), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func pageLocale(r *http.Request) string {
	if loc := LocaleFromContext(r.Context()); locale.IsSupported(loc) {
		return loc
	}
	return locale.Default
}
