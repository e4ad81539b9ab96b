package controllers

import (
	"net/http"

	"github.com/maisonlumiere/boutique-backend/api/responses"
)

// PageOK acknowledges a page route the frontend renders itself. The backend
// only owns the gate semantics (locale canonicalization, auth redirects).
func PageOK() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"locale": requestLocale(r)})
	}
}
