package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/maisonlumiere/boutique-backend/api/middleware"
	"github.com/maisonlumiere/boutique-backend/internal/locale"
)

const cartCookieName = "boutique_cart"

func requestLocale(r *http.Request) string {
	if loc := chi.URLParam(r, "locale"); locale.IsSupported(loc) {
		return loc
	}
	if loc := middleware.LocaleFromContext(r.Context()); locale.IsSupported(loc) {
		return loc
	}
	return locale.Default
}

func cartToken(r *http.Request) string {
	cookie, err := r.Cookie(cartCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setCartCookie(w http.ResponseWriter, token string) {
	if token == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   180 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func actorUserID(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
