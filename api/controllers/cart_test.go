package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	cartsvc "github.com/maisonlumiere/boutique-backend/internal/cart"
	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
)

type stubCartService struct {
	addToken string
	addErr   error
	lastSeen string
}

func (s *stubCartService) Snapshot(ctx context.Context, token string) cartsvc.CartDTO {
	s.lastSeen = token
	return cartsvc.CartDTO{Token: token, Currency: "EUR", SubtotalDisplay: "0.00"}
}

func (s *stubCartService) AddItem(ctx context.Context, token string, variantID uuid.UUID, quantity int) (cartsvc.CartDTO, string, error) {
	if s.addErr != nil {
		return cartsvc.CartDTO{}, "", s.addErr
	}
	out := s.addToken
	if out == "" {
		out = token
	}
	return cartsvc.CartDTO{Token: out, Currency: "EUR"}, out, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, token string, variantID uuid.UUID) (cartsvc.CartDTO, error) {
	return cartsvc.CartDTO{Token: token}, nil
}

func (s *stubCartService) Clear(ctx context.Context, token string) error {
	return nil
}

func (s *stubCartService) ActiveRecord(ctx context.Context, token string) (*models.CartRecord, error) {
	panic("unimplemented")
}

func TestCartAddItemMintsCookie(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{addToken: "tok-new"}
	handler := CartAddItem(svc, nil)

	body := `{"variant_id":"` + uuid.NewString() + `","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var found bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "boutique_cart" && cookie.Value == "tok-new" {
			found = true
			if !cookie.HttpOnly {
				t.Fatalf("cart cookie must be http-only")
			}
		}
	}
	if !found {
		t.Fatalf("expected boutique_cart cookie to be set")
	}
}

func TestCartAddItemRejectsBadBody(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	handler := CartAddItem(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"quantity":`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for truncated body, got %d", rec.Code)
	}
}

func TestCartAddItemPropagatesServiceError(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{addErr: pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")}
	handler := CartAddItem(svc, nil)

	body := `{"variant_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCartGetReadsCookieToken(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	handler := CartGet(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "boutique_cart", Value: "tok-existing"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastSeen != "tok-existing" {
		t.Fatalf("expected snapshot for cookie token, got %q", svc.lastSeen)
	}
}
