package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	"github.com/maisonlumiere/boutique-backend/pkg/enums"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
)

type stubCatalogRepo struct {
	CatalogRepository

	variant      *models.ProductVariant
	variantErr   error
	product      *models.Product
	productErr   error
	searchRows   []models.Product
	searchErr    error
	searchQuery  string
	searchBounds int
}

func (s *stubCatalogRepo) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	return s.variant, s.variantErr
}

func (s *stubCatalogRepo) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.product, s.productErr
}

func (s *stubCatalogRepo) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	s.searchQuery = query
	s.searchBounds = limit
	return s.searchRows, s.searchErr
}

func newTestService(t *testing.T, repo CatalogRepository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestVariantForPurchaseNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCatalogRepo{variantErr: gorm.ErrRecordNotFound})

	_, err := svc.VariantForPurchase(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestVariantForPurchaseRejectsUnavailable(t *testing.T) {
	t.Parallel()

	variant := &models.ProductVariant{
		ID:          uuid.New(),
		IsAvailable: false,
		Product:     &models.Product{IsVisible: true},
	}
	svc := newTestService(t, &stubCatalogRepo{variant: variant})

	_, err := svc.VariantForPurchase(context.Background(), variant.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestVariantForPurchaseHidesInvisibleProduct(t *testing.T) {
	t.Parallel()

	variant := &models.ProductVariant{
		ID:          uuid.New(),
		IsAvailable: true,
		Product:     &models.Product{IsVisible: false},
	}
	svc := newTestService(t, &stubCatalogRepo{variant: variant})

	_, err := svc.VariantForPurchase(context.Background(), variant.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for hidden product, got %v", err)
	}
}

func TestVariantForPurchaseSuccess(t *testing.T) {
	t.Parallel()

	variant := &models.ProductVariant{
		ID:             uuid.New(),
		SKU:            "SAC-001",
		UnitPriceCents: 125000,
		Currency:       enums.CurrencyEUR,
		IsAvailable:    true,
		Product:        &models.Product{TitleFR: "Sac Impérial", IsVisible: true},
	}
	svc := newTestService(t, &stubCatalogRepo{variant: variant})

	got, err := svc.VariantForPurchase(context.Background(), variant.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SKU != "SAC-001" {
		t.Fatalf("unexpected variant %+v", got)
	}
}

func TestSearchBoundsResultsAndTrimsQuery(t *testing.T) {
	t.Parallel()

	repo := &stubCatalogRepo{searchRows: []models.Product{{TitleFR: "Foulard"}}}
	svc := newTestService(t, repo)

	out, err := svc.Search(context.Background(), "fr", "  foulard  ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one result, got %d", len(out))
	}
	if repo.searchQuery != "foulard" {
		t.Fatalf("expected trimmed query, got %q", repo.searchQuery)
	}
	if repo.searchBounds != searchLimit {
		t.Fatalf("expected limit %d, got %d", searchLimit, repo.searchBounds)
	}
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	t.Parallel()

	repo := &stubCatalogRepo{}
	svc := newTestService(t, repo)

	out, err := svc.Search(context.Background(), "fr", "   ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %d", len(out))
	}
	if repo.searchQuery != "" {
		t.Fatal("repository should not be queried for blank input")
	}
}

func TestGetProductLocalizesTitle(t *testing.T) {
	t.Parallel()

	en := "Imperial Bag"
	descFR := "Un sac"
	product := &models.Product{
		Slug:          "sac-imperial",
		TitleFR:       "Sac Impérial",
		TitleEN:       en,
		DescriptionFR: &descFR,
		Variants: []models.ProductVariant{
			{SKU: "SAC-001", UnitPriceCents: 125000, Currency: enums.CurrencyEUR, IsAvailable: true},
		},
	}
	svc := newTestService(t, &stubCatalogRepo{product: product})

	got, err := svc.GetProduct(context.Background(), "en", "sac-imperial")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Title != "Imperial Bag" {
		t.Fatalf("expected english title, got %q", got.Title)
	}

	gotFR, err := svc.GetProduct(context.Background(), "fr", "sac-imperial")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if gotFR.Title != "Sac Impérial" {
		t.Fatalf("expected french title, got %q", gotFR.Title)
	}
	if gotFR.Description == nil || *gotFR.Description != "Un sac" {
		t.Fatalf("expected french description, got %v", gotFR.Description)
	}
	if len(gotFR.Variants) != 1 || gotFR.Variants[0].PriceDisplay != "1250.00" {
		t.Fatalf("unexpected variants %+v", gotFR.Variants)
	}
}
