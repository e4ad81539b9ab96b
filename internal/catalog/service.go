package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	"github.com/maisonlumiere/boutique-backend/pkg/enums"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
	"github.com/maisonlumiere/boutique-backend/pkg/money"
)

// Search results are always bounded, whatever the client asks for.
const searchLimit = 20

// Service exposes storefront catalog reads and admin catalog writes.
type Service interface {
	ListCollections(ctx context.Context, loc string) ([]CollectionDTO, error)
	GetCollection(ctx context.Context, loc, slug string) (*CollectionDTO, error)
	GetProduct(ctx context.Context, loc, slug string) (*ProductDTO, error)
	Search(ctx context.Context, loc, query string) ([]ProductDTO, error)
	VariantForPurchase(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error)

	CreateCollection(ctx context.Context, input CollectionInput) (*CollectionDTO, error)
	UpdateCollection(ctx context.Context, id uuid.UUID, input CollectionInput) (*CollectionDTO, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// CollectionDTO is the localized view of a collection.
type CollectionDTO struct {
	ID       uuid.UUID    `json:"id"`
	Slug     string       `json:"slug"`
	Title    string       `json:"title"`
	Products []ProductDTO `json:"products,omitempty"`
}

// ProductDTO is the localized view of a product and its variants.
type ProductDTO struct {
	ID            uuid.UUID    `json:"id"`
	Slug          string       `json:"slug"`
	Title         string       `json:"title"`
	Description   *string      `json:"description,omitempty"`
	FeaturedImage *string      `json:"featured_image,omitempty"`
	Variants      []VariantDTO `json:"variants,omitempty"`
}

// VariantDTO is the purchasable unit shown to the storefront.
type VariantDTO struct {
	ID           uuid.UUID `json:"id"`
	SKU          string    `json:"sku"`
	OptionName   *string   `json:"option_name,omitempty"`
	PriceCents   int       `json:"price_cents"`
	PriceDisplay string    `json:"price_display"`
	Currency     string    `json:"currency"`
	IsAvailable  bool      `json:"is_available"`
}

// CollectionInput holds the payload for collection writes.
type CollectionInput struct {
	Slug        string  `json:"slug" validate:"required,max=120"`
	TitleFR     string  `json:"title_fr" validate:"required,max=200"`
	TitleEN     string  `json:"title_en" validate:"required,max=200"`
	Description *string `json:"description"`
	SortOrder   int     `json:"sort_order"`
	IsVisible   bool    `json:"is_visible"`
}

// VariantInput holds the payload for variant writes nested under a product.
type VariantInput struct {
	SKU            string  `json:"sku" validate:"required,max=64"`
	OptionName     *string `json:"option_name"`
	UnitPriceCents int     `json:"unit_price_cents" validate:"required,gt=0"`
	Currency       string  `json:"currency"`
	IsAvailable    bool    `json:"is_available"`
}

// ProductInput holds the payload for product writes.
type ProductInput struct {
	CollectionID  *uuid.UUID     `json:"collection_id"`
	Slug          string         `json:"slug" validate:"required,max=120"`
	TitleFR       string         `json:"title_fr" validate:"required,max=200"`
	TitleEN       string         `json:"title_en" validate:"required,max=200"`
	DescriptionFR *string        `json:"description_fr"`
	DescriptionEN *string        `json:"description_en"`
	FeaturedImage *string        `json:"featured_image"`
	IsVisible     bool           `json:"is_visible"`
	Variants      []VariantInput `json:"variants" validate:"dive"`
}

type service struct {
	repo CatalogRepository
}

// NewService constructs the catalog service.
func NewService(repo CatalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCollections(ctx context.Context, loc string) ([]CollectionDTO, error) {
	rows, err := s.repo.ListVisibleCollections(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list collections")
	}
	out := make([]CollectionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, newCollectionDTO(&row, loc, false))
	}
	return out, nil
}

func (s *service) GetCollection(ctx context.Context, loc, slug string) (*CollectionDTO, error) {
	row, err := s.repo.FindCollectionBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load collection")
	}
	dto := newCollectionDTO(row, loc, true)
	return &dto, nil
}

func (s *service) GetProduct(ctx context.Context, loc, slug string) (*ProductDTO, error) {
	row, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	dto := newProductDTO(row, loc)
	return &dto, nil
}

func (s *service) Search(ctx context.Context, loc, query string) ([]ProductDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []ProductDTO{}, nil
	}
	rows, err := s.repo.SearchProducts(ctx, query, searchLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, newProductDTO(&row, loc))
	}
	return out, nil
}

// VariantForPurchase resolves a variant that may legitimately be added to a
// cart: it must exist, be available, and belong to a visible product.
func (s *service) VariantForPurchase(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error) {
	row, err := s.repo.FindVariantByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variant")
	}
	if !row.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant is not available")
	}
	if row.Product == nil || !row.Product.IsVisible {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return row, nil
}

func (s *service) CreateCollection(ctx context.Context, input CollectionInput) (*CollectionDTO, error) {
	row := &models.Collection{
		Slug:        input.Slug,
		TitleFR:     input.TitleFR,
		TitleEN:     input.TitleEN,
		Description: input.Description,
		SortOrder:   input.SortOrder,
		IsVisible:   input.IsVisible,
	}
	created, err := s.repo.CreateCollection(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert collection")
	}
	dto := newCollectionDTO(created, "", false)
	return &dto, nil
}

func (s *service) UpdateCollection(ctx context.Context, id uuid.UUID, input CollectionInput) (*CollectionDTO, error) {
	row, err := s.repo.FindCollectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load collection")
	}
	row.Slug = input.Slug
	row.TitleFR = input.TitleFR
	row.TitleEN = input.TitleEN
	row.Description = input.Description
	row.SortOrder = input.SortOrder
	row.IsVisible = input.IsVisible
	updated, err := s.repo.UpdateCollection(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update collection")
	}
	dto := newCollectionDTO(updated, "", false)
	return &dto, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	if len(input.Variants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product requires at least one variant")
	}
	row := &models.Product{
		CollectionID:  input.CollectionID,
		Slug:          input.Slug,
		TitleFR:       input.TitleFR,
		TitleEN:       input.TitleEN,
		DescriptionFR: input.DescriptionFR,
		DescriptionEN: input.DescriptionEN,
		FeaturedImage: input.FeaturedImage,
		IsVisible:     input.IsVisible,
		Variants:      buildVariants(input.Variants),
	}
	created, err := s.repo.CreateProduct(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	dto := newProductDTO(created, "")
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	row, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	row.CollectionID = input.CollectionID
	row.Slug = input.Slug
	row.TitleFR = input.TitleFR
	row.TitleEN = input.TitleEN
	row.DescriptionFR = input.DescriptionFR
	row.DescriptionEN = input.DescriptionEN
	row.FeaturedImage = input.FeaturedImage
	row.IsVisible = input.IsVisible
	updated, err := s.repo.UpdateProduct(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	dto := newProductDTO(updated, "")
	return &dto, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func buildVariants(inputs []VariantInput) []models.ProductVariant {
	out := make([]models.ProductVariant, 0, len(inputs))
	for _, v := range inputs {
		currency := enums.Currency(v.Currency)
		if !currency.IsValid() {
			currency = enums.DefaultCurrency
		}
		out = append(out, models.ProductVariant{
			SKU:            v.SKU,
			OptionName:     v.OptionName,
			UnitPriceCents: v.UnitPriceCents,
			Currency:       currency,
			IsAvailable:    v.IsAvailable,
		})
	}
	return out
}

func newCollectionDTO(row *models.Collection, loc string, withProducts bool) CollectionDTO {
	dto := CollectionDTO{
		ID:    row.ID,
		Slug:  row.Slug,
		Title: localized(loc, row.TitleFR, row.TitleEN),
	}
	if withProducts {
		dto.Products = make([]ProductDTO, 0, len(row.Products))
		for _, product := range row.Products {
			dto.Products = append(dto.Products, newProductDTO(&product, loc))
		}
	}
	return dto
}

func newProductDTO(row *models.Product, loc string) ProductDTO {
	dto := ProductDTO{
		ID:            row.ID,
		Slug:          row.Slug,
		Title:         localized(loc, row.TitleFR, row.TitleEN),
		FeaturedImage: row.FeaturedImage,
	}
	if loc == "en" {
		dto.Description = row.DescriptionEN
	} else {
		dto.Description = row.DescriptionFR
	}
	dto.Variants = make([]VariantDTO, 0, len(row.Variants))
	for _, variant := range row.Variants {
		dto.Variants = append(dto.Variants, VariantDTO{
			ID:           variant.ID,
			SKU:          variant.SKU,
			OptionName:   variant.OptionName,
			PriceCents:   variant.UnitPriceCents,
			PriceDisplay: money.String(variant.UnitPriceCents),
			Currency:     variant.Currency.String(),
			IsAvailable:  variant.IsAvailable,
		})
	}
	return dto
}

func localized(loc, fr, en string) string {
	if loc == "en" && en != "" {
		return en
	}
	return fr
}
