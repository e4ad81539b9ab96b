package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
)

// CatalogRepository defines the persistence surface required by the catalog service.
type CatalogRepository interface {
	WithTx(tx *gorm.DB) CatalogRepository
	ListVisibleCollections(ctx context.Context) ([]models.Collection, error)
	FindCollectionBySlug(ctx context.Context, slug string) (*models.Collection, error)
	FindCollectionByID(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error)
	CreateCollection(ctx context.Context, row *models.Collection) (*models.Collection, error)
	UpdateCollection(ctx context.Context, row *models.Collection) (*models.Collection, error)
	CreateProduct(ctx context.Context, row *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, row *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	CreateVariant(ctx context.Context, row *models.ProductVariant) (*models.ProductVariant, error)
	UpdateVariant(ctx context.Context, row *models.ProductVariant) (*models.ProductVariant, error)
}
