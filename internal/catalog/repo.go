package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
)

// Repository exposes persistence operations for catalog data.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CatalogRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListVisibleCollections returns merchandised collections in sort order.
func (r *Repository) ListVisibleCollections(ctx context.Context) ([]models.Collection, error) {
	var rows []models.Collection
	err := r.db.WithContext(ctx).
		Where("is_visible = ?", true).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// FindCollectionBySlug loads a visible collection with its visible products.
func (r *Repository) FindCollectionBySlug(ctx context.Context, slug string) (*models.Collection, error) {
	var row models.Collection
	err := r.db.WithContext(ctx).
		Preload("Products", "is_visible = ?", true).
		Preload("Products.Variants").
		Where("slug = ? AND is_visible = ?", slug, true).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindProductBySlug loads a visible product with its variants.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("slug = ? AND is_visible = ?", slug, true).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindProductByID loads a product regardless of visibility (admin surface).
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindVariantByID loads a variant together with its product.
func (r *Repository) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var row models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// SearchProducts matches visible products against title and slug, bounded.
func (r *Repository) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	pattern := "%" + query + "%"
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("is_visible = ?", true).
		Where("title_fr ILIKE ? OR title_en ILIKE ? OR slug ILIKE ?", pattern, pattern, pattern).
		Order("title_fr ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// CreateCollection inserts a collection.
func (r *Repository) CreateCollection(ctx context.Context, row *models.Collection) (*models.Collection, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateCollection saves the provided collection.
func (r *Repository) UpdateCollection(ctx context.Context, row *models.Collection) (*models.Collection, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindCollectionByID loads a collection regardless of visibility.
func (r *Repository) FindCollectionByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	var row models.Collection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateProduct inserts a product with its variants.
func (r *Repository) CreateProduct(ctx context.Context, row *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateProduct saves the provided product.
func (r *Repository) UpdateProduct(ctx context.Context, row *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteProduct removes a product; variants cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// CreateVariant inserts a variant.
func (r *Repository) CreateVariant(ctx context.Context, row *models.ProductVariant) (*models.ProductVariant, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateVariant saves the provided variant.
func (r *Repository) UpdateVariant(ctx context.Context, row *models.ProductVariant) (*models.ProductVariant, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}
