package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
)

// Repository persists homepage modules.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a content repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ContentRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListVisible returns the published modules in display order.
func (r *Repository) ListVisible(ctx context.Context) ([]models.HomeModule, error) {
	var rows []models.HomeModule
	err := r.db.WithContext(ctx).
		Where("is_visible = ?", true).
		Order("sort_order ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns every module, for the admin surface.
func (r *Repository) ListAll(ctx context.Context) ([]models.HomeModule, error) {
	var rows []models.HomeModule
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one module.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.HomeModule, error) {
	var module models.HomeModule
	if err := r.db.WithContext(ctx).First(&module, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

// Create inserts a new module.
func (r *Repository) Create(ctx context.Context, module *models.HomeModule) (*models.HomeModule, error) {
	if err := r.db.WithContext(ctx).Create(module).Error; err != nil {
		return nil, err
	}
	return module, nil
}

// Update persists the full module row.
func (r *Repository) Update(ctx context.Context, module *models.HomeModule) error {
	return r.db.WithContext(ctx).Save(module).Error
}

// Delete removes a module.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.HomeModule{}, "id = ?", id).Error
}

// UpdateSortOrder sets one module's position.
func (r *Repository) UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	return r.db.WithContext(ctx).
		Model(&models.HomeModule{}).
		Where("id = ?", id).
		Update("sort_order", sortOrder).Error
}
