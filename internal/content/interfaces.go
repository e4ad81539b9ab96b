package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
)

// ContentRepository defines the persistence surface for homepage modules.
type ContentRepository interface {
	WithTx(tx *gorm.DB) ContentRepository
	ListVisible(ctx context.Context) ([]models.HomeModule, error)
	ListAll(ctx context.Context) ([]models.HomeModule, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.HomeModule, error)
	Create(ctx context.Context, module *models.HomeModule) (*models.HomeModule, error)
	Update(ctx context.Context, module *models.HomeModule) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
