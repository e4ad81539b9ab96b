package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	"github.com/maisonlumiere/boutique-backend/pkg/enums"
)

// CheckoutRepository defines the persistence surface for checkout sessions and orders.
type CheckoutRepository interface {
	WithTx(tx *gorm.DB) CheckoutRepository
	CreateSession(ctx context.Context, session *models.CheckoutSession) (*models.CheckoutSession, error)
	FindSessionByProviderID(ctx context.Context, providerSessionID string) (*models.CheckoutSession, error)
	UpdateSessionStatus(ctx context.Context, sessionID uuid.UUID, status enums.CheckoutStatus) error
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrderByProviderSessionID(ctx context.Context, providerSessionID string) (*models.Order, error)
}

// PaymentProvider creates hosted checkout sessions with the payment processor.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req ProviderSessionRequest) (*ProviderSession, error)
}

// VariantCatalog resolves variants so order lines can be denormalized.
type VariantCatalog interface {
	FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

// FinalizeGuard is the fast-path duplicate filter in front of the orders
// unique index. CheckAndMark reports true when the id was already seen.
type FinalizeGuard interface {
	CheckAndMark(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
