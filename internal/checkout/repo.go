package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	"github.com/maisonlumiere/boutique-backend/pkg/enums"
)

// Repository persists checkout sessions and the orders they finalize into.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a checkout repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CheckoutRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateSession inserts a checkout session row for the provider session.
func (r *Repository) CreateSession(ctx context.Context, session *models.CheckoutSession) (*models.CheckoutSession, error) {
	if session.Status == "" {
		session.Status = enums.CheckoutStatusSessionCreated
	}
	if session.Currency == "" {
		session.Currency = enums.DefaultCurrency
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// FindSessionByProviderID loads the checkout session for a provider session id.
func (r *Repository) FindSessionByProviderID(ctx context.Context, providerSessionID string) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	err := r.db.WithContext(ctx).
		Where("provider_session_id = ?", providerSessionID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSessionStatus transitions a checkout session, stamping confirmed_at on
// the first confirming transition.
func (r *Repository) UpdateSessionStatus(ctx context.Context, sessionID uuid.UUID, status enums.CheckoutStatus) error {
	updates := map[string]interface{}{"status": status}
	switch status {
	case enums.CheckoutStatusConfirmed, enums.CheckoutStatusOrderFinalized:
		updates["confirmed_at"] = time.Now()
	}
	return r.db.WithContext(ctx).
		Model(&models.CheckoutSession{}).
		Where("id = ?", sessionID).
		Updates(updates).Error
}

// CreateOrder inserts the order with its denormalized items. The unique index
// on provider_session_id makes a duplicate insert fail loudly.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindOrderByProviderSessionID loads the order finalized from a provider session.
func (r *Repository) FindOrderByProviderSessionID(ctx context.Context, providerSessionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("provider_session_id = ?", providerSessionID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
