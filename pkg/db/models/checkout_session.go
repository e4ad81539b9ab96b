package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/maisonlumiere/boutique-backend/pkg/enums"
)

// CheckoutSession records a hosted checkout session requested from the
// payment provider for a cart.
type CheckoutSession struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID            uuid.UUID            `gorm:"column:cart_id;type:uuid;not null;index"`
	UserID            *uuid.UUID           `gorm:"column:user_id;type:uuid;index"`
	ProviderSessionID string               `gorm:"column:provider_session_id;not null;uniqueIndex"`
	Status            enums.CheckoutStatus `gorm:"column:status;type:text;not null;default:'session_created'"`
	AmountCents       int                  `gorm:"column:amount_cents;not null"`
	Currency          enums.Currency       `gorm:"column:currency;type:text;not null;default:'EUR'"`
	ConfirmedAt       *time.Time           `gorm:"column:confirmed_at"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
