package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/maisonlumiere/boutique-backend/pkg/enums"
)

// Order is created only as the terminal effect of a confirmed payment.
// ProviderSessionID carries a unique index so a duplicate confirmation for the
// same hosted checkout session cannot produce a second order.
type Order struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            *uuid.UUID              `gorm:"column:user_id;type:uuid;index"`
	ProviderSessionID string                  `gorm:"column:provider_session_id;not null;uniqueIndex"`
	Currency          enums.Currency          `gorm:"column:currency;type:text;not null;default:'EUR'"`
	SubtotalCents     int                     `gorm:"column:subtotal_cents;not null"`
	TotalCents        int                     `gorm:"column:total_cents;not null"`
	ShippingAddressID *uuid.UUID              `gorm:"column:shipping_address_id;type:uuid"`
	FulfillmentStatus enums.FulfillmentStatus `gorm:"column:fulfillment_status;type:text;not null;default:'pending'"`
	Items             []OrderItem             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt          time.Time               `gorm:"column:placed_at;not null"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
