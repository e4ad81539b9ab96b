package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/maisonlumiere/boutique-backend/pkg/enums"
)

// CartRecord is the token-keyed shopping cart owned by the browser session.
type CartRecord struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Token       string           `gorm:"column:token;not null;uniqueIndex"`
	Status      enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Currency    enums.Currency   `gorm:"column:currency;type:text;not null;default:'EUR'"`
	Items       []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	ConvertedAt *time.Time       `gorm:"column:converted_at"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// SubtotalCents sums unit price times quantity over all items.
func (c CartRecord) SubtotalCents() int {
	total := 0
	for _, item := range c.Items {
		total += item.UnitPriceCents * item.Quantity
	}
	return total
}
