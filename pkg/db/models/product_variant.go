package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/maisonlumiere/boutique-backend/pkg/enums"
)

// ProductVariant is the purchasable unit of inventory and pricing.
type ProductVariant struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID      `gorm:"column:product_id;type:uuid;not null;index"`
	SKU            string         `gorm:"column:sku;not null;uniqueIndex"`
	OptionName     *string        `gorm:"column:option_name"`
	UnitPriceCents int            `gorm:"column:unit_price_cents;not null"`
	Currency       enums.Currency `gorm:"column:currency;type:text;not null;default:'EUR'"`
	IsAvailable    bool           `gorm:"column:is_available;not null;default:true"`
	Product        *Product       `gorm:"foreignKey:ProductID"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
