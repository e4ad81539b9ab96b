package models

import (
	"time"

	"github.com/google/uuid"
)

// HomeModule is a homepage content block ordered by SortOrder.
type HomeModule struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Kind      string    `gorm:"column:kind;not null"`
	TitleFR   *string   `gorm:"column:title_fr"`
	TitleEN   *string   `gorm:"column:title_en"`
	Payload   *string   `gorm:"column:payload;type:jsonb"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	IsVisible bool      `gorm:"column:is_visible;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
