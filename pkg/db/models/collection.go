package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection groups products for merchandising.
type Collection struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	TitleFR     string    `gorm:"column:title_fr;not null"`
	TitleEN     string    `gorm:"column:title_en;not null"`
	Description *string   `gorm:"column:description"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0"`
	IsVisible   bool      `gorm:"column:is_visible;not null;default:true"`
	Products    []Product `gorm:"foreignKey:CollectionID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
