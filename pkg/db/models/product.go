package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry; pricing and availability live on its variants.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CollectionID  *uuid.UUID       `gorm:"column:collection_id;type:uuid;index"`
	Slug          string           `gorm:"column:slug;not null;uniqueIndex"`
	TitleFR       string           `gorm:"column:title_fr;not null"`
	TitleEN       string           `gorm:"column:title_en;not null"`
	DescriptionFR *string          `gorm:"column:description_fr"`
	DescriptionEN *string          `gorm:"column:description_en"`
	FeaturedImage *string          `gorm:"column:featured_image"`
	IsVisible     bool             `gorm:"column:is_visible;not null;default:true"`
	Variants      []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TitleFor returns the localized title, falling back to French.
func (p Product) TitleFor(locale string) string {
	if locale == "en" && p.TitleEN != "" {
		return p.TitleEN
	}
	return p.TitleFR
}
