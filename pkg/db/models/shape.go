package models

import (
	"time"

	"github.com/lib/pq"
)

// Shape is one catalog entry: a nail shape with its base price per set.
// IDs are slugs ("almond", "coffin") chosen by the studio.
type Shape struct {
	ID             string         `gorm:"column:id;primaryKey"`
	Name           string         `gorm:"column:name;not null"`
	BasePriceCents int            `gorm:"column:base_price_cents;not null"`
	ImageURL       *string        `gorm:"column:image_url"`
	Tags           pq.StringArray `gorm:"column:tags;type:text[]"`
	Active         bool           `gorm:"column:active;not null;default:true"`
	Position       int            `gorm:"column:position;not null;default:0"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
