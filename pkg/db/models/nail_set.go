package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/types"
)

// NailSet is one orderable line of an order: a themed grouping of nails in a
// single shape, with its sizing and design references.
type NailSet struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	OrderID          uuid.UUID      `gorm:"column:order_id;type:uuid;not null;index"`
	Name             *string        `gorm:"column:name"`
	ShapeID          string         `gorm:"column:shape_id;not null"`
	Quantity         int            `gorm:"column:quantity;not null;default:1"`
	Description      *string        `gorm:"column:description"`
	SetNotes         *string        `gorm:"column:set_notes"`
	Sizes            types.SizeSpec `gorm:"column:sizes;type:jsonb"`
	RequiresFollowUp bool           `gorm:"column:requires_follow_up;not null;default:false"`
	Position         int            `gorm:"column:position;not null;default:0"`
	Uploads          []DesignUpload `gorm:"foreignKey:NailSetID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
