package models

import (
	"time"

	"github.com/google/uuid"
)

// DesignUpload is reference art attached to exactly one nail set. Uploads are
// never shared across sets; duplicating a set copies the bytes under new IDs.
type DesignUpload struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	NailSetID uuid.UUID `gorm:"column:nail_set_id;type:uuid;not null;index"`
	FileName  string    `gorm:"column:file_name;not null"`
	Data      []byte    `gorm:"column:data;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
