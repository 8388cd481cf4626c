package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
)

// Repository exposes persistence operations for catalog shapes.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shape repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns active shapes in display order.
func (r *Repository) ListActive(ctx context.Context) ([]models.Shape, error) {
	var rows []models.Shape
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID returns one shape regardless of active flag.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Shape, error) {
	var row models.Shape
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new shape.
func (r *Repository) Create(ctx context.Context, shape *models.Shape) (*models.Shape, error) {
	if err := r.db.WithContext(ctx).Create(shape).Error; err != nil {
		return nil, err
	}
	return shape, nil
}

// Update saves the provided shape.
func (r *Repository) Update(ctx context.Context, shape *models.Shape) (*models.Shape, error) {
	if err := r.db.WithContext(ctx).Save(shape).Error; err != nil {
		return nil, err
	}
	return shape, nil
}

// SetActive toggles a shape's availability without deleting history.
func (r *Repository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Shape{}).
		Where("id = ?", id).
		Update("active", active).Error
}
