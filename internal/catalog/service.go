package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
)

type shapeLoader interface {
	ListActive(ctx context.Context) ([]models.Shape, error)
	FindByID(ctx context.Context, id string) (*models.Shape, error)
	Create(ctx context.Context, shape *models.Shape) (*models.Shape, error)
	Update(ctx context.Context, shape *models.Shape) (*models.Shape, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// Service exposes the shape catalog and fulfillment configuration.
type Service interface {
	ListShapes(ctx context.Context) ([]models.Shape, error)
	GetShape(ctx context.Context, id string) (*models.Shape, error)
	Snapshot(ctx context.Context) Snapshot
	Fulfillment() FulfillmentConfig
	CreateShape(ctx context.Context, shape models.Shape) (*models.Shape, error)
	UpdateShape(ctx context.Context, shape models.Shape) (*models.Shape, error)
	DeactivateShape(ctx context.Context, id string) error
}

type service struct {
	repo        shapeLoader
	logg        *logger.Logger
	fulfillment FulfillmentConfig
}

// NewService builds the catalog service. The fulfillment table is static
// configuration validated once at startup.
func NewService(repo shapeLoader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shape repository required")
	}
	cfg := staticFulfillmentConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &service{repo: repo, logg: logg, fulfillment: cfg}, nil
}

// ListShapes returns the active catalog, falling back to the bundled shapes
// when the database is unavailable. The fallback is log-only: browsing and
// pricing keep working.
func (s *service) ListShapes(ctx context.Context) ([]models.Shape, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "catalog load failed, serving bundled shapes", err)
		}
		return append([]models.Shape(nil), staticShapes...), nil
	}
	if len(rows) == 0 {
		return append([]models.Shape(nil), staticShapes...), nil
	}
	return rows, nil
}

// GetShape returns one shape by id.
func (s *service) GetShape(ctx context.Context, id string) (*models.Shape, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shape id is required")
	}
	shape, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			for _, bundled := range staticShapes {
				if bundled.ID == id {
					copied := bundled
					return &copied, nil
				}
			}
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shape not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shape")
	}
	return shape, nil
}

// Snapshot assembles the read-only state one pricing run works from.
func (s *service) Snapshot(ctx context.Context) Snapshot {
	shapes, _ := s.ListShapes(ctx)
	index := make(map[string]models.Shape, len(shapes))
	for _, shape := range shapes {
		index[shape.ID] = shape
	}
	return Snapshot{Shapes: index, Fulfillment: s.fulfillment}
}

// Fulfillment returns the delivery method table.
func (s *service) Fulfillment() FulfillmentConfig {
	return s.fulfillment
}

// CreateShape adds a catalog entry.
func (s *service) CreateShape(ctx context.Context, shape models.Shape) (*models.Shape, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, &shape)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shape")
	}
	return created, nil
}

// UpdateShape saves changes to an existing catalog entry.
func (s *service) UpdateShape(ctx context.Context, shape models.Shape) (*models.Shape, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, shape.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shape not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shape")
	}
	updated, err := s.repo.Update(ctx, &shape)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shape")
	}
	return updated, nil
}

// DeactivateShape hides a shape from the storefront without deleting it.
func (s *service) DeactivateShape(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shape id is required")
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate shape")
	}
	return nil
}

func validateShape(shape models.Shape) error {
	if strings.TrimSpace(shape.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shape id is required")
	}
	if strings.TrimSpace(shape.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shape name is required")
	}
	if shape.BasePriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shape price cannot be negative")
	}
	return nil
}
