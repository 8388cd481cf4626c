package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"

	"github.com/shorebytelabs/nailsbyabri-sub003/api/responses"
	"github.com/shorebytelabs/nailsbyabri-sub003/api/validators"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/catalog"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
)

type shapeResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	BasePriceCents int       `json:"base_price_cents"`
	ImageURL       *string   `json:"image_url,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Active         bool      `json:"active"`
	Position       int       `json:"position"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newShapeResponse(shape models.Shape) shapeResponse {
	return shapeResponse{
		ID:             shape.ID,
		Name:           shape.Name,
		BasePriceCents: shape.BasePriceCents,
		ImageURL:       shape.ImageURL,
		Tags:           shape.Tags,
		Active:         shape.Active,
		Position:       shape.Position,
		UpdatedAt:      shape.UpdatedAt,
	}
}

func newShapeList(shapes []models.Shape) []shapeResponse {
	out := make([]shapeResponse, 0, len(shapes))
	for _, shape := range shapes {
		out = append(out, newShapeResponse(shape))
	}
	return out
}

// CatalogShapes lists the browsable shape catalog. Public: no session needed
// to window-shop.
func CatalogShapes(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		shapes, err := svc.ListShapes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"shapes": newShapeList(shapes)})
	}
}

// CatalogShape returns one shape by its slug.
func CatalogShape(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		shape, err := svc.GetShape(r.Context(), chi.URLParam(r, "shapeId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newShapeResponse(*shape))
	}
}

// CatalogFulfillment exposes the delivery method table so the storefront can
// render the method and speed pickers from the same source pricing uses.
func CatalogFulfillment(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		responses.WriteSuccess(w, svc.Fulfillment())
	}
}

type shapePayload struct {
	ID             string   `json:"id" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	BasePriceCents int      `json:"base_price_cents" validate:"required,min=1"`
	ImageURL       *string  `json:"image_url,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Position       int      `json:"position,omitempty"`
}

func (p shapePayload) toModel() models.Shape {
	return models.Shape{
		ID:             p.ID,
		Name:           p.Name,
		BasePriceCents: p.BasePriceCents,
		ImageURL:       p.ImageURL,
		Tags:           pq.StringArray(p.Tags),
		Active:         true,
		Position:       p.Position,
	}
}

// AdminShapeCreate adds a shape to the catalog.
func AdminShapeCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body shapePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateShape(r.Context(), body.toModel())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newShapeResponse(*created))
	}
}

// AdminShapeUpdate replaces an existing shape's attributes.
func AdminShapeUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body shapePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shape := body.toModel()
		shape.ID = chi.URLParam(r, "shapeId")

		updated, err := svc.UpdateShape(r.Context(), shape)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newShapeResponse(*updated))
	}
}

// AdminShapeDeactivate hides a shape from the storefront without deleting
// the rows existing orders reference.
func AdminShapeDeactivate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		if err := svc.DeactivateShape(r.Context(), chi.URLParam(r, "shapeId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
