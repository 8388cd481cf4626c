package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/shorebytelabs/nailsbyabri-sub003/internal/catalog"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
)

type stubCatalog struct {
	listFn        func(ctx context.Context) ([]models.Shape, error)
	getFn         func(ctx context.Context, id string) (*models.Shape, error)
	fulfillment   catalog.FulfillmentConfig
	createFn      func(ctx context.Context, shape models.Shape) (*models.Shape, error)
	updateFn      func(ctx context.Context, shape models.Shape) (*models.Shape, error)
	deactivateFn  func(ctx context.Context, id string) error
}

func (s *stubCatalog) ListShapes(ctx context.Context) ([]models.Shape, error) {
	return s.listFn(ctx)
}

func (s *stubCatalog) GetShape(ctx context.Context, id string) (*models.Shape, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatalog) Snapshot(ctx context.Context) catalog.Snapshot {
	return catalog.Snapshot{}
}

func (s *stubCatalog) Fulfillment() catalog.FulfillmentConfig {
	return s.fulfillment
}

func (s *stubCatalog) CreateShape(ctx context.Context, shape models.Shape) (*models.Shape, error) {
	return s.createFn(ctx, shape)
}

func (s *stubCatalog) UpdateShape(ctx context.Context, shape models.Shape) (*models.Shape, error) {
	return s.updateFn(ctx, shape)
}

func (s *stubCatalog) DeactivateShape(ctx context.Context, id string) error {
	return s.deactivateFn(ctx, id)
}

func TestCatalogShapesListsActiveCatalog(t *testing.T) {
	svc := &stubCatalog{
		listFn: func(ctx context.Context) ([]models.Shape, error) {
			return []models.Shape{
				{ID: "almond", Name: "Almond", BasePriceCents: 4500, Active: true},
				{ID: "coffin", Name: "Coffin", BasePriceCents: 5000, Active: true, Position: 1},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/shapes", nil)
	rec := httptest.NewRecorder()

	CatalogShapes(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			Shapes []shapeResponse `json:"shapes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Shapes) != 2 {
		t.Fatalf("expected two shapes got %d", len(envelope.Data.Shapes))
	}
	if envelope.Data.Shapes[0].BasePriceCents != 4500 {
		t.Fatalf("unexpected price %d", envelope.Data.Shapes[0].BasePriceCents)
	}
}

func TestCatalogShapeNotFound(t *testing.T) {
	svc := &stubCatalog{
		getFn: func(ctx context.Context, id string) (*models.Shape, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shape not found")
		},
	}

	router := chi.NewRouter()
	router.Get("/catalog/shapes/{shapeId}", CatalogShape(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/catalog/shapes/stiletto", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCatalogFulfillmentExposesMethodTable(t *testing.T) {
	svc := &stubCatalog{
		fulfillment: catalog.FulfillmentConfig{
			Methods: map[enums.FulfillmentMethod]catalog.DeliveryMethod{
				enums.FulfillmentMethodPickup: {
					ID:           enums.FulfillmentMethodPickup,
					Label:        "Studio pickup",
					DefaultSpeed: "standard",
				},
			},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/fulfillment", nil)
	rec := httptest.NewRecorder()

	CatalogFulfillment(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Studio pickup") {
		t.Fatalf("expected method table in body: %s", rec.Body.String())
	}
}

func TestAdminShapeCreate(t *testing.T) {
	svc := &stubCatalog{
		createFn: func(ctx context.Context, shape models.Shape) (*models.Shape, error) {
			if shape.ID != "ballerina" || !shape.Active {
				t.Fatalf("unexpected shape %+v", shape)
			}
			return &shape, nil
		},
	}

	body := `{"id":"ballerina","name":"Ballerina","base_price_cents":5500,"tags":["long","trendy"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/shapes", strings.NewReader(body))
	rec := httptest.NewRecorder()

	AdminShapeCreate(svc, nil)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminShapeCreateRequiresPrice(t *testing.T) {
	svc := &stubCatalog{
		createFn: func(ctx context.Context, shape models.Shape) (*models.Shape, error) {
			t.Fatal("create should not be called")
			return nil, nil
		},
	}

	body := `{"id":"ballerina","name":"Ballerina"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/shapes", strings.NewReader(body))
	rec := httptest.NewRecorder()

	AdminShapeCreate(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminShapeUpdateTakesIDFromURL(t *testing.T) {
	svc := &stubCatalog{
		updateFn: func(ctx context.Context, shape models.Shape) (*models.Shape, error) {
			if shape.ID != "almond" {
				t.Fatalf("expected url id to win, got %q", shape.ID)
			}
			return &shape, nil
		},
	}

	router := chi.NewRouter()
	router.Put("/shapes/{shapeId}", AdminShapeUpdate(svc, nil))

	body := `{"id":"something-else","name":"Almond","base_price_cents":4800}`
	req := httptest.NewRequest(http.MethodPut, "/shapes/almond", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminShapeDeactivate(t *testing.T) {
	var deactivated string
	svc := &stubCatalog{
		deactivateFn: func(ctx context.Context, id string) error {
			deactivated = id
			return nil
		},
	}

	router := chi.NewRouter()
	router.Delete("/shapes/{shapeId}", AdminShapeDeactivate(svc, nil))

	req := httptest.NewRequest(http.MethodDelete, "/shapes/coffin", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if deactivated != "coffin" {
		t.Fatalf("expected coffin deactivated, got %q", deactivated)
	}
}
