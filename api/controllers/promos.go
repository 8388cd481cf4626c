package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shorebytelabs/nailsbyabri-sub003/api/responses"
	"github.com/shorebytelabs/nailsbyabri-sub003/api/validators"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/promos"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
)

type promoPayload struct {
	Code          string     `json:"code" validate:"required"`
	Type          string     `json:"type" validate:"required,oneof=percentage fixed_amount free_shipping free_order fixed_price_item"`
	Value         int        `json:"value,omitempty" validate:"min=0"`
	MinOrderCents int        `json:"min_order_cents,omitempty" validate:"min=0"`
	StartsAt      *time.Time `json:"starts_at,omitempty"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	MaxUses       *int       `json:"max_uses,omitempty"`
	PerUserLimit  *int       `json:"per_user_limit,omitempty"`
}

func (p promoPayload) toModel() models.PromoCode {
	return models.PromoCode{
		Code:          p.Code,
		Type:          enums.PromoType(p.Type),
		Value:         p.Value,
		MinOrderCents: p.MinOrderCents,
		Active:        true,
		StartsAt:      p.StartsAt,
		EndsAt:        p.EndsAt,
		MaxUses:       p.MaxUses,
		PerUserLimit:  p.PerUserLimit,
	}
}

type promoView struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	Type          string     `json:"type"`
	Value         int        `json:"value"`
	MinOrderCents int        `json:"min_order_cents"`
	Active        bool       `json:"active"`
	StartsAt      *time.Time `json:"starts_at,omitempty"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	MaxUses       *int       `json:"max_uses,omitempty"`
	UsesCount     int        `json:"uses_count"`
	PerUserLimit  *int       `json:"per_user_limit,omitempty"`
}

func newPromoView(promo models.PromoCode) promoView {
	return promoView{
		ID:            promo.ID,
		Code:          promo.Code,
		Type:          string(promo.Type),
		Value:         promo.Value,
		MinOrderCents: promo.MinOrderCents,
		Active:        promo.Active,
		StartsAt:      promo.StartsAt,
		EndsAt:        promo.EndsAt,
		MaxUses:       promo.MaxUses,
		UsesCount:     promo.UsesCount,
		PerUserLimit:  promo.PerUserLimit,
	}
}

// AdminPromoCreate adds a promo rule.
func AdminPromoCreate(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		var body promoPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreatePromo(r.Context(), body.toModel())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newPromoView(*created))
	}
}

// AdminPromoUpdate replaces a promo rule's attributes.
func AdminPromoUpdate(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		promoID, err := uuid.Parse(chi.URLParam(r, "promoId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promo id"))
			return
		}

		var body promoPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo := body.toModel()
		promo.ID = promoID

		updated, err := svc.UpdatePromo(r.Context(), promo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPromoView(*updated))
	}
}

// AdminPromoList returns every promo rule, active or not.
func AdminPromoList(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		list, err := svc.ListPromos(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]promoView, 0, len(list))
		for _, promo := range list {
			views = append(views, newPromoView(promo))
		}
		responses.WriteSuccess(w, map[string]any{"promos": views})
	}
}

// AdminPromoDeactivate turns a promo rule off without deleting its
// redemption history.
func AdminPromoDeactivate(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		promoID, err := uuid.Parse(chi.URLParam(r, "promoId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promo id"))
			return
		}

		if err := svc.DeactivatePromo(r.Context(), promoID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
