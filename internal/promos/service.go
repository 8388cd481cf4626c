package promos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
)

// IneligibleReason says why a resolved code grants no discount.
type IneligibleReason string

const (
	ReasonUnknownCode  IneligibleReason = "unknown_code"
	ReasonInactive     IneligibleReason = "inactive"
	ReasonNotStarted   IneligibleReason = "not_started"
	ReasonExpired      IneligibleReason = "expired"
	ReasonExhausted    IneligibleReason = "exhausted"
	ReasonPerUserLimit IneligibleReason = "per_user_limit_reached"
	ReasonBelowMinimum IneligibleReason = "below_minimum_order"
)

// Resolution is the verdict for one entered code. Ineligibility is state,
// not an error: pricing reports it as a warning and applies no discount.
type Resolution struct {
	Code     string
	Eligible bool
	Reason   IneligibleReason
	PromoID  uuid.UUID
	Type     enums.PromoType
	Value    int
}

type promoStore interface {
	FindByCode(ctx context.Context, code string) (*models.PromoCode, error)
	CountUserRedemptions(ctx context.Context, promoID, userID uuid.UUID) (int, error)
	RecordRedemption(ctx context.Context, promoID, userID, orderID uuid.UUID) error
	WithTx(tx *gorm.DB) *Repository
	Create(ctx context.Context, promo *models.PromoCode) (*models.PromoCode, error)
	Update(ctx context.Context, promo *models.PromoCode) (*models.PromoCode, error)
	List(ctx context.Context) ([]models.PromoCode, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// Service resolves entered promo codes against the rule table and records
// redemptions when orders complete.
type Service interface {
	Resolve(ctx context.Context, code string, userID uuid.UUID, subtotalCents int) (Resolution, error)
	Redeem(ctx context.Context, tx *gorm.DB, code string, userID, orderID uuid.UUID) error
	CreatePromo(ctx context.Context, promo models.PromoCode) (*models.PromoCode, error)
	UpdatePromo(ctx context.Context, promo models.PromoCode) (*models.PromoCode, error)
	ListPromos(ctx context.Context) ([]models.PromoCode, error)
	DeactivatePromo(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo promoStore
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the promo service.
func NewService(repo promoStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promo repository required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

// Resolve evaluates a code for a user and order subtotal. Usage limits are
// re-validated here for fast feedback; the redemption transaction enforces
// them again at completion, so a verdict that goes stale between quote and
// payment cannot over-redeem.
func (s *service) Resolve(ctx context.Context, code string, userID uuid.UUID, subtotalCents int) (Resolution, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	result := Resolution{Code: normalized}
	if normalized == "" {
		result.Reason = ReasonUnknownCode
		return result, nil
	}

	promo, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promo lookup failed")
	}
	if promo == nil {
		result.Reason = ReasonUnknownCode
		return result, nil
	}

	result.PromoID = promo.ID
	result.Type = promo.Type
	result.Value = promo.Value

	if reason, ok := s.staticIneligibility(promo, subtotalCents); !ok {
		result.Reason = reason
		return result, nil
	}

	if promo.PerUserLimit != nil && userID != uuid.Nil {
		used, err := s.repo.CountUserRedemptions(ctx, promo.ID, userID)
		if err != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promo redemption count failed")
		}
		if used >= *promo.PerUserLimit {
			result.Reason = ReasonPerUserLimit
			return result, nil
		}
	}

	result.Eligible = true
	result.Reason = ""
	return result, nil
}

// staticIneligibility checks every condition that needs no redemption query.
func (s *service) staticIneligibility(promo *models.PromoCode, subtotalCents int) (IneligibleReason, bool) {
	if !promo.Active {
		return ReasonInactive, false
	}
	now := s.now().UTC()
	if promo.StartsAt != nil && now.Before(*promo.StartsAt) {
		return ReasonNotStarted, false
	}
	if promo.EndsAt != nil && now.After(*promo.EndsAt) {
		return ReasonExpired, false
	}
	if promo.MaxUses != nil && promo.UsesCount >= *promo.MaxUses {
		return ReasonExhausted, false
	}
	if promo.MinOrderCents > 0 && subtotalCents < promo.MinOrderCents {
		return ReasonBelowMinimum, false
	}
	return "", true
}

// Redeem re-validates the code inside the caller's transaction and records
// the use. Called exactly once per order, from order completion.
func (s *service) Redeem(ctx context.Context, tx *gorm.DB, code string, userID, orderID uuid.UUID) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "promo redemption requires a transaction")
	}
	repo := s.repo.WithTx(tx)

	promo, err := repo.FindByCode(ctx, code)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promo lookup failed")
	}
	if promo == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
	}
	if promo.MaxUses != nil && promo.UsesCount >= *promo.MaxUses {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "promo code is exhausted")
	}
	if promo.PerUserLimit != nil {
		used, err := repo.CountUserRedemptions(ctx, promo.ID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promo redemption count failed")
		}
		if used >= *promo.PerUserLimit {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "promo code per-user limit reached")
		}
	}

	if err := repo.RecordRedemption(ctx, promo.ID, userID, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promo redemption failed")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "promo_code", promo.Code), "promo code redeemed")
	}
	return nil
}

// CreatePromo validates and inserts a new rule.
func (s *service) CreatePromo(ctx context.Context, promo models.PromoCode) (*models.PromoCode, error) {
	if err := validatePromo(promo); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, &promo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promo create failed")
	}
	return created, nil
}

// UpdatePromo validates and saves changes to an existing rule.
func (s *service) UpdatePromo(ctx context.Context, promo models.PromoCode) (*models.PromoCode, error) {
	if promo.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo id is required")
	}
	if err := validatePromo(promo); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, &promo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promo update failed")
	}
	return updated, nil
}

// ListPromos returns every rule for the admin surface.
func (s *service) ListPromos(ctx context.Context) ([]models.PromoCode, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promo list failed")
	}
	return rows, nil
}

// DeactivatePromo turns a rule off while keeping redemption history.
func (s *service) DeactivatePromo(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "promo id is required")
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promo deactivate failed")
	}
	return nil
}

func validatePromo(promo models.PromoCode) error {
	if strings.TrimSpace(promo.Code) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if !promo.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown promo type %q", promo.Type))
	}
	switch promo.Type {
	case enums.PromoTypePercentage:
		if promo.Value < 0 || promo.Value > 100 {
			return pkgerrors.New(pkgerrors.CodeValidation, "percentage value must be between 0 and 100")
		}
	case enums.PromoTypeFixedAmount, enums.PromoTypeFixedPriceItem:
		if promo.Value < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "promo value must not be negative")
		}
	}
	if promo.StartsAt != nil && promo.EndsAt != nil && promo.EndsAt.Before(*promo.StartsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "promo end date precedes start date")
	}
	return nil
}
