package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shorebytelabs/nailsbyabri-sub003/internal/capacity"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/catalog"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/drafts"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/pricing"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/promos"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/uploads"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/types"
)

// Quote is a priced view of a draft: the breakdown plus whatever still
// blocks submission. Problems are state, not errors; the client uses them to
// disable the pay action.
type Quote struct {
	Breakdown types.PriceBreakdown `json:"breakdown"`
	Problems  []drafts.Problem     `json:"problems,omitempty"`
}

// Service owns the order lifecycle from first draft save to completion.
type Service interface {
	SaveDraft(ctx context.Context, userID uuid.UUID, draft drafts.Draft) (drafts.Draft, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	GetDraft(ctx context.Context, userID, orderID uuid.UUID) (drafts.Draft, error)
	QuoteDraft(ctx context.Context, userID uuid.UUID, draft drafts.Draft) (Quote, error)
	DuplicateSet(ctx context.Context, userID, orderID, setID uuid.UUID) (drafts.Draft, error)
	Submit(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)

	SetPaymentIntent(ctx context.Context, orderID uuid.UUID, intentID string) error
	Complete(ctx context.Context, orderID uuid.UUID, paymentIntentID string) (*models.Order, error)
	FailPayment(ctx context.Context, paymentIntentID string) error
	FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error)

	AdminList(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error)
	AdminSetProductionStatus(ctx context.Context, orderID uuid.UUID, status enums.ProductionStatus) (*models.Order, error)
}

type service struct {
	db        *gorm.DB
	repo      *Repository
	catalog   catalog.Service
	promos    promos.Service
	capacity  capacity.Service
	validator *uploads.Validator
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the order service. All dependencies are required.
func NewService(
	db *gorm.DB,
	repo *Repository,
	catalogSvc catalog.Service,
	promoSvc promos.Service,
	capacitySvc capacity.Service,
	validator *uploads.Validator,
	logg *logger.Logger,
) (Service, error) {
	switch {
	case db == nil:
		return nil, fmt.Errorf("db required")
	case repo == nil:
		return nil, fmt.Errorf("order repository required")
	case catalogSvc == nil:
		return nil, fmt.Errorf("catalog service required")
	case promoSvc == nil:
		return nil, fmt.Errorf("promo service required")
	case capacitySvc == nil:
		return nil, fmt.Errorf("capacity service required")
	case validator == nil:
		return nil, fmt.Errorf("upload validator required")
	}
	return &service{
		db:        db,
		repo:      repo,
		catalog:   catalogSvc,
		promos:    promoSvc,
		capacity:  capacitySvc,
		validator: validator,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// SaveDraft persists the composition state. The first save assigns the
// order its identity; later saves are accepted only while the order is
// still a draft and only when the incoming revision is not older than the
// stored one, so late results from an abandoned editing session cannot
// overwrite newer state.
func (s *service) SaveDraft(ctx context.Context, userID uuid.UUID, draft drafts.Draft) (drafts.Draft, error) {
	if userID == uuid.Nil {
		return drafts.Draft{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	draft.UserID = userID
	for _, set := range draft.NailSets {
		for _, upload := range set.Uploads {
			if err := s.validator.Validate(upload.FileName, upload.Data); err != nil {
				return drafts.Draft{}, err
			}
		}
	}

	if draft.ID == uuid.Nil {
		draft.Status = enums.OrderStatusDraft
		order := draftToModel(draft)
		created, err := s.repo.Create(ctx, &order)
		if err != nil {
			return drafts.Draft{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "draft save failed")
		}
		return modelToDraft(*created), nil
	}

	existing, err := s.repo.FindByIDAndUser(ctx, draft.ID, userID)
	if err != nil {
		return drafts.Draft{}, notFoundOr(err, "order not found")
	}
	if existing.Status != enums.OrderStatusDraft {
		return drafts.Draft{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s and can no longer be edited", existing.Status))
	}
	if draft.Revision < existing.Revision {
		return drafts.Draft{}, pkgerrors.New(pkgerrors.CodeStateConflict, "draft has changed since this edit began")
	}

	order := draftToModel(draft)
	order.CreatedAt = existing.CreatedAt
	order.PaymentStatus = existing.PaymentStatus
	sets := order.NailSets
	order.NailSets = nil
	if _, err := s.repo.Update(ctx, &order); err != nil {
		return drafts.Draft{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "draft save failed")
	}
	if err := s.repo.ReplaceNailSets(ctx, order.ID, sets); err != nil {
		return drafts.Draft{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "draft save failed")
	}

	saved, err := s.repo.FindByIDAndUser(ctx, order.ID, userID)
	if err != nil {
		return drafts.Draft{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "draft reload failed")
	}
	return modelToDraft(*saved), nil
}

// Get returns one of the user's orders.
func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		return nil, notFoundOr(err, "order not found")
	}
	return order, nil
}

// GetDraft returns one of the user's orders as the domain aggregate.
func (s *service) GetDraft(ctx context.Context, userID, orderID uuid.UUID) (drafts.Draft, error) {
	order, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return drafts.Draft{}, err
	}
	return modelToDraft(*order), nil
}

// DuplicateSet clones one of the draft's committed sets in place: fresh set
// and upload identities, a "(copy)" name, same follow-up state. The clone
// goes through the normal draft save, so the status and revision guards
// apply unchanged.
func (s *service) DuplicateSet(ctx context.Context, userID, orderID, setID uuid.UUID) (drafts.Draft, error) {
	draft, err := s.GetDraft(ctx, userID, orderID)
	if err != nil {
		return drafts.Draft{}, err
	}
	if draft.Status != enums.OrderStatusDraft {
		return drafts.Draft{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s and can no longer be edited", draft.Status))
	}
	if _, ok := draft.DuplicateSet(setID); !ok {
		return drafts.Draft{}, pkgerrors.New(pkgerrors.CodeNotFound, "nail set not found")
	}
	return s.SaveDraft(ctx, userID, draft)
}

// QuoteDraft prices the draft as composed right now. Unknown or ineligible
// promo codes surface as breakdown warnings, never as errors.
func (s *service) QuoteDraft(ctx context.Context, userID uuid.UUID, draft drafts.Draft) (Quote, error) {
	breakdown, err := s.price(ctx, userID, draft)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Breakdown: breakdown,
		Problems:  drafts.CheckReady(draft, s.catalog.Fulfillment()),
	}, nil
}

// price runs the pricing engine over a catalog snapshot, resolving the promo
// code against the pre-discount subtotal first.
func (s *service) price(ctx context.Context, userID uuid.UUID, draft drafts.Draft) (types.PriceBreakdown, error) {
	snap := s.catalog.Snapshot(ctx)

	var promoInput *pricing.PromoInput
	if draft.PromoCode != nil {
		base := pricing.CalculateBreakdown(pricingInput(draft, nil), snap)
		resolution, err := s.promos.Resolve(ctx, *draft.PromoCode, userID, base.SetsSubtotalCents)
		if err != nil {
			return types.PriceBreakdown{}, err
		}
		promoInput = &pricing.PromoInput{
			Code:     resolution.Code,
			Eligible: resolution.Eligible,
			Reason:   string(resolution.Reason),
			Type:     resolution.Type,
			Value:    resolution.Value,
		}
	}

	return pricing.CalculateBreakdown(pricingInput(draft, promoInput), snap), nil
}

// Submit moves a ready draft to pending_payment and freezes its price. The
// stored breakdown is the one the customer pays; later catalog changes never
// reprice a submitted order.
func (s *service) Submit(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		return nil, notFoundOr(err, "order not found")
	}
	if order.Status != enums.OrderStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is already %s", order.Status))
	}

	draft := modelToDraft(*order)
	if problems := drafts.CheckReady(draft, s.catalog.Fulfillment()); len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is not ready for payment").
			WithDetails(problems)
	}

	breakdown, err := s.price(ctx, userID, draft)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order.Breakdown = &breakdown
	order.Status = enums.OrderStatusPendingPayment
	order.SubmittedAt = &now
	order.Revision++
	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submit failed")
	}
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, updated.ID.String())
		s.logg.Info(ctx, "order submitted for payment")
	}
	return updated, nil
}

// SetPaymentIntent records the payment intent created for a submitted order
// and marks payment as in flight.
func (s *service) SetPaymentIntent(ctx context.Context, orderID uuid.UUID, intentID string) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return notFoundOr(err, "order not found")
	}
	if order.Status != enums.OrderStatusPendingPayment {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s, not awaiting payment", order.Status))
	}
	order.PaymentIntentID = &intentID
	order.PaymentStatus = enums.PaymentStatusPending
	if _, err := s.repo.Update(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment intent save failed")
	}
	return nil
}

// Complete finalizes a paid order: status, promo redemption, and capacity
// booking all commit in one transaction. Re-delivered payment events are
// absorbed: completing an already-completed order with the same intent is a
// no-op.
func (s *service) Complete(ctx context.Context, orderID uuid.UUID, paymentIntentID string) (*models.Order, error) {
	var completed *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return notFoundOr(err, "order not found")
		}
		if order.Status == enums.OrderStatusCompleted &&
			order.PaymentIntentID != nil && *order.PaymentIntentID == paymentIntentID {
			completed = order
			return nil
		}
		if order.Status != enums.OrderStatusPendingPayment {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order is %s and cannot be completed", order.Status))
		}
		if order.Breakdown == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "order has no price snapshot")
		}

		now := s.now().UTC()
		targetWeek := capacity.TargetWeekFor(now, order.Breakdown.EstimatedCompletionDays)
		queued := enums.ProductionStatusQueued

		order.Status = enums.OrderStatusCompleted
		order.ProductionStatus = &queued
		order.PaymentStatus = enums.PaymentStatusPaid
		order.PaymentIntentID = &paymentIntentID
		order.CompletedAt = &now
		order.TargetWeekStart = &targetWeek
		order.Revision++
		if _, err := repo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order completion failed")
		}

		if order.PromoCode != nil && order.Breakdown.DiscountCents > 0 {
			if err := s.promos.Redeem(ctx, tx, *order.PromoCode, order.UserID, order.ID); err != nil {
				return err
			}
		}

		draft := modelToDraft(*order)
		if err := s.capacity.Book(ctx, tx, targetWeek, totalSets(draft)); err != nil {
			return err
		}

		completed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, completed.ID.String())
		s.logg.Info(ctx, "order completed")
	}
	return completed, nil
}

// FailPayment marks the payment attempt failed. The order stays in
// pending_payment so the customer can retry without recomposing anything.
func (s *service) FailPayment(ctx context.Context, paymentIntentID string) error {
	order, err := s.repo.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return notFoundOr(err, "no order for payment intent")
	}
	if order.Status != enums.OrderStatusPendingPayment {
		// A failure event racing a success for the same intent loses.
		return nil
	}
	order.PaymentStatus = enums.PaymentStatusFailed
	if _, err := s.repo.Update(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment failure save failed")
	}
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, order.ID.String())
		s.logg.Warn(ctx, "payment attempt failed, order awaiting retry")
	}
	return nil
}

// FindByPaymentIntent resolves the order a payment event belongs to.
func (s *service) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	order, err := s.repo.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return nil, notFoundOr(err, "no order for payment intent")
	}
	return order, nil
}

// Cancel discards an order. Allowed from any state before completion.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		return nil, notFoundOr(err, "order not found")
	}
	if !drafts.CanTransition(order.Status, enums.OrderStatusCancelled) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s and cannot be cancelled", order.Status))
	}
	now := s.now().UTC()
	order.Status = enums.OrderStatusCancelled
	order.CancelledAt = &now
	order.Revision++
	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order cancel failed")
	}
	return updated, nil
}

// ListForUser returns the user's order history.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order list failed")
	}
	return rows, nil
}

// AdminList returns all orders, optionally filtered by status.
func (s *service) AdminList(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error) {
	rows, err := s.repo.ListAll(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order list failed")
	}
	return rows, nil
}

// AdminSetProductionStatus updates where a completed order sits in the
// studio's production flow.
func (s *service) AdminSetProductionStatus(ctx context.Context, orderID uuid.UUID, status enums.ProductionStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown production status %q", status))
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "order not found")
	}
	if order.Status != enums.OrderStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only completed orders move through production")
	}
	order.ProductionStatus = &status
	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "production status save failed")
	}
	return updated, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
