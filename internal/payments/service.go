// Package payments connects the order lifecycle to the card-payment
// provider: intent creation on checkout and webhook events back into order
// completion or retryable failure.
package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
)

// freeOrderIntentID marks orders settled without the payment provider: a
// promo brought the total to zero, so there is nothing to charge.
const freeOrderIntentID = "free_order"

// CheckoutIntent is what the client needs to confirm a card payment. A zero
// total settles immediately; Settled is true and ClientSecret empty.
type CheckoutIntent struct {
	OrderID      uuid.UUID `json:"order_id"`
	IntentID     string    `json:"intent_id,omitempty"`
	ClientSecret string    `json:"client_secret,omitempty"`
	AmountCents  int       `json:"amount_cents"`
	Settled      bool      `json:"settled"`
}

type intentCreator interface {
	CreateIntent(ctx context.Context, orderID string, amountCents int64) (string, string, error)
	SigningSecret() string
}

type orderFlow interface {
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	SetPaymentIntent(ctx context.Context, orderID uuid.UUID, intentID string) error
	Complete(ctx context.Context, orderID uuid.UUID, paymentIntentID string) (*models.Order, error)
	FailPayment(ctx context.Context, paymentIntentID string) error
	FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error)
}

// Service drives the payment leg of checkout.
type Service interface {
	CreateIntent(ctx context.Context, userID, orderID uuid.UUID) (CheckoutIntent, error)
	ProcessWebhook(ctx context.Context, payload []byte, signatureHeader string) error
	HandleEvent(ctx context.Context, event stripe.Event) error
}

type service struct {
	provider intentCreator
	orders   orderFlow
	logg     *logger.Logger
}

// NewService wires the payment service.
func NewService(provider intentCreator, orderSvc orderFlow, logg *logger.Logger) (Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("payment provider required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	return &service{provider: provider, orders: orderSvc, logg: logg}, nil
}

// CreateIntent opens a payment intent for a submitted order using its frozen
// price snapshot. Orders discounted to zero are completed on the spot.
func (s *service) CreateIntent(ctx context.Context, userID, orderID uuid.UUID) (CheckoutIntent, error) {
	order, err := s.orders.Get(ctx, userID, orderID)
	if err != nil {
		return CheckoutIntent{}, err
	}
	if order.Status != enums.OrderStatusPendingPayment {
		return CheckoutIntent{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s, not awaiting payment", order.Status))
	}
	if order.Breakdown == nil {
		return CheckoutIntent{}, pkgerrors.New(pkgerrors.CodeInternal, "order has no price snapshot")
	}

	amount := order.Breakdown.TotalCents
	if amount == 0 {
		if _, err := s.orders.Complete(ctx, order.ID, freeOrderIntentID); err != nil {
			return CheckoutIntent{}, err
		}
		return CheckoutIntent{OrderID: order.ID, AmountCents: 0, Settled: true}, nil
	}

	intentID, clientSecret, err := s.provider.CreateIntent(ctx, order.ID.String(), int64(amount))
	if err != nil {
		return CheckoutIntent{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment intent creation failed")
	}
	if err := s.orders.SetPaymentIntent(ctx, order.ID, intentID); err != nil {
		return CheckoutIntent{}, err
	}
	return CheckoutIntent{
		OrderID:      order.ID,
		IntentID:     intentID,
		ClientSecret: clientSecret,
		AmountCents:  amount,
	}, nil
}

// ProcessWebhook verifies the provider's signature and dispatches the event.
func (s *service) ProcessWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := webhook.ConstructEvent(payload, signatureHeader, s.provider.SigningSecret())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "webhook signature verification failed")
	}
	return s.HandleEvent(ctx, event)
}

// HandleEvent maps provider events onto order transitions. Unrecognized
// event types are acknowledged and dropped.
func (s *service) HandleEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "payment_intent.succeeded":
		intent, err := parseIntent(event)
		if err != nil {
			return err
		}
		return s.handleSucceeded(ctx, intent)
	case "payment_intent.payment_failed":
		intent, err := parseIntent(event)
		if err != nil {
			return err
		}
		return s.orders.FailPayment(ctx, intent.ID)
	default:
		if s.logg != nil {
			ctx = s.logg.WithField(ctx, "event_type", string(event.Type))
			s.logg.Info(ctx, "ignoring payment event")
		}
		return nil
	}
}

func (s *service) handleSucceeded(ctx context.Context, intent stripe.PaymentIntent) error {
	orderID, err := orderIDFrom(intent)
	if err != nil {
		// Fall back to the stored intent reference for intents created
		// before metadata was attached.
		order, lookupErr := s.orders.FindByPaymentIntent(ctx, intent.ID)
		if lookupErr != nil {
			return err
		}
		orderID = order.ID
	}
	_, err = s.orders.Complete(ctx, orderID, intent.ID)
	return err
}

func parseIntent(event stripe.Event) (stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return stripe.PaymentIntent{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed payment event")
	}
	return intent, nil
}

func orderIDFrom(intent stripe.PaymentIntent) (uuid.UUID, error) {
	raw, ok := intent.Metadata["order_id"]
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent carries no order reference")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad order reference on payment intent")
	}
	return orderID, nil
}
