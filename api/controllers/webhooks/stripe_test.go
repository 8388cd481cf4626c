package webhooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/shorebytelabs/nailsbyabri-sub003/pkg/errors"
)

type stubWebhookService struct {
	processFn func(ctx context.Context, payload []byte, sigHeader string) error
}

func (s *stubWebhookService) ProcessWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	return s.processFn(ctx, payload, sigHeader)
}

func TestStripeWebhookForwardsPayloadAndSignature(t *testing.T) {
	var gotPayload, gotSig string
	svc := &stubWebhookService{
		processFn: func(ctx context.Context, payload []byte, sigHeader string) error {
			gotPayload = string(payload)
			gotSig = sigHeader
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(`{"type":"payment_intent.succeeded"}`))
	req.Header.Set("Stripe-Signature", "t=123,v1=abc")
	rec := httptest.NewRecorder()

	StripeWebhook(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if gotPayload != `{"type":"payment_intent.succeeded"}` {
		t.Fatalf("unexpected payload %q", gotPayload)
	}
	if gotSig != "t=123,v1=abc" {
		t.Fatalf("unexpected signature %q", gotSig)
	}
}

func TestStripeWebhookRejectsMissingSignature(t *testing.T) {
	svc := &stubWebhookService{
		processFn: func(ctx context.Context, payload []byte, sigHeader string) error {
			t.Fatal("process should not be called")
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	StripeWebhook(svc, nil)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestStripeWebhookSurfacesVerificationFailure(t *testing.T) {
	svc := &stubWebhookService{
		processFn: func(ctx context.Context, payload []byte, sigHeader string) error {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "signature verification failed")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=123,v1=bad")
	rec := httptest.NewRecorder()

	StripeWebhook(svc, nil)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
