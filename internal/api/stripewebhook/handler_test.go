package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"videosaas-backend/internal/billing"

	"github.com/gin-gonic/gin"
	stripego "github.com/stripe/stripe-go/v75"
)

type fakeVerifier struct {
	event stripego.Event
	err   error
}

func (f *fakeVerifier) ConstructWebhookEvent(payload []byte, signature string) (stripego.Event, error) {
	return f.event, f.err
}

type fakeSynchronizer struct {
	applied []billing.Event
	err     error
}

func (f *fakeSynchronizer) Apply(_ context.Context, event billing.Event) error {
	f.applied = append(f.applied, event)
	return f.err
}

func event(t *testing.T, eventType string, payload any) stripego.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return stripego.Event{
		Type: stripego.EventType(eventType),
		Data: &stripego.EventData{Raw: raw},
	}
}

func serve(h *Handler, signature string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{}"))
	if signature != "" {
		c.Request.Header.Set("Stripe-Signature", signature)
	}
	h.HandleWebhook(c)
	return w
}

func TestHandleWebhook_CheckoutCompleted(t *testing.T) {
	verifier := &fakeVerifier{event: event(t, "checkout.session.completed", map[string]any{
		"id":                  "cs_123",
		"created":             1700000000,
		"client_reference_id": "7",
		"subscription":        "sub_123",
		"customer":            "cus_123",
		"metadata": map[string]string{
			"user_id":   "7",
			"tenant_id": "b2f2c0e4-9f6a-4f8e-9f0f-0b1a2c3d4e5f",
			"price_id":  "price_basic",
		},
	})}
	sync := &fakeSynchronizer{}
	h := NewHandler(verifier, sync)

	w := serve(h, "t=1,v1=abc")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"received":true`) {
		t.Fatalf("body = %s, want received ack", w.Body.String())
	}
	if len(sync.applied) != 1 {
		t.Fatalf("applied %d events, want 1", len(sync.applied))
	}
	got, ok := sync.applied[0].(billing.CheckoutCompleted)
	if !ok {
		t.Fatalf("applied event type = %T", sync.applied[0])
	}
	want := billing.CheckoutCompleted{
		UserID:               7,
		TenantID:             "b2f2c0e4-9f6a-4f8e-9f0f-0b1a2c3d4e5f",
		StripeSubscriptionID: "sub_123",
		StripeCustomerID:     "cus_123",
		StripePriceID:        "price_basic",
		PeriodStart:          1700000000,
	}
	if got != want {
		t.Fatalf("event = %+v, want %+v", got, want)
	}
}

func TestHandleWebhook_InvoiceEvents(t *testing.T) {
	invoice := map[string]any{
		"id":           "in_123",
		"subscription": "sub_123",
		"period_end":   1702600000,
	}

	t.Run("payment succeeded", func(t *testing.T) {
		sync := &fakeSynchronizer{}
		h := NewHandler(&fakeVerifier{event: event(t, "invoice.payment_succeeded", invoice)}, sync)

		if w := serve(h, "sig"); w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		got, ok := sync.applied[0].(billing.InvoicePaymentSucceeded)
		if !ok {
			t.Fatalf("applied event type = %T", sync.applied[0])
		}
		if got.StripeSubscriptionID != "sub_123" || got.PeriodEnd != 1702600000 {
			t.Fatalf("event = %+v", got)
		}
	})

	t.Run("payment failed", func(t *testing.T) {
		sync := &fakeSynchronizer{}
		h := NewHandler(&fakeVerifier{event: event(t, "invoice.payment_failed", invoice)}, sync)

		if w := serve(h, "sig"); w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if _, ok := sync.applied[0].(billing.InvoicePaymentFailed); !ok {
			t.Fatalf("applied event type = %T", sync.applied[0])
		}
	})

	t.Run("one-off invoice is acknowledged without sync", func(t *testing.T) {
		sync := &fakeSynchronizer{}
		h := NewHandler(&fakeVerifier{event: event(t, "invoice.payment_succeeded", map[string]any{
			"id": "in_oneoff",
		})}, sync)

		if w := serve(h, "sig"); w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if len(sync.applied) != 0 {
			t.Fatalf("applied %d events, want 0", len(sync.applied))
		}
	})
}

func TestHandleWebhook_SubscriptionDeleted(t *testing.T) {
	sync := &fakeSynchronizer{}
	h := NewHandler(&fakeVerifier{event: event(t, "customer.subscription.deleted", map[string]any{
		"id": "sub_123",
	})}, sync)

	if w := serve(h, "sig"); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	got, ok := sync.applied[0].(billing.SubscriptionDeleted)
	if !ok {
		t.Fatalf("applied event type = %T", sync.applied[0])
	}
	if got.StripeSubscriptionID != "sub_123" {
		t.Fatalf("subscription id = %q", got.StripeSubscriptionID)
	}
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	sync := &fakeSynchronizer{}
	h := NewHandler(&fakeVerifier{err: errors.New("no valid signature")}, sync)

	if w := serve(h, "t=1,v1=bad"); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(sync.applied) != 0 {
		t.Fatalf("applied %d events despite bad signature", len(sync.applied))
	}
}

func TestHandleWebhook_MissingSignature(t *testing.T) {
	h := NewHandler(&fakeVerifier{}, &fakeSynchronizer{})

	if w := serve(h, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleWebhook_UnknownTypeIsAcknowledged(t *testing.T) {
	sync := &fakeSynchronizer{}
	h := NewHandler(&fakeVerifier{event: event(t, "customer.updated", map[string]any{
		"id": "cus_123",
	})}, sync)

	w := serve(h, "sig")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"received":true`) {
		t.Fatalf("body = %s, want received ack", w.Body.String())
	}
	if len(sync.applied) != 0 {
		t.Fatalf("applied %d events for unknown type", len(sync.applied))
	}
}

func TestHandleWebhook_StoreErrorIs503(t *testing.T) {
	sync := &fakeSynchronizer{err: &billing.StoreError{Err: errors.New("connection refused")}}
	h := NewHandler(&fakeVerifier{event: event(t, "invoice.payment_failed", map[string]any{
		"id":           "in_123",
		"subscription": "sub_123",
	})}, sync)

	if w := serve(h, "sig"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestHandleWebhook_OtherApplyErrorIs500(t *testing.T) {
	sync := &fakeSynchronizer{err: errors.New("boom")}
	h := NewHandler(&fakeVerifier{event: event(t, "customer.subscription.deleted", map[string]any{
		"id": "sub_123",
	})}, sync)

	if w := serve(h, "sig"); w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestHandleWebhook_MissingTenantMetadataIsRejected(t *testing.T) {
	sync := &fakeSynchronizer{}
	h := NewHandler(&fakeVerifier{event: event(t, "checkout.session.completed", map[string]any{
		"id":           "cs_123",
		"subscription": "sub_123",
		"metadata":     map[string]string{"user_id": "7"},
	})}, sync)

	if w := serve(h, "sig"); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(sync.applied) != 0 {
		t.Fatalf("applied %d events for bad payload", len(sync.applied))
	}
}
