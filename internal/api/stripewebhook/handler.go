package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"videosaas-backend/internal/billing"
	"videosaas-backend/internal/metrics"

	"github.com/gin-gonic/gin"
	stripego "github.com/stripe/stripe-go/v75"
)

const maxBodyBytes = 65536

// EventVerifier checks the provider signature and decodes the event.
type EventVerifier interface {
	ConstructWebhookEvent(payload []byte, signature string) (stripego.Event, error)
}

// Synchronizer applies a billing event to local state.
type Synchronizer interface {
	Apply(ctx context.Context, event billing.Event) error
}

// Metrics is the optional boundary outcome counter.
type Metrics interface {
	RecordWebhookEvent(outcome string)
}

type Handler struct {
	verifier EventVerifier
	sync     Synchronizer
	metrics  Metrics
}

func NewHandler(verifier EventVerifier, sync Synchronizer) *Handler {
	return &Handler{verifier: verifier, sync: sync}
}

// WithMetrics attaches an outcome counter.
func (h *Handler) WithMetrics(m Metrics) *Handler {
	h.metrics = m
	return h
}

func (h *Handler) record(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordWebhookEvent(outcome)
	}
}

// POST /webhook
//
// Signature verification precedes everything; a bad signature is a 400
// with no state change. After verification, store unavailability is 503
// (the provider retries), anything else unexpected is 500.
func (h *Handler) HandleWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.record(metrics.EventRejected)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing stripe signature"})
		return
	}

	event, err := h.verifier.ConstructWebhookEvent(payload, signature)
	if err != nil {
		h.record(metrics.EventRejected)
		slog.Warn("webhook signature verification failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	billingEvent, err := mapEvent(event)
	if err != nil {
		h.record(metrics.EventRejected)
		slog.Warn("webhook payload rejected",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}
	if billingEvent == nil {
		// Unhandled event types are acknowledged so the provider stops
		// retrying them.
		h.record(metrics.EventIgnored)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.sync.Apply(c.Request.Context(), billingEvent); err != nil {
		var storeErr *billing.StoreError
		if errors.As(err, &storeErr) {
			slog.Error("webhook store unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable"})
			return
		}
		slog.Error("webhook handler failed",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// mapEvent translates a provider event into a synchronizer event.
// Returns (nil, nil) for event types this service does not consume.
func mapEvent(event stripego.Event) (billing.Event, error) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripego.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, errors.New("failed to parse checkout session")
		}
		return mapCheckoutCompleted(&session)

	case "invoice.payment_succeeded":
		var invoice stripego.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return nil, errors.New("failed to parse invoice")
		}
		if invoice.Subscription == nil || invoice.Subscription.ID == "" {
			// one-off invoice, nothing to sync
			return nil, nil
		}
		return billing.InvoicePaymentSucceeded{
			StripeSubscriptionID: invoice.Subscription.ID,
			PeriodEnd:            invoice.PeriodEnd,
		}, nil

	case "invoice.payment_failed":
		var invoice stripego.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return nil, errors.New("failed to parse invoice")
		}
		if invoice.Subscription == nil || invoice.Subscription.ID == "" {
			return nil, nil
		}
		return billing.InvoicePaymentFailed{
			StripeSubscriptionID: invoice.Subscription.ID,
		}, nil

	case "customer.subscription.deleted":
		var sub stripego.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, errors.New("failed to parse subscription")
		}
		if sub.ID == "" {
			return nil, errors.New("subscription missing id")
		}
		return billing.SubscriptionDeleted{StripeSubscriptionID: sub.ID}, nil

	default:
		return nil, nil
	}
}

func mapCheckoutCompleted(session *stripego.CheckoutSession) (billing.Event, error) {
	if session.Subscription == nil || session.Subscription.ID == "" {
		return nil, errors.New("checkout session missing subscription")
	}

	// user_id comes from the session metadata we attached at checkout
	// creation, with the client reference id as fallback.
	userIDStr := session.Metadata["user_id"]
	if userIDStr == "" {
		userIDStr = session.ClientReferenceID
	}
	if userIDStr == "" {
		return nil, errors.New("checkout session missing user_id")
	}
	userID, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		return nil, errors.New("checkout session has invalid user_id")
	}

	tenantID := session.Metadata["tenant_id"]
	if tenantID == "" {
		return nil, errors.New("checkout session missing tenant_id")
	}

	customerID := ""
	if session.Customer != nil {
		customerID = session.Customer.ID
	}

	return billing.CheckoutCompleted{
		UserID:               uint(userID),
		TenantID:             tenantID,
		StripeSubscriptionID: session.Subscription.ID,
		StripeCustomerID:     customerID,
		StripePriceID:        session.Metadata["price_id"],
		PeriodStart:          session.Created,
	}, nil
}
