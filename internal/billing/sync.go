package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// The provider session does not carry the billing-cycle length, so
// checkout completion books a fixed 30-day period; the first
// invoice.payment_succeeded corrects the period end.
const placeholderPeriod = 30 * 24 * time.Hour

// StoreError marks a persistence failure so the webhook boundary can
// answer 503 (store unreachable) instead of 500.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("subscription store: %v", e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// SubscriptionStore is the slice of persistence the synchronizer needs.
type SubscriptionStore interface {
	// Upsert creates the row for the Stripe subscription id or overwrites
	// an existing one with the given fields.
	Upsert(ctx context.Context, sub *Subscription) error
	// UpdateFields overwrites fields on the row for the Stripe
	// subscription id and reports how many rows matched. Zero rows is not
	// an error.
	UpdateFields(ctx context.Context, stripeSubscriptionID string, fields map[string]interface{}) (int64, error)
}

// Metrics is the optional outcome counter hook.
type Metrics interface {
	RecordWebhookEvent(outcome string)
}

// Webhook event outcomes reported to Metrics.
const (
	EventApplied = "applied"
	EventDropped = "dropped"
)

// Synchronizer applies billing events to local subscription rows.
// Transitions are last-write-wins field overwrites keyed by the Stripe
// subscription id, so applying the same event twice leaves the row
// unchanged and concurrent deliveries cannot interleave into a torn row.
type Synchronizer struct {
	store   SubscriptionStore
	now     func() time.Time
	metrics Metrics
}

func NewSynchronizer(store SubscriptionStore) *Synchronizer {
	return &Synchronizer{store: store, now: time.Now}
}

// WithMetrics attaches an outcome counter.
func (s *Synchronizer) WithMetrics(m Metrics) *Synchronizer {
	s.metrics = m
	return s
}

func (s *Synchronizer) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordWebhookEvent(outcome)
	}
}

// Apply performs the state transition for one event. Events referencing
// an unknown subscription id are logged and dropped: provider delivery is
// unordered and a status update may arrive before the checkout event that
// creates the row; redelivery converges once it lands.
func (s *Synchronizer) Apply(ctx context.Context, event Event) error {
	switch ev := event.(type) {
	case CheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, ev)
	case InvoicePaymentSucceeded:
		return s.overwrite(ctx, ev.StripeSubscriptionID, map[string]interface{}{
			"status":             StatusActive,
			"current_period_end": time.Unix(ev.PeriodEnd, 0),
		})
	case InvoicePaymentFailed:
		return s.overwrite(ctx, ev.StripeSubscriptionID, map[string]interface{}{
			"status": StatusPastDue,
		})
	case SubscriptionDeleted:
		return s.overwrite(ctx, ev.StripeSubscriptionID, map[string]interface{}{
			"status":      StatusCanceled,
			"canceled_at": s.now(),
		})
	default:
		return fmt.Errorf("unhandled billing event %T", event)
	}
}

func (s *Synchronizer) applyCheckoutCompleted(ctx context.Context, ev CheckoutCompleted) error {
	if ev.StripeSubscriptionID == "" {
		return errors.New("checkout completed without subscription id")
	}
	start := time.Unix(ev.PeriodStart, 0)
	sub := &Subscription{
		UserID:               ev.UserID,
		TenantID:             ev.TenantID,
		StripeSubscriptionID: ev.StripeSubscriptionID,
		StripeCustomerID:     ev.StripeCustomerID,
		Status:               StatusActive,
		CurrentPeriodStart:   start,
		CurrentPeriodEnd:     start.Add(placeholderPeriod),
	}
	if ev.StripePriceID != "" {
		price := ev.StripePriceID
		sub.StripePriceID = &price
	}

	if err := s.store.Upsert(ctx, sub); err != nil {
		return &StoreError{Err: err}
	}
	s.record(EventApplied)
	slog.Info("subscription activated",
		slog.String("stripe_subscription_id", ev.StripeSubscriptionID),
		slog.String("tenant_id", ev.TenantID),
	)
	return nil
}

func (s *Synchronizer) overwrite(ctx context.Context, stripeSubID string, fields map[string]interface{}) error {
	if stripeSubID == "" {
		return errors.New("billing event without subscription id")
	}
	matched, err := s.store.UpdateFields(ctx, stripeSubID, fields)
	if err != nil {
		return &StoreError{Err: err}
	}
	if matched == 0 {
		s.record(EventDropped)
		slog.Warn("billing event for unknown subscription dropped",
			slog.String("stripe_subscription_id", stripeSubID),
		)
		return nil
	}
	s.record(EventApplied)
	return nil
}
