package billing

// Event is a billing-provider notification mapped to a local transition.
// The Stripe subscription id is the natural idempotency key: every
// transition is a field overwrite keyed on it, so redelivery converges.
type Event interface {
	SubscriptionID() string
}

// CheckoutCompleted creates (or overwrites) the subscription row.
type CheckoutCompleted struct {
	UserID               uint
	TenantID             string
	StripeSubscriptionID string
	StripeCustomerID     string
	StripePriceID        string
	PeriodStart          int64 // epoch seconds
}

func (e CheckoutCompleted) SubscriptionID() string { return e.StripeSubscriptionID }

// InvoicePaymentSucceeded reactivates the subscription and extends the
// current period.
type InvoicePaymentSucceeded struct {
	StripeSubscriptionID string
	PeriodEnd            int64 // epoch seconds
}

func (e InvoicePaymentSucceeded) SubscriptionID() string { return e.StripeSubscriptionID }

// InvoicePaymentFailed marks the subscription past due.
type InvoicePaymentFailed struct {
	StripeSubscriptionID string
}

func (e InvoicePaymentFailed) SubscriptionID() string { return e.StripeSubscriptionID }

// SubscriptionDeleted marks the subscription canceled. The row stays.
type SubscriptionDeleted struct {
	StripeSubscriptionID string
}

func (e SubscriptionDeleted) SubscriptionID() string { return e.StripeSubscriptionID }
