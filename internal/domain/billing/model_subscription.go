package billing

import "time"

// Subscription status values, mirroring the payment provider's lifecycle.
const (
	StatusActive     = "ACTIVE"
	StatusPastDue    = "PAST_DUE"
	StatusCanceled   = "CANCELED"
	StatusIncomplete = "INCOMPLETE"
	StatusTrialing   = "TRIALING"
)

// Subscription is a local projection of the provider's subscription.
// The provider is the source of truth: rows are keyed by
// StripeSubscriptionID and mutated in place, never deleted (cancellation
// is a status).
type Subscription struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_subscriptions_user_id"`
	TenantID string `gorm:"not null;index:idx_subscriptions_tenant_id"`

	StripeSubscriptionID string  `gorm:"not null;uniqueIndex:idx_subscriptions_stripe_subscription_id"`
	StripeCustomerID     string  `gorm:"not null"`
	StripePriceID        *string `gorm:""`

	Status             string `gorm:"type:varchar(20);not null"`
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
	CanceledAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the subscription currently grants access.
func (s *Subscription) IsActive(now time.Time) bool {
	if s.Status != StatusActive && s.Status != StatusTrialing {
		return false
	}
	return now.Before(s.CurrentPeriodEnd)
}
