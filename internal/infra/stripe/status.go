package stripe

import (
	"videosaas-backend/internal/domain/billing"

	stripego "github.com/stripe/stripe-go/v75"
)

// MapStatus converts a provider subscription status to the local status
// enum. Unpaid collapses into past due and incomplete_expired into
// canceled; anything unrecognized is treated as incomplete.
func MapStatus(s stripego.SubscriptionStatus) string {
	switch s {
	case stripego.SubscriptionStatusActive:
		return billing.StatusActive
	case stripego.SubscriptionStatusTrialing:
		return billing.StatusTrialing
	case stripego.SubscriptionStatusPastDue, stripego.SubscriptionStatusUnpaid:
		return billing.StatusPastDue
	case stripego.SubscriptionStatusCanceled, stripego.SubscriptionStatusIncompleteExpired:
		return billing.StatusCanceled
	default:
		return billing.StatusIncomplete
	}
}
