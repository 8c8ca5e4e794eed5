package billing

import domain "videosaas-backend/internal/domain/billing"

// The synchronizer and its store operate on the domain model directly;
// the aliases keep call sites in this package unqualified.
type Subscription = domain.Subscription

const (
	StatusActive     = domain.StatusActive
	StatusPastDue    = domain.StatusPastDue
	StatusCanceled   = domain.StatusCanceled
	StatusIncomplete = domain.StatusIncomplete
	StatusTrialing   = domain.StatusTrialing
)
