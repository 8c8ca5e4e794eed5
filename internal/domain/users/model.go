package users

import "time"

// Auth provider tags. Linking is one-way: EMAIL or GOOGLE may become
// LINKED, never the reverse.
const (
	ProviderEmail  = "EMAIL"
	ProviderGoogle = "GOOGLE"
	ProviderLinked = "LINKED"
)

type User struct {
	ID     uint    `gorm:"primaryKey"`
	Email  string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Name   string  `gorm:"not null"`
	Avatar *string `gorm:""`

	// TenantID is generated once at creation and never changes.
	TenantID string `gorm:"not null;index:idx_users_tenant_id"`

	Password      *string `gorm:""`
	AuthProvider  string  `gorm:"type:varchar(20);not null;default:'EMAIL'"`
	GoogleID      *string `gorm:"uniqueIndex:idx_users_google_id"`
	EmailVerified bool

	StripeCustomerID *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
