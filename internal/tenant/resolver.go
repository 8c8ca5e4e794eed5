package tenant

import (
	"context"
	"errors"
	"fmt"

	"videosaas-backend/internal/domain/users"

	"gorm.io/gorm"
)

// ErrNoTenant means no tenant context could be derived for the caller.
var ErrNoTenant = errors.New("no tenant context")

// Context is the active tenant for a request. TenantID always comes from
// the authenticated user's row, never from client input, so a crafted
// filter cannot widen a query to another tenant.
type Context struct {
	TenantID string
	User     *users.User
}

// Scope narrows a query to the tenant's rows. Every read or write of
// tenant-scoped tables (subscriptions, user_settings, dashboard metrics)
// goes through this.
func (tc *Context) Scope(db *gorm.DB) *gorm.DB {
	return db.Where("tenant_id = ?", tc.TenantID)
}

// UserLoader loads the authenticated user's row. Returns (nil, nil) when
// the id does not resolve.
type UserLoader interface {
	FindByID(ctx context.Context, id uint) (*users.User, error)
}

// Resolver derives the active tenant from the session's user id.
type Resolver struct {
	users UserLoader
}

func NewResolver(users UserLoader) *Resolver {
	return &Resolver{users: users}
}

func (r *Resolver) Resolve(ctx context.Context, userID uint) (*Context, error) {
	if userID == 0 {
		return nil, ErrNoTenant
	}
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant: %w", err)
	}
	if user == nil || user.TenantID == "" {
		return nil, ErrNoTenant
	}
	return &Context{TenantID: user.TenantID, User: user}, nil
}
