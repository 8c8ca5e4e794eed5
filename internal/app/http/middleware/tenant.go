package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"videosaas-backend/internal/tenant"

	"github.com/gin-gonic/gin"
)

const tenantContextKey = "tenant_context"

// TenantMiddleware resolves the active tenant from the authenticated
// user's row and stores it on the request. Must run after AuthMiddleware.
// Client-supplied tenant ids are never consulted.
func TenantMiddleware(resolver *tenant.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		tc, err := resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, tenant.ErrNoTenant) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			slog.Error("tenant resolution failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable"})
			return
		}

		c.Set(tenantContextKey, tc)
		c.Next()
	}
}

// TenantFrom returns the tenant context set by TenantMiddleware.
func TenantFrom(c *gin.Context) (*tenant.Context, bool) {
	v, ok := c.Get(tenantContextKey)
	if !ok {
		return nil, false
	}
	tc, ok := v.(*tenant.Context)
	return tc, ok
}
