package middleware

import (
	"context"
	"net/http"
	"time"

	"videosaas-backend/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

// SubscriptionLookup loads the current subscription for a user. Returns
// (nil, nil) when the user has none.
type SubscriptionLookup interface {
	FindByUserID(ctx context.Context, userID uint) (*billing.Subscription, error)
}

// RequireActiveSubscription gates paid features. Must run after
// AuthMiddleware.
func RequireActiveSubscription(subs SubscriptionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		sub, err := subs.FindByUserID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable"})
			return
		}
		if sub == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Subscription required"})
			return
		}
		if !sub.IsActive(time.Now()) {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "Your subscription has expired"})
			return
		}

		c.Next()
	}
}
