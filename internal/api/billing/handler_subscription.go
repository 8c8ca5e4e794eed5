package billing

import (
	"net/http"
	"time"

	"videosaas-backend/internal/app/http/middleware"
	"videosaas-backend/internal/domain/billing"
	infrastripe "videosaas-backend/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SubscriptionDTO struct {
	Status             string     `json:"status"`
	StripePriceID      *string    `json:"stripe_price_id,omitempty"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
	CanceledAt         *time.Time `json:"canceled_at,omitempty"`
}

// GET /subscription
func (h *Handler) GetSubscription(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var sub billing.Subscription
	err := tc.Scope(h.db.WithContext(c.Request.Context())).
		Where("user_id = ?", tc.User.ID).
		First(&sub).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusOK, gin.H{"subscription": nil})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": SubscriptionDTO{
		Status:             sub.Status,
		StripePriceID:      sub.StripePriceID,
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
		CanceledAt:         sub.CanceledAt,
	}})
}

// POST /cancel-subscription
//
// Flags the provider subscription to lapse at the period end and mirrors
// the flag locally; the definitive CANCELED transition arrives later via
// the customer.subscription.deleted webhook.
func (h *Handler) CancelSubscription(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var sub billing.Subscription
	err := tc.Scope(h.db.WithContext(c.Request.Context())).
		Where("user_id = ?", tc.User.ID).
		First(&sub).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "No subscription to cancel"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}
	if sub.Status == billing.StatusCanceled {
		c.JSON(http.StatusOK, gin.H{"message": "Subscription already canceled"})
		return
	}

	updated, err := h.gateway.CancelAtPeriodEnd(sub.StripeSubscriptionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel subscription"})
		return
	}

	if err := tc.Scope(h.db.WithContext(c.Request.Context())).
		Model(&billing.Subscription{}).
		Where("stripe_subscription_id = ?", sub.StripeSubscriptionID).
		Updates(map[string]interface{}{
			"cancel_at_period_end": true,
			"status":               infrastripe.MapStatus(updated.Status),
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record cancellation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription will cancel at period end"})
}
