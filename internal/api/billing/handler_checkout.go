package billing

import (
	"fmt"
	"net/http"

	"videosaas-backend/config"
	"videosaas-backend/internal/app/http/middleware"
	"videosaas-backend/internal/domain/plans"
	"videosaas-backend/internal/domain/users"
	infrastripe "videosaas-backend/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db      *gorm.DB
	cfg     *config.Config
	gateway *infrastripe.Gateway
}

func NewHandler(db *gorm.DB, cfg *config.Config, gateway *infrastripe.Gateway) *Handler {
	return &Handler{db: db, cfg: cfg, gateway: gateway}
}

// POST /checkout
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body struct {
		PriceID string `json:"price_id"`
		UserID  uint   `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PriceID == "" || body.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid price_id/user_id"})
		return
	}

	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	// The caller may only start a checkout for their own account.
	if tc.User.ID != body.UserID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	user := tc.User

	if !user.EmailVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Please verify your email first"})
		return
	}

	// allow-list price id
	var plan plans.Plan
	if err := h.db.Where("stripe_price_id = ? AND active = ?", body.PriceID, true).First(&plan).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan/price_id"})
		return
	}

	customerID, err := h.ensureStripeCustomer(c, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	session, err := h.gateway.CreateCheckoutSession(infrastripe.CheckoutParams{
		PriceID:    plan.StripePriceID,
		CustomerID: customerID,
		UserID:     fmt.Sprint(user.ID),
		TenantID:   user.TenantID,
		SuccessURL: h.cfg.AppURL + "/dashboard?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  h.cfg.AppURL + "/pricing",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": session.ID, "url": session.URL})
}

// POST /billing-portal
func (h *Handler) CreateBillingPortal(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	user := tc.User

	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No billing account yet (subscribe first)"})
		return
	}

	portal, err := h.gateway.CreatePortalSession(*user.StripeCustomerID, h.cfg.AppURL+"/dashboard")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create billing portal session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}

func (h *Handler) ensureStripeCustomer(c *gin.Context, user *users.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	cus, err := h.gateway.CreateCustomer(user.Email, map[string]string{
		"user_id":   fmt.Sprint(user.ID),
		"tenant_id": user.TenantID,
	})
	if err != nil {
		return "", err
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&users.User{}).
		Where("id = ?", user.ID).
		Update("stripe_customer_id", cus.ID).Error; err != nil {
		return "", err
	}

	user.StripeCustomerID = &cus.ID
	return cus.ID, nil
}
