package routes

import (
	authapi "videosaas-backend/internal/api/auth"
	billingapi "videosaas-backend/internal/api/billing"
	dashboardapi "videosaas-backend/internal/api/dashboard"
	plansapi "videosaas-backend/internal/api/plans"
	stripewebhooks "videosaas-backend/internal/api/stripewebhook"
	usersapi "videosaas-backend/internal/api/users"
	"videosaas-backend/internal/app/http/middleware"
	"videosaas-backend/internal/metrics"
	"videosaas-backend/internal/tenant"

	"github.com/gin-gonic/gin"
)

// Deps carries every handler and middleware dependency the router
// needs. Wiring happens once in main; nothing here reads globals.
type Deps struct {
	JWTSecret string

	Auth      *authapi.Handler
	Users     *usersapi.Handler
	Billing   *billingapi.Handler
	Plans     *plansapi.Handler
	Dashboard *dashboardapi.Handler
	Webhook   *stripewebhooks.Handler

	Resolver      *tenant.Resolver
	Subscriptions middleware.SubscriptionLookup
	RateLimiter   *middleware.RateLimiter
	Metrics       *metrics.Collector
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", d.Metrics.Handler())
	}

	// The webhook body must reach the signature check untouched, so it
	// stays outside the sanitizing group.
	r.POST("/webhook", d.Webhook.HandleWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeInputMiddleware())
	if d.RateLimiter != nil {
		public.Use(d.RateLimiter.Middleware())
	}

	public.POST("/register", d.Auth.Register)
	public.POST("/login", d.Auth.Login)
	public.GET("/verify", d.Auth.VerifyEmail)
	public.POST("/resend-verification", d.Auth.ResendVerification)
	public.POST("/request-password-reset", d.Auth.RequestPasswordReset)
	public.POST("/reset-password", d.Auth.ResetPassword)

	public.GET("/auth/google", d.Auth.GoogleStart)
	public.GET("/auth/google/callback", d.Auth.GoogleCallback)

	public.GET("/plans", d.Plans.ListPlans)

	// Authenticated; every handler past this point sees a resolved
	// tenant context, never a client-supplied tenant id.
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.JWTSecret), middleware.TenantMiddleware(d.Resolver))

	auth.GET("/me", d.Users.GetCurrentUser)
	auth.GET("/settings", d.Users.GetSettings)
	auth.PUT("/settings", d.Users.UpdateSettings)
	auth.POST("/change-password", d.Auth.ChangePassword)

	auth.GET("/subscription", d.Billing.GetSubscription)
	auth.POST("/create-checkout-session", d.Billing.CreateCheckoutSession)
	auth.POST("/billing-portal", d.Billing.CreateBillingPortal)
	auth.POST("/cancel-subscription", d.Billing.CancelSubscription)

	// Subscribed users
	subscribed := auth.Group("/")
	subscribed.Use(middleware.RequireActiveSubscription(d.Subscriptions))
	subscribed.GET("/dashboard/metrics", d.Dashboard.GetMetrics)
}
