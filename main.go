package main

import (
	"log/slog"
	"os"
	"time"

	"videosaas-backend/config"
	"videosaas-backend/database"
	"videosaas-backend/internal/account"
	authapi "videosaas-backend/internal/api/auth"
	billingapi "videosaas-backend/internal/api/billing"
	dashboardapi "videosaas-backend/internal/api/dashboard"
	plansapi "videosaas-backend/internal/api/plans"
	stripewebhooks "videosaas-backend/internal/api/stripewebhook"
	usersapi "videosaas-backend/internal/api/users"
	routes "videosaas-backend/internal/app/http"
	"videosaas-backend/internal/app/http/middleware"
	"videosaas-backend/internal/billing"
	infrastripe "videosaas-backend/internal/infra/stripe"
	"videosaas-backend/internal/metrics"
	"videosaas-backend/internal/tenant"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("database migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	gateway := infrastripe.NewGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	collector := metrics.NewCollector()

	userStore := account.NewGormUserStore(db)
	settingsStore := account.NewGormSettingsStore(db)
	normalize := account.ExactEmail
	if cfg.NormalizeEmails {
		normalize = account.FoldedEmail
	}
	reconciler := account.NewReconciler(userStore, settingsStore, normalize).WithMetrics(collector)

	subscriptionStore := billing.NewGormSubscriptionStore(db)
	synchronizer := billing.NewSynchronizer(subscriptionStore).WithMetrics(collector)

	resolver := tenant.NewResolver(userStore)

	mailer := &authapi.Mailer{
		From:     cfg.SMTPFrom,
		Password: cfg.SMTPPassword,
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		AppURL:   cfg.AppURL,
	}

	if cfg.SyncPlansOnStart {
		if err := plansapi.NewSyncer(db, gateway).Sync(); err != nil {
			// Catalog sync is retried on next boot; an empty plans table
			// only blocks checkout, not the rest of the API.
			slog.Warn("plan catalog sync failed", slog.String("error", err.Error()))
		}
	}

	rateLimiter := middleware.NewRateLimiter(60, 10)
	defer rateLimiter.Stop()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret: cfg.JWTSecret,

		Auth:      authapi.NewHandler(db, cfg, reconciler, mailer),
		Users:     usersapi.NewHandler(db),
		Billing:   billingapi.NewHandler(db, cfg, gateway),
		Plans:     plansapi.NewHandler(db),
		Dashboard: dashboardapi.NewHandler(db),
		Webhook:   stripewebhooks.NewHandler(gateway, synchronizer).WithMetrics(collector),

		Resolver:      resolver,
		Subscriptions: subscriptionStore,
		RateLimiter:   rateLimiter,
		Metrics:       collector,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
