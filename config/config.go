package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every setting the server needs, read once at startup.
// Required values missing at load time abort the process; nothing is
// re-read per request.
type Config struct {
	Port   string
	DBURL  string
	AppURL string

	JWTSecret string

	GoogleClientID         string
	GoogleClientSecret     string
	GoogleRedirectURL      string
	GoogleFrontendRedirect string

	StripeSecretKey     string
	StripeWebhookSecret string

	SMTPFrom     string
	SMTPPassword string
	SMTPHost     string
	SMTPPort     string

	CORSOrigin string

	// NormalizeEmails lowercases emails before account reconciliation.
	// Off by default: the existing schema matches emails case-sensitively.
	NormalizeEmails bool

	// SyncPlansOnStart pulls the plan catalog from Stripe prices at boot.
	SyncPlansOnStart bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment variables")
	}

	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		AppURL: getEnv("APP_URL", "http://localhost:3000"),

		GoogleFrontendRedirect: getEnv("GOOGLE_FRONTEND_REDIRECT", ""),

		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),

		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		NormalizeEmails:  getBoolEnv("EMAIL_NORMALIZE", false),
		SyncPlansOnStart: getBoolEnv("SYNC_PLANS_ON_START", true),
	}

	for _, req := range []struct {
		key string
		dst *string
	}{
		{"DB_URL", &cfg.DBURL},
		{"JWT_SECRET", &cfg.JWTSecret},
		{"STRIPE_SECRET_KEY", &cfg.StripeSecretKey},
		{"STRIPE_WEBHOOK_SECRET", &cfg.StripeWebhookSecret},
		{"GOOGLE_CLIENT_ID", &cfg.GoogleClientID},
		{"GOOGLE_CLIENT_SECRET", &cfg.GoogleClientSecret},
		{"GOOGLE_REDIRECT_URL", &cfg.GoogleRedirectURL},
	} {
		v, ok := os.LookupEnv(req.key)
		if !ok || v == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", req.key)
		}
		*req.dst = v
	}

	return cfg, nil
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
