package database

import (
	"fmt"

	"videosaas-backend/internal/domain/billing"
	"videosaas-backend/internal/domain/dashboard"
	"videosaas-backend/internal/domain/plans"
	"videosaas-backend/internal/domain/settings"
	"videosaas-backend/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres connection. TranslateError is required so
// unique-constraint violations surface as gorm.ErrDuplicatedKey, which the
// account reconciler relies on to resolve create races.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate auto-migrates all domain models.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&users.User{},
		&users.VerificationToken{},
		&settings.UserSettings{},
		&plans.Plan{},
		&billing.Subscription{},
		&dashboard.Metric{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
