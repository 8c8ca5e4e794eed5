package settings

import "time"

const (
	ThemeLight  = "LIGHT"
	ThemeDark   = "DARK"
	ThemeSystem = "SYSTEM"
)

// UserSettings is 1:1 with a user. Created with defaults right after the
// user row; mutated only by the owning user.
type UserSettings struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_user_settings_user_id"`
	TenantID string `gorm:"not null;index:idx_user_settings_tenant_id"`

	Theme    string `gorm:"type:varchar(10);not null;default:'SYSTEM'"`
	Language string `gorm:"type:varchar(10);not null;default:'en'"`
	Timezone string `gorm:"type:varchar(64);not null;default:'UTC'"`

	// Notifications is an opaque JSON blob owned by the dashboard UI.
	Notifications string `gorm:"type:jsonb;not null;default:'{}'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Defaults returns a fresh settings row for a new user.
func Defaults(userID uint, tenantID string) UserSettings {
	return UserSettings{
		UserID:        userID,
		TenantID:      tenantID,
		Theme:         ThemeSystem,
		Language:      "en",
		Timezone:      "UTC",
		Notifications: "{}",
	}
}
