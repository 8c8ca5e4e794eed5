package users

import (
	"net/http"

	"videosaas-backend/internal/app/http/middleware"
	"videosaas-backend/internal/domain/settings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

type UserDTO struct {
	ID            uint    `json:"id"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	Avatar        *string `json:"avatar,omitempty"`
	TenantID      string  `json:"tenant_id"`
	AuthProvider  string  `json:"auth_provider"`
	EmailVerified bool    `json:"email_verified"`
}

// GET /me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	user := tc.User

	c.JSON(http.StatusOK, UserDTO{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Avatar:        user.Avatar,
		TenantID:      user.TenantID,
		AuthProvider:  user.AuthProvider,
		EmailVerified: user.EmailVerified,
	})
}

type SettingsDTO struct {
	Theme         string `json:"theme"`
	Language      string `json:"language"`
	Timezone      string `json:"timezone"`
	Notifications string `json:"notifications"`
}

// GET /settings
func (h *Handler) GetSettings(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var row settings.UserSettings
	err := tc.Scope(h.db.WithContext(c.Request.Context())).
		Where("user_id = ?", tc.User.ID).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		// Settings creation is best-effort at sign-up; recreate defaults
		// on first read if it was missed.
		row = settings.Defaults(tc.User.ID, tc.TenantID)
		if err := h.db.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	c.JSON(http.StatusOK, SettingsDTO{
		Theme:         row.Theme,
		Language:      row.Language,
		Timezone:      row.Timezone,
		Notifications: row.Notifications,
	})
}

// PUT /settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		Theme         *string `json:"theme"`
		Language      *string `json:"language"`
		Timezone      *string `json:"timezone"`
		Notifications *string `json:"notifications"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := map[string]interface{}{}
	if body.Theme != nil {
		switch *body.Theme {
		case settings.ThemeLight, settings.ThemeDark, settings.ThemeSystem:
			updates["theme"] = *body.Theme
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid theme"})
			return
		}
	}
	if body.Language != nil {
		updates["language"] = *body.Language
	}
	if body.Timezone != nil {
		updates["timezone"] = *body.Timezone
	}
	if body.Notifications != nil {
		updates["notifications"] = *body.Notifications
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := tc.Scope(h.db.WithContext(c.Request.Context())).
		Model(&settings.UserSettings{}).
		Where("user_id = ?", tc.User.ID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}
