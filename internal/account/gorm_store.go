package account

import (
	"context"
	"errors"

	"videosaas-backend/internal/domain/settings"
	"videosaas-backend/internal/domain/users"

	"gorm.io/gorm"
)

// GormUserStore implements UserStore on postgres.
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) FindByID(ctx context.Context, id uint) (*users.User, error) {
	var user users.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) Create(ctx context.Context, user *users.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailExists
	}
	return err
}

// LinkGoogle moves an EMAIL account to LINKED and records the subject id.
// Email and tenant id are left untouched; a linked Google account implies
// a verified address.
func (s *GormUserStore) LinkGoogle(ctx context.Context, userID uint, googleID string) error {
	return s.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"auth_provider":  users.ProviderLinked,
			"google_id":      googleID,
			"email_verified": true,
		}).Error
}

// GormSettingsStore implements SettingsStore on postgres.
type GormSettingsStore struct {
	db *gorm.DB
}

func NewGormSettingsStore(db *gorm.DB) *GormSettingsStore {
	return &GormSettingsStore{db: db}
}

func (s *GormSettingsStore) Create(ctx context.Context, row *settings.UserSettings) error {
	return s.db.WithContext(ctx).Create(row).Error
}
