package billing

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubscriptionStore implements SubscriptionStore on postgres.
type GormSubscriptionStore struct {
	db *gorm.DB
}

func NewGormSubscriptionStore(db *gorm.DB) *GormSubscriptionStore {
	return &GormSubscriptionStore{db: db}
}

func (s *GormSubscriptionStore) Upsert(ctx context.Context, sub *Subscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"tenant_id",
			"stripe_customer_id",
			"stripe_price_id",
			"status",
			"current_period_start",
			"current_period_end",
			"updated_at",
		}),
	}).Create(sub).Error
}

func (s *GormSubscriptionStore) UpdateFields(ctx context.Context, stripeSubscriptionID string, fields map[string]interface{}) (int64, error) {
	res := s.db.WithContext(ctx).Model(&Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (s *GormSubscriptionStore) FindByStripeID(ctx context.Context, stripeSubscriptionID string) (*Subscription, error) {
	var sub Subscription
	err := s.db.WithContext(ctx).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindByUserID returns the user's current subscription, or (nil, nil).
func (s *GormSubscriptionStore) FindByUserID(ctx context.Context, userID uint) (*Subscription, error) {
	var sub Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
