package plans

type Plan struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"not null"`
	Description   string
	StripePriceID string `gorm:"column:stripe_price_id;not null;uniqueIndex:idx_plans_stripe_price_id"`
	PriceCents    int64  `gorm:"not null"`
	Currency      string `gorm:"type:varchar(3);not null;default:'USD'"`
	Interval      string `gorm:"type:varchar(10)"` // month | year
	Active        bool   `gorm:"not null;default:true"`
}
