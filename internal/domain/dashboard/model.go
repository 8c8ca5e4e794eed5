package dashboard

import "time"

// Metric is a per-day usage snapshot shown on the dashboard.
type Metric struct {
	ID       uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"not null;index:idx_dashboard_metrics_user_date,priority:1"`
	TenantID string    `gorm:"not null;index:idx_dashboard_metrics_tenant_id"`
	Date     time.Time `gorm:"column:metric_date;not null;index:idx_dashboard_metrics_user_date,priority:2"`

	TotalUsers          int
	ActiveUsers         int
	SubscriptionRevenue int64
	ConversionRate      float64
	ChurnRate           float64

	CreatedAt time.Time
}
