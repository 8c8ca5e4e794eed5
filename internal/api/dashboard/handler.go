package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"videosaas-backend/internal/app/http/middleware"
	"videosaas-backend/internal/domain/dashboard"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const defaultRangeDays = 30

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

type MetricDTO struct {
	Date                string  `json:"date"`
	TotalUsers          int     `json:"totalUsers"`
	ActiveUsers         int     `json:"activeUsers"`
	SubscriptionRevenue int64   `json:"subscriptionRevenue"`
	ConversionRate      float64 `json:"conversionRate"`
	ChurnRate           float64 `json:"churnRate"`
}

// GET /dashboard/metrics?days=N
//
// Rows are scoped to the caller's tenant and user, ordered oldest first
// so the chart renders left to right.
func (h *Handler) GetMetrics(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	days := defaultRangeDays
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
			return
		}
		days = n
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	var rows []dashboard.Metric
	err := tc.Scope(h.db).
		Where("user_id = ? AND metric_date >= ?", tc.User.ID, since).
		Order("metric_date ASC").
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load metrics"})
		return
	}

	out := make([]MetricDTO, 0, len(rows))
	for _, m := range rows {
		out = append(out, MetricDTO{
			Date:                m.Date.Format("2006-01-02"),
			TotalUsers:          m.TotalUsers,
			ActiveUsers:         m.ActiveUsers,
			SubscriptionRevenue: m.SubscriptionRevenue,
			ConversionRate:      m.ConversionRate,
			ChurnRate:           m.ChurnRate,
		})
	}
	c.JSON(http.StatusOK, gin.H{"metrics": out})
}
