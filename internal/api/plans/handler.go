package plans

import (
	"net/http"

	"videosaas-backend/internal/domain/plans"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

type PlanDTO struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	StripePriceID string `json:"stripePriceId"`
	PriceCents    int64  `json:"priceCents"`
	Currency      string `json:"currency"`
	Interval      string `json:"interval"`
}

// GET /plans
//
// The catalog is public: the pricing page renders before sign-in.
func (h *Handler) ListPlans(c *gin.Context) {
	var rows []plans.Plan
	if err := h.db.Where("active = ?", true).Order("price_cents ASC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}

	out := make([]PlanDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, PlanDTO{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			StripePriceID: p.StripePriceID,
			PriceCents:    p.PriceCents,
			Currency:      p.Currency,
			Interval:      p.Interval,
		})
	}
	c.JSON(http.StatusOK, out)
}
