package plans

import (
	"log/slog"

	"videosaas-backend/internal/domain/plans"

	stripego "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceLister fetches the billing provider's recurring price catalog.
type PriceLister interface {
	ListRecurringPrices() ([]*stripego.Price, error)
}

// Syncer mirrors the Stripe price catalog into the plans table so the
// checkout allow-list and the pricing page read local rows.
type Syncer struct {
	db     *gorm.DB
	prices PriceLister
}

func NewSyncer(db *gorm.DB, prices PriceLister) *Syncer {
	return &Syncer{db: db, prices: prices}
}

// Sync upserts one Plan row per active recurring price, keyed on the
// Stripe price id, and deactivates local rows whose price disappeared.
func (s *Syncer) Sync() error {
	prices, err := s.prices.ListRecurringPrices()
	if err != nil {
		return err
	}

	seen := make([]string, 0, len(prices))
	synced := 0
	skipped := 0

	for _, p := range prices {
		if !p.Active || p.Recurring == nil || p.Product == nil || !p.Product.Active {
			skipped++
			continue
		}
		if p.Metadata["visible"] == "false" {
			skipped++
			continue
		}

		name := p.Product.Name
		if v := p.Metadata["plan"]; v != "" {
			name = v
		}

		plan := plans.Plan{
			Name:          name,
			Description:   p.Product.Description,
			StripePriceID: p.ID,
			PriceCents:    p.UnitAmount,
			Currency:      string(p.Currency),
			Interval:      string(p.Recurring.Interval),
			Active:        true,
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stripe_price_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "price_cents", "currency", "interval", "active",
			}),
		}).Create(&plan).Error
		if err != nil {
			return err
		}

		seen = append(seen, p.ID)
		synced++
	}

	// Prices removed upstream stop being purchasable but keep their row
	// so existing subscriptions still resolve.
	if len(seen) > 0 {
		if err := s.db.Model(&plans.Plan{}).
			Where("stripe_price_id NOT IN ?", seen).
			Update("active", false).Error; err != nil {
			return err
		}
	}

	slog.Info("plan catalog synced",
		slog.Int("synced", synced),
		slog.Int("skipped", skipped),
	)
	return nil
}
