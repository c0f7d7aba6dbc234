package stock

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/apotheca/apotheca/internal/catalog"
)

const (
	// LeadTimeDays is the assumed supplier lead time.
	LeadTimeDays = 7
	// DefaultMonthlyVelocity is assumed when no sales history is supplied.
	DefaultMonthlyVelocity = 30.0
)

// SalesHistory carries observed demand for a product. Zero value means no
// history is available and the default velocity assumption applies.
type SalesHistory struct {
	MonthlyVelocity float64
}

// Recommendation is the reorder advice for a single product.
type Recommendation struct {
	ReorderPoint        int             `json:"reorder_point"`
	RecommendedQuantity int             `json:"recommended_quantity"`
	Urgency             Tier            `json:"urgency"`
	EstimatedCost       decimal.Decimal `json:"estimated_cost"`
	DaysUntilStockout   int             `json:"days_until_stockout"`
}

// Recommend derives reorder advice from the current stock level and optional
// sales velocity. Pure given its inputs.
func Recommend(p catalog.Product, history *SalesHistory) Recommendation {
	velocity := DefaultMonthlyVelocity
	if history != nil && history.MonthlyVelocity > 0 {
		velocity = history.MonthlyVelocity
	}
	daily := velocity / 30.0
	safety := DefaultThresholds.Low

	reorderPoint := int(math.Ceil(daily*LeadTimeDays + float64(safety)))

	current := EffectiveStock(p)
	qty := reorderPoint - current
	if qty < safety {
		qty = safety
	}

	daysUntilStockout := 0
	if daily > 0 {
		daysUntilStockout = int(math.Floor(float64(current) / daily))
	}

	cost := decimal.Zero
	if p.CostPrice.IsPositive() {
		cost = p.CostPrice.Mul(decimal.NewFromInt(int64(qty)))
	}

	return Recommendation{
		ReorderPoint:        reorderPoint,
		RecommendedQuantity: qty,
		Urgency:             StatusFor(p).Tier,
		EstimatedCost:       cost,
		DaysUntilStockout:   daysUntilStockout,
	}
}
