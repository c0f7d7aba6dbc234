package stock

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/apotheca/apotheca/internal/catalog"
)

func TestRecommendDefaultVelocity(t *testing.T) {
	p := catalog.Product{TotalStock: intPtr(3), CostPrice: decimal.NewFromInt(250)}

	rec := Recommend(p, nil)

	// (30/30)*7 + 10 = 17
	require.Equal(t, 17, rec.ReorderPoint)
	require.Equal(t, 14, rec.RecommendedQuantity)
	require.Equal(t, TierCritical, rec.Urgency)
	require.True(t, rec.EstimatedCost.Equal(decimal.NewFromInt(3500)))
	require.Equal(t, 3, rec.DaysUntilStockout)
}

func TestRecommendWithHistory(t *testing.T) {
	p := catalog.Product{TotalStock: intPtr(40)}

	rec := Recommend(p, &SalesHistory{MonthlyVelocity: 90})

	// (90/30)*7 + 10 = 31; stock 40 covers it, so minimum order = safety stock.
	require.Equal(t, 31, rec.ReorderPoint)
	require.Equal(t, 10, rec.RecommendedQuantity)
	require.Equal(t, TierGood, rec.Urgency)
	require.Equal(t, 13, rec.DaysUntilStockout)
	require.True(t, rec.EstimatedCost.IsZero())
}

func TestRecommendOutOfStock(t *testing.T) {
	p := catalog.Product{TotalStock: intPtr(0)}

	rec := Recommend(p, nil)

	require.Equal(t, TierOut, rec.Urgency)
	require.Equal(t, 4, rec.Urgency.Priority())
	require.Positive(t, rec.RecommendedQuantity)
	require.Zero(t, rec.DaysUntilStockout)
}
