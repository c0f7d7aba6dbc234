package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/apotheca/apotheca/internal/catalog"
	"github.com/apotheca/apotheca/internal/expiry"
	"github.com/apotheca/apotheca/internal/stock"
)

type staticSource struct {
	products []catalog.Product
	err      error
}

func (s staticSource) ListActive(ctx context.Context) ([]catalog.Product, error) {
	return s.products, s.err
}

func intPtr(v int) *int { return &v }

func expiring(days int) *time.Time {
	d := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	return &d
}

func TestDashboardSummary(t *testing.T) {
	source := staticSource{products: []catalog.Product{
		{Name: "A", TotalStock: intPtr(0), SellingPrice: decimal.NewFromInt(10), CostPrice: decimal.NewFromInt(6)},
		{Name: "B", TotalStock: intPtr(50), SellingPrice: decimal.NewFromInt(2), CostPrice: decimal.NewFromInt(1), ExpiryDate: expiring(3)},
		{Name: "C", TotalStock: intPtr(8)},
	}}
	svc := NewService(source, nil)

	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, summary.TotalProducts)
	require.Equal(t, 1, summary.StockTiers[string(stock.TierOut)])
	require.Equal(t, 1, summary.StockTiers[string(stock.TierLow)])
	require.Equal(t, 1, summary.StockTiers[string(stock.TierGood)])
	require.Equal(t, 1, summary.ExpiryTiers[string(expiry.TierCritical)])
	require.Equal(t, 2, summary.ExpiryTiers[string(expiry.TierUnknown)])
	require.True(t, summary.RetailValue.Equal(decimal.NewFromInt(100)))
	require.True(t, summary.CostValue.Equal(decimal.NewFromInt(50)))
	require.Contains(t, summary.Headline, "2 need reordering")
}

func TestDashboardCountsAnomalies(t *testing.T) {
	when := time.Now()
	source := staticSource{products: []catalog.Product{
		{Name: "stale metadata", ArchivedDate: &when},
	}}
	svc := NewService(source, nil)

	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Anomalies)
}

func TestLowStockOrderedByUrgency(t *testing.T) {
	source := staticSource{products: []catalog.Product{
		{Name: "low", TotalStock: intPtr(9)},
		{Name: "plenty", TotalStock: intPtr(100)},
		{Name: "out", TotalStock: intPtr(0)},
		{Name: "critical", TotalStock: intPtr(2)},
	}}
	svc := NewService(source, nil)

	items, err := svc.LowStock(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "out", items[0].Product.Name)
	require.Equal(t, "critical", items[1].Product.Name)
	require.Equal(t, "low", items[2].Product.Name)

	for _, item := range items {
		require.Positive(t, item.Recommendation.RecommendedQuantity)
	}
}

func TestLowStockRejectsMalformedOverride(t *testing.T) {
	svc := NewService(staticSource{}, nil)
	_, err := svc.LowStock(context.Background(), &stock.Thresholds{Critical: 20, Low: 5})
	require.ErrorIs(t, err, stock.ErrInvalidThresholds)
}

func TestExpiringBuckets(t *testing.T) {
	source := staticSource{products: []catalog.Product{
		{Name: "gone", ExpiryDate: expiring(-5)},
		{Name: "soon", ExpiryDate: expiring(10)},
		{Name: "sooner", ExpiryDate: expiring(2)},
		{Name: "far", ExpiryDate: expiring(90)},
		{Name: "no date"},
	}}
	svc := NewService(source, nil)

	report, err := svc.Expiring(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, report.Expiring, 2)
	require.Equal(t, "sooner", report.Expiring[0].Product.Name)
	require.Equal(t, "soon", report.Expiring[1].Product.Name)
	require.Len(t, report.Expired, 1)
	require.Equal(t, "gone", report.Expired[0].Product.Name)
}
