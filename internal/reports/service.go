// Package reports annotates the active inventory with stock and expiry tiers
// for the dashboard and alerting views.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/apotheca/apotheca/internal/catalog"
	"github.com/apotheca/apotheca/internal/expiry"
	"github.com/apotheca/apotheca/internal/stock"
)

const dashboardCacheKey = "reports:dashboard"

var msgPrinter = message.NewPrinter(language.English)

// ProductSource supplies the products a report is computed over.
type ProductSource interface {
	ListActive(ctx context.Context) ([]catalog.Product, error)
}

// Summary is the cached dashboard payload.
type Summary struct {
	TotalProducts int             `json:"total_products"`
	StockTiers    map[string]int  `json:"stock_tiers"`
	ExpiryTiers   map[string]int  `json:"expiry_tiers"`
	Anomalies     int             `json:"anomalies"`
	RetailValue   decimal.Decimal `json:"retail_value"`
	CostValue     decimal.Decimal `json:"cost_value"`
	Headline      string          `json:"headline"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// LowStockItem pairs a product with its tier and reorder advice.
type LowStockItem struct {
	Product        catalog.Product      `json:"product"`
	Status         stock.Status         `json:"status"`
	Recommendation stock.Recommendation `json:"recommendation"`
}

// ExpiringItem pairs a product with its expiry status.
type ExpiringItem struct {
	Product catalog.Product `json:"product"`
	Status  expiry.Status   `json:"status"`
}

// ExpiryReport splits products into the expiring-soon and already-expired
// buckets; the two are never mixed.
type ExpiryReport struct {
	WithinDays int            `json:"within_days"`
	Expiring   []ExpiringItem `json:"expiring"`
	Expired    []ExpiringItem `json:"expired"`
}

// Service computes inventory health reports.
type Service struct {
	source ProductSource
	cache  *Cache
	group  singleflight.Group
}

// NewService builds the reports service. cache may be nil.
func NewService(source ProductSource, cache *Cache) *Service {
	return &Service{source: source, cache: cache}
}

// Dashboard returns the cached summary, rebuilding it at most once at a time.
func (s *Service) Dashboard(ctx context.Context) (Summary, error) {
	var summary Summary
	err := s.cache.FetchJSON(ctx, dashboardCacheKey, &summary, func(ctx context.Context) (any, error) {
		value, err, _ := s.group.Do(dashboardCacheKey, func() (any, error) {
			return s.buildSummary(ctx)
		})
		return value, err
	})
	return summary, err
}

func (s *Service) buildSummary(ctx context.Context) (Summary, error) {
	products, err := s.source.ListActive(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("reports: list products: %w", err)
	}

	summary := Summary{
		TotalProducts: len(products),
		StockTiers:    map[string]int{},
		ExpiryTiers:   map[string]int{},
		RetailValue:   decimal.Zero,
		CostValue:     decimal.Zero,
		GeneratedAt:   time.Now(),
	}
	now := time.Now()
	for _, p := range products {
		qty := stock.EffectiveStock(p)
		summary.StockTiers[string(stock.StatusFor(p).Tier)]++
		summary.ExpiryTiers[string(expiry.StatusAt(p, now).Tier)]++
		if p.ArchiveMetadataAnomalous() {
			summary.Anomalies++
		}
		units := decimal.NewFromInt(int64(qty))
		summary.RetailValue = summary.RetailValue.Add(p.SellingPrice.Mul(units))
		summary.CostValue = summary.CostValue.Add(p.CostPrice.Mul(units))
	}
	summary.Headline = msgPrinter.Sprintf("%d active products, %d need reordering",
		summary.TotalProducts,
		summary.StockTiers[string(stock.TierOut)]+summary.StockTiers[string(stock.TierCritical)]+summary.StockTiers[string(stock.TierLow)])
	return summary, nil
}

// LowStock lists products below their effective low threshold, most urgent
// first. A caller override applies to every product in the report.
func (s *Service) LowStock(ctx context.Context, override *stock.Thresholds) ([]LowStockItem, error) {
	if override != nil {
		if err := override.Validate(); err != nil {
			return nil, err
		}
	}
	products, err := s.source.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("reports: list products: %w", err)
	}

	var items []LowStockItem
	for _, p := range products {
		status := stock.StatusWith(p, override)
		if status.Tier == stock.TierGood {
			continue
		}
		items = append(items, LowStockItem{
			Product:        stock.Normalize(p),
			Status:         status,
			Recommendation: stock.Recommend(p, nil),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Status.Priority != items[j].Status.Priority {
			return items[i].Status.Priority > items[j].Status.Priority
		}
		return stock.EffectiveStock(items[i].Product) < stock.EffectiveStock(items[j].Product)
	})
	return items, nil
}

// Expiring lists products expiring within the window plus the expired bucket,
// soonest first.
func (s *Service) Expiring(ctx context.Context, withinDays int) (ExpiryReport, error) {
	if withinDays <= 0 {
		withinDays = expiry.WarningWindowDays
	}
	products, err := s.source.ListActive(ctx)
	if err != nil {
		return ExpiryReport{}, fmt.Errorf("reports: list products: %w", err)
	}

	report := ExpiryReport{WithinDays: withinDays}
	now := time.Now()
	for _, p := range products {
		status := expiry.StatusAt(p, now)
		switch {
		case status.Tier == expiry.TierExpired:
			report.Expired = append(report.Expired, ExpiringItem{Product: stock.Normalize(p), Status: status})
		case expiry.IsExpiringSoonAt(p, withinDays, now):
			report.Expiring = append(report.Expiring, ExpiringItem{Product: stock.Normalize(p), Status: status})
		}
	}
	sort.SliceStable(report.Expiring, func(i, j int) bool {
		return report.Expiring[i].Status.DaysUntilExpiry < report.Expiring[j].Status.DaysUntilExpiry
	})
	sort.SliceStable(report.Expired, func(i, j int) bool {
		return report.Expired[i].Status.DaysUntilExpiry < report.Expired[j].Status.DaysUntilExpiry
	})
	return report, nil
}
