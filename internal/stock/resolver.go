package stock

import "github.com/apotheca/apotheca/internal/catalog"

// EffectiveStock resolves the canonical quantity: total_stock wins when
// present, then stock, then zero. The result is never negative.
func EffectiveStock(p catalog.Product) int {
	qty := 0
	switch {
	case p.TotalStock != nil:
		qty = *p.TotalStock
	case p.Stock != nil:
		qty = *p.Stock
	}
	if qty < 0 {
		return 0
	}
	return qty
}

// StatusFor classifies the product with the default thresholds, honouring the
// product's own reorder level for the low boundary.
func StatusFor(p catalog.Product) Status {
	return StatusWith(p, nil)
}

// StatusWith classifies the product, letting the caller override both
// boundaries. A nil override falls back to the product's reorder level and
// then the globals.
func StatusWith(p catalog.Product, override *Thresholds) Status {
	thresholds := DefaultThresholds
	if p.ReorderLevel != nil {
		thresholds.Low = *p.ReorderLevel
	}
	if override != nil {
		thresholds = *override
	}

	qty := EffectiveStock(p)
	tier := TierGood
	switch {
	case qty <= 0:
		tier = TierOut
	case qty <= thresholds.Critical:
		tier = TierCritical
	case qty <= thresholds.Low:
		tier = TierLow
	}
	return Status{Tier: tier, Priority: tier.Priority()}
}

// Normalize returns a copy of the product with both quantity fields and the
// derived stock status populated consistently. The input is not mutated.
func Normalize(p catalog.Product) catalog.Product {
	qty := EffectiveStock(p)
	total := qty
	out := p
	out.Stock = &qty
	out.TotalStock = &total
	out.StockStatus = string(StatusFor(p).Tier)
	return out
}
