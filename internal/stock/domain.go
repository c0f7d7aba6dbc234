// Package stock resolves the legacy dual quantity columns into one canonical
// figure and classifies products into stock urgency tiers. Everything here is
// pure; no other package may read Product.Stock or Product.TotalStock directly.
package stock

import "errors"

// Tier classifies current stock urgency.
type Tier string

const (
	TierOut      Tier = "out"
	TierCritical Tier = "critical"
	TierLow      Tier = "low"
	TierGood     Tier = "good"
)

// Priority ranks tiers for sorting; higher means more urgent.
func (t Tier) Priority() int {
	switch t {
	case TierOut:
		return 4
	case TierCritical:
		return 3
	case TierLow:
		return 2
	default:
		return 1
	}
}

// Thresholds define tier boundaries. Caller overrides take precedence over a
// product's reorder level, which takes precedence over the globals.
type Thresholds struct {
	Critical int
	Low      int
}

// DefaultThresholds are the global boundaries applied when neither the caller
// nor the product overrides them.
var DefaultThresholds = Thresholds{Critical: 5, Low: 10}

// ErrInvalidThresholds flags a malformed caller override.
var ErrInvalidThresholds = errors.New("stock: invalid thresholds")

// Validate rejects overrides that could never classify consistently.
func (t Thresholds) Validate() error {
	if t.Critical < 0 || t.Low < 0 {
		return ErrInvalidThresholds
	}
	if t.Low < t.Critical {
		return ErrInvalidThresholds
	}
	return nil
}

// Status pairs the resolved tier with its sort priority.
type Status struct {
	Tier     Tier `json:"tier"`
	Priority int  `json:"priority"`
}
