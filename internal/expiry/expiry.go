// Package expiry turns a product's expiry date into an urgency tier. Pure and
// deterministic given a reference time.
package expiry

import (
	"math"
	"time"

	"github.com/apotheca/apotheca/internal/catalog"
)

// Tier classifies expiry urgency.
type Tier string

const (
	TierUnknown  Tier = "unknown"
	TierExpired  Tier = "expired"
	TierCritical Tier = "critical"
	TierWarning  Tier = "warning"
	TierGood     Tier = "good"
)

const (
	// CriticalWindowDays is the inclusive boundary for the critical tier.
	CriticalWindowDays = 7
	// WarningWindowDays is the inclusive boundary for the warning tier.
	WarningWindowDays = 30
)

// Status reports the tier and the whole days remaining until expiry.
// DaysUntilExpiry is meaningless when Tier is TierUnknown.
type Status struct {
	Tier            Tier `json:"tier"`
	DaysUntilExpiry int  `json:"days_until_expiry"`
}

// StatusFor classifies the product against the current clock.
func StatusFor(p catalog.Product) Status {
	return StatusAt(p, time.Now())
}

// StatusAt classifies the product against an explicit reference time.
func StatusAt(p catalog.Product, now time.Time) Status {
	if p.ExpiryDate == nil {
		return Status{Tier: TierUnknown}
	}
	days := int(math.Ceil(p.ExpiryDate.Sub(now).Hours() / 24))

	tier := TierGood
	switch {
	case days <= 0:
		tier = TierExpired
	case days <= CriticalWindowDays:
		tier = TierCritical
	case days <= WarningWindowDays:
		tier = TierWarning
	}
	return Status{Tier: tier, DaysUntilExpiry: days}
}

// IsExpiringSoon reports whether the product expires within the given window.
// Already-expired products belong to the expired bucket and return false.
func IsExpiringSoon(p catalog.Product, withinDays int) bool {
	return IsExpiringSoonAt(p, withinDays, time.Now())
}

// IsExpiringSoonAt is IsExpiringSoon against an explicit reference time.
func IsExpiringSoonAt(p catalog.Product, withinDays int, now time.Time) bool {
	status := StatusAt(p, now)
	if status.Tier == TierUnknown {
		return false
	}
	return status.DaysUntilExpiry > 0 && status.DaysUntilExpiry <= withinDays
}
