package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apotheca/apotheca/internal/catalog"
)

var anchor = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func productExpiring(days int) catalog.Product {
	d := anchor.AddDate(0, 0, days)
	return catalog.Product{ExpiryDate: &d}
}

func TestStatusBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		days     int
		wantTier Tier
	}{
		{"seven days is critical", 7, TierCritical},
		{"eight days is warning", 8, TierWarning},
		{"thirty days is warning", 30, TierWarning},
		{"thirty one days is good", 31, TierGood},
		{"tomorrow is critical", 1, TierCritical},
		{"in the past is expired", -3, TierExpired},
		{"today is expired", 0, TierExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StatusAt(productExpiring(tc.days), anchor)
			require.Equal(t, tc.wantTier, got.Tier)
			require.Equal(t, tc.days, got.DaysUntilExpiry)
		})
	}
}

func TestStatusNoExpiryDate(t *testing.T) {
	got := StatusAt(catalog.Product{}, anchor)
	require.Equal(t, TierUnknown, got.Tier)
}

func TestStatusPartialDayRoundsUp(t *testing.T) {
	d := anchor.Add(36 * time.Hour)
	got := StatusAt(catalog.Product{ExpiryDate: &d}, anchor)
	require.Equal(t, 2, got.DaysUntilExpiry)
	require.Equal(t, TierCritical, got.Tier)
}

func TestIsExpiringSoon(t *testing.T) {
	require.True(t, IsExpiringSoonAt(productExpiring(15), 30, anchor))
	require.False(t, IsExpiringSoonAt(productExpiring(-2), 30, anchor), "expired products are not expiring soon")
	require.False(t, IsExpiringSoonAt(productExpiring(45), 30, anchor))
	require.False(t, IsExpiringSoonAt(catalog.Product{}, 30, anchor))
	require.True(t, IsExpiringSoonAt(productExpiring(30), 30, anchor))
}
