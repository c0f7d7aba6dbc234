package stock

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apotheca/apotheca/internal/catalog"
)

func intPtr(v int) *int { return &v }

func TestEffectiveStock(t *testing.T) {
	cases := []struct {
		name    string
		product catalog.Product
		want    int
	}{
		{"total stock wins", catalog.Product{Stock: intPtr(3), TotalStock: intPtr(12)}, 12},
		{"falls back to stock", catalog.Product{Stock: intPtr(7)}, 7},
		{"both absent", catalog.Product{}, 0},
		{"total stock zero beats stock", catalog.Product{Stock: intPtr(9), TotalStock: intPtr(0)}, 0},
		{"negative clamped", catalog.Product{TotalStock: intPtr(-4)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, EffectiveStock(tc.product))
			require.GreaterOrEqual(t, EffectiveStock(tc.product), 0)
		})
	}
}

func TestStatusTiers(t *testing.T) {
	cases := []struct {
		name    string
		product catalog.Product
		want    Tier
	}{
		{"zero is out", catalog.Product{TotalStock: intPtr(0)}, TierOut},
		{"at critical boundary", catalog.Product{TotalStock: intPtr(5)}, TierCritical},
		{"between critical and low", catalog.Product{TotalStock: intPtr(8)}, TierLow},
		{"at low boundary", catalog.Product{TotalStock: intPtr(10)}, TierLow},
		{"above low", catalog.Product{TotalStock: intPtr(11)}, TierGood},
		{"reorder level raises low boundary", catalog.Product{TotalStock: intPtr(18), ReorderLevel: intPtr(20)}, TierLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StatusFor(tc.product)
			require.Equal(t, tc.want, got.Tier)
			require.Equal(t, tc.want.Priority(), got.Priority)
		})
	}
}

func TestStatusCallerOverride(t *testing.T) {
	p := catalog.Product{TotalStock: intPtr(15), ReorderLevel: intPtr(12)}

	// Caller override beats the product reorder level.
	got := StatusWith(p, &Thresholds{Critical: 10, Low: 20})
	require.Equal(t, TierLow, got.Tier)

	got = StatusWith(p, &Thresholds{Critical: 2, Low: 4})
	require.Equal(t, TierGood, got.Tier)
}

func TestStatusOutRegardlessOfThresholds(t *testing.T) {
	p := catalog.Product{TotalStock: intPtr(0)}
	got := StatusWith(p, &Thresholds{Critical: 0, Low: 0})
	require.Equal(t, TierOut, got.Tier)
	require.Equal(t, 4, got.Priority)
}

func TestTierPriorityOrdering(t *testing.T) {
	require.Greater(t, TierOut.Priority(), TierCritical.Priority())
	require.Greater(t, TierCritical.Priority(), TierLow.Priority())
	require.Greater(t, TierLow.Priority(), TierGood.Priority())
}

func TestThresholdsValidate(t *testing.T) {
	require.NoError(t, Thresholds{Critical: 5, Low: 10}.Validate())
	require.ErrorIs(t, Thresholds{Critical: -1, Low: 10}.Validate(), ErrInvalidThresholds)
	require.ErrorIs(t, Thresholds{Critical: 10, Low: 5}.Validate(), ErrInvalidThresholds)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := catalog.Product{Stock: intPtr(4)}
	out := Normalize(in)

	require.Equal(t, 4, *out.Stock)
	require.Equal(t, 4, *out.TotalStock)
	require.Equal(t, string(TierCritical), out.StockStatus)

	require.Nil(t, in.TotalStock)
	require.Empty(t, in.StockStatus)

	*out.Stock = 99
	require.Equal(t, 4, *in.Stock)
}
