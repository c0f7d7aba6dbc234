package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	Repository
	created Product
}

func (r *stubRepo) Create(_ context.Context, p Product) (Product, error) {
	r.created = p
	r.created.ID = uuid.New()
	return r.created, nil
}

func intPtr(v int) *int { return &v }

func TestCreateValidatesProduct(t *testing.T) {
	svc := NewService(&stubRepo{})

	cases := []struct {
		name    string
		product Product
	}{
		{"missing sku", Product{Name: "Paracetamol"}},
		{"blank name", Product{SKU: "PAR-500", Name: "   "}},
		{"negative stock", Product{SKU: "PAR-500", Name: "Paracetamol", Stock: intPtr(-1)}},
		{"negative reorder level", Product{SKU: "PAR-500", Name: "Paracetamol", ReorderLevel: intPtr(-5)}},
		{"negative price", Product{SKU: "PAR-500", Name: "Paracetamol", CostPrice: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.product)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateAcceptsValidProduct(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), Product{
		SKU:       "IBU-400",
		Name:      "Ibuprofen 400mg",
		Stock:     intPtr(36),
		CostPrice: decimal.RequireFromString("1.80"),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, "IBU-400", repo.created.SKU)
}

func TestProductRequestParsesPrices(t *testing.T) {
	req := ProductRequest{
		SKU:          "AMX-250",
		Name:         "Amoxicillin 250mg",
		CostPrice:    "3.40",
		SellingPrice: "6.90",
	}
	p, err := req.ToProduct()
	require.NoError(t, err)
	require.True(t, p.CostPrice.Equal(decimal.RequireFromString("3.40")))
	require.True(t, p.SellingPrice.Equal(decimal.RequireFromString("6.90")))

	req.CostPrice = "not-a-price"
	_, err = req.ToProduct()
	require.Error(t, err)
}

func TestArchiveStateProjection(t *testing.T) {
	now := time.Now()
	by := "pharmacist"
	reason := "discontinued"

	active := Product{IsArchived: false}
	require.False(t, active.ArchiveState().Archived)
	require.False(t, active.ArchiveMetadataAnomalous())

	archived := Product{IsArchived: true, ArchivedDate: &now, ArchivedBy: &by, ArchiveReason: &reason}
	state := archived.ArchiveState()
	require.True(t, state.Archived)
	require.Equal(t, "pharmacist", state.By)
	require.Equal(t, "discontinued", state.Reason)

	// Leftover metadata on an active row is an anomaly, not an archive.
	stale := Product{IsArchived: false, ArchivedBy: &by}
	require.False(t, stale.ArchiveState().Archived)
	require.True(t, stale.ArchiveMetadataAnomalous())
}
