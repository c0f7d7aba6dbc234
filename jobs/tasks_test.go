package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/apotheca/apotheca/internal/audit"
	"github.com/apotheca/apotheca/internal/catalog"
	jobmetrics "github.com/apotheca/apotheca/internal/jobs"
	_ "github.com/apotheca/apotheca/testing"
)

func testMetrics() *jobmetrics.Metrics {
	return jobmetrics.NewMetrics(prometheus.NewRegistry())
}

type staticSource struct {
	products []catalog.Product
	err      error
}

func (s staticSource) ListActive(context.Context) ([]catalog.Product, error) {
	return s.products, s.err
}

type captureRecorder struct {
	entries []audit.Entry
}

func (r *captureRecorder) Record(_ context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func productExpiring(days int) catalog.Product {
	d := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	return catalog.Product{Name: "amoxicillin", ExpiryDate: &d}
}

func TestExpirySnapshotRecordsTierCounts(t *testing.T) {
	source := staticSource{products: []catalog.Product{
		productExpiring(-2),
		productExpiring(3),
		productExpiring(20),
		productExpiring(90),
		{Name: "no expiry"},
	}}
	recorder := &captureRecorder{}
	job := NewExpirySnapshot(source, recorder, slog.Default(), testMetrics())

	require.NoError(t, job.Handle(context.Background(), NewExpirySnapshotTask()))
	require.Len(t, recorder.entries, 1)

	entry := recorder.entries[0]
	require.Equal(t, audit.TypeExpirySnapshot, entry.Type)
	require.Equal(t, "system", entry.Actor)
	require.Equal(t, 5, entry.Metadata["total_active"])
	require.Equal(t, 1, entry.Metadata["expired"])
	require.Equal(t, 1, entry.Metadata["critical"])
	require.Equal(t, 1, entry.Metadata["warning"])
	require.Equal(t, 1, entry.Metadata["good"])
	require.Equal(t, 1, entry.Metadata["unknown"])
}

func TestExpirySnapshotPropagatesSourceError(t *testing.T) {
	source := staticSource{err: errors.New("db down")}
	recorder := &captureRecorder{}
	job := NewExpirySnapshot(source, recorder, slog.Default(), testMetrics())

	require.Error(t, job.Handle(context.Background(), NewExpirySnapshotTask()))
	require.Empty(t, recorder.entries)
}
