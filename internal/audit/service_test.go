package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	entries  []Entry
	captured TimelineFilters
}

func (f *fakeRepo) Insert(ctx context.Context, entry Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filters TimelineFilters) ([]Entry, error) {
	f.captured = filters
	limit := filters.PageSize + 1
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

func seedEntries(n int) []Entry {
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, Entry{Type: TypeProductArchived, Actor: "alice", CreatedAt: time.Now()})
	}
	return entries
}

func TestTimelineDefaultsPaging(t *testing.T) {
	repo := &fakeRepo{entries: seedEntries(5)}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Paging.Page)
	require.Equal(t, 20, result.Paging.PageSize)
	require.False(t, result.Paging.HasNext)
	require.Len(t, result.Rows, 5)
}

func TestTimelineHasNext(t *testing.T) {
	repo := &fakeRepo{entries: seedEntries(7)}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{Page: 1, PageSize: 6})
	require.NoError(t, err)
	require.Len(t, result.Rows, 6)
	require.True(t, result.Paging.HasNext)
	require.Equal(t, 2, result.Paging.NextPage)
}

func TestTimelineClampsPageSize(t *testing.T) {
	repo := &fakeRepo{entries: seedEntries(1)}
	svc := NewService(repo)

	_, err := svc.Timeline(context.Background(), TimelineFilters{PageSize: 500})
	require.NoError(t, err)
	require.Equal(t, 50, repo.captured.PageSize)
}
