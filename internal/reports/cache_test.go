package reports

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute, slog.Default()), mr
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (any, error) {
		calls++
		return map[string]int{"total": 7}, nil
	}

	var first map[string]int
	require.NoError(t, cache.FetchJSON(ctx, "reports:test", &first, loader))
	require.Equal(t, 7, first["total"])
	require.Equal(t, 1, calls)

	var second map[string]int
	require.NoError(t, cache.FetchJSON(ctx, "reports:test", &second, loader))
	require.Equal(t, 7, second["total"])
	require.Equal(t, 1, calls, "second read must hit the cache")
}

func TestCacheTTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	var got int
	require.NoError(t, cache.FetchJSON(ctx, "reports:ttl", &got, loader))
	require.Equal(t, 1, got)

	mr.FastForward(2 * time.Minute)

	require.NoError(t, cache.FetchJSON(ctx, "reports:ttl", &got, loader))
	require.Equal(t, 2, got, "expired key must be recomputed")
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	var got int
	require.NoError(t, cache.FetchJSON(ctx, "reports:inv", &got, loader))
	require.NoError(t, cache.Invalidate(ctx, "reports:inv"))
	require.NoError(t, cache.FetchJSON(ctx, "reports:inv", &got, loader))
	require.Equal(t, 2, got)
}

func TestCacheOutageDegradesToCompute(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (any, error) {
		calls++
		return map[string]int{"total": 3}, nil
	}

	mr.Close()

	var got map[string]int
	require.NoError(t, cache.FetchJSON(ctx, "reports:down", &got, loader))
	require.Equal(t, 3, got["total"])
	require.Equal(t, 1, calls, "loader must run when the cache is unreachable")

	// Still down; every request recomputes.
	require.NoError(t, cache.FetchJSON(ctx, "reports:down", &got, loader))
	require.Equal(t, 2, calls)
}

func TestCacheNilClientComputesEachTime(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	var got int
	require.NoError(t, cache.FetchJSON(ctx, "k", &got, loader))
	require.NoError(t, cache.FetchJSON(ctx, "k", &got, loader))
	require.Equal(t, 2, calls)
}
