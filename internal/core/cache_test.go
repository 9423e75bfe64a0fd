package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haseebmalik18/switchr/internal/types"
)

// fakeClock is a manually advanced clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestGetOrComputeCachesWithinTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewResultCache(clock.Now)
	defer cache.Close()

	calls := 0
	producer := func(ctx context.Context) (any, error) {
		calls++
		return "value", nil
	}

	first, err := cache.GetOrCompute(context.Background(), "k", time.Minute, producer)
	require.NoError(t, err)
	second, err := cache.GetOrCompute(context.Background(), "k", time.Minute, producer)
	require.NoError(t, err)

	assert.Equal(t, "value", first)
	assert.Equal(t, "value", second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, types.Stats{CacheHits: 1, CacheMisses: 1, TotalRequests: 2}, cache.Stats())
}

func TestGetOrComputeRecomputesAfterExpiry(t *testing.T) {
	clock := newFakeClock()
	cache := NewResultCache(clock.Now)
	defer cache.Close()

	calls := 0
	producer := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	value, err := cache.GetOrCompute(context.Background(), "k", time.Minute, producer)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	clock.Advance(2 * time.Minute)
	value, err = cache.GetOrCompute(context.Background(), "k", time.Minute, producer)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
	assert.Equal(t, 2, calls)
}

func TestGetOrComputeCoalescesConcurrentCallers(t *testing.T) {
	cache := NewResultCache(time.Now)
	defer cache.Close()

	const callers = 16
	var produced atomic.Int64
	release := make(chan struct{})
	producer := func(ctx context.Context) (any, error) {
		produced.Add(1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]any, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = cache.GetOrCompute(context.Background(), "k", time.Minute, producer)
		}(i)
	}
	// Give every caller a chance to join the flight before the
	// producer finishes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), produced.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i])
	}

	stats := cache.Stats()
	assert.Equal(t, int64(callers), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Equal(t, int64(callers-1), stats.CacheHits)
}

func TestGetOrComputeFailureCachesNothing(t *testing.T) {
	cache := NewResultCache(time.Now)
	defer cache.Close()

	boom := errors.New("registry down")
	calls := 0
	failing := func(ctx context.Context) (any, error) {
		calls++
		return nil, boom
	}

	_, err := cache.GetOrCompute(context.Background(), "k", time.Minute, failing)
	require.ErrorIs(t, err, boom)
	_, err = cache.GetOrCompute(context.Background(), "k", time.Minute, failing)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestInvalidateDropsEntry(t *testing.T) {
	cache := NewResultCache(time.Now)
	defer cache.Close()

	calls := 0
	producer := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, err := cache.GetOrCompute(context.Background(), "k", time.Minute, producer)
	require.NoError(t, err)
	cache.Invalidate("k")
	value, err := cache.GetOrCompute(context.Background(), "k", time.Minute, producer)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestInvalidatePrefixDropsFamily(t *testing.T) {
	cache := NewResultCache(time.Now)
	defer cache.Close()

	fill := func(key string, value any) {
		_, err := cache.GetOrCompute(context.Background(), key, time.Minute, func(ctx context.Context) (any, error) {
			return value, nil
		})
		require.NoError(t, err)
	}
	fill("tree:npm:react:8", 1)
	fill("tree:npm:express:8", 2)
	fill("tree:pip:flask:8", 3)

	cache.InvalidatePrefix("tree:npm:")

	recomputed := 0
	probe := func(ctx context.Context) (any, error) {
		recomputed++
		return recomputed, nil
	}
	_, err := cache.GetOrCompute(context.Background(), "tree:npm:react:8", time.Minute, probe)
	require.NoError(t, err)
	_, err = cache.GetOrCompute(context.Background(), "tree:pip:flask:8", time.Minute, probe)
	require.NoError(t, err)
	assert.Equal(t, 1, recomputed, "pip entry should have survived the npm prefix eviction")
}
