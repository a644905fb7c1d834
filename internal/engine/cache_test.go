package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/piwi3910/villaplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource wraps a generator and counts how often it is invoked.
type countingSource struct {
	inner *Generator
	delay time.Duration
	calls atomic.Int64
}

func (c *countingSource) Generate(land model.LandParcel) []model.SubdivisionScenario {
	c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return c.inner.Generate(land)
}

func newCountingSource() *countingSource {
	return &countingSource{inner: newTestGenerator()}
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "50.000_30.000", CacheKey(50, 30))
	assert.Equal(t, "50.123_30.457", CacheKey(50.1234, 30.4567))
}

func TestScenarioCache_HitDoesNotRecompute(t *testing.T) {
	src := newCountingSource()
	cache := NewScenarioCache(src)
	land := mustLand(t, 50, 30)

	first := cache.Get(land)
	second := cache.Get(land)

	assert.Equal(t, int64(1), src.calls.Load())
	assert.Equal(t, first, second)
	assert.True(t, cache.Contains(land))
	assert.Equal(t, 1, cache.Len())
}

func TestScenarioCache_KeyRoundsToMillimetre(t *testing.T) {
	src := newCountingSource()
	cache := NewScenarioCache(src)

	cache.Get(mustLand(t, 50.0001, 30))
	cache.Get(mustLand(t, 50.0002, 30))
	assert.Equal(t, int64(1), src.calls.Load())

	cache.Get(mustLand(t, 50.01, 30))
	assert.Equal(t, int64(2), src.calls.Load())
}

func TestScenarioCache_ClearAndInvalidate(t *testing.T) {
	src := newCountingSource()
	cache := NewScenarioCache(src)
	land := mustLand(t, 50, 30)
	other := mustLand(t, 60, 40)

	cache.Get(land)
	cache.Get(other)
	require.Equal(t, 2, cache.Len())

	assert.True(t, cache.Invalidate(land))
	assert.False(t, cache.Invalidate(land))
	assert.Equal(t, 1, cache.Len())

	cache.Get(land)
	assert.Equal(t, int64(3), src.calls.Load())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	cache.Get(other)
	assert.Equal(t, int64(4), src.calls.Load())
}

func TestScenarioCache_ReturnsPrivateCopies(t *testing.T) {
	cache := NewScenarioCache(newCountingSource())
	land := mustLand(t, 50, 30)

	got := cache.Get(land)
	require.NotEmpty(t, got)
	got[0].Lots[0].Area = -1
	got[0].TotalLots = -1

	again := cache.Get(land)
	assert.NotEqual(t, -1.0, again[0].Lots[0].Area)
	assert.NotEqual(t, -1, again[0].TotalLots)
}

func TestScenarioCache_ConcurrentMissesComputeOnce(t *testing.T) {
	src := newCountingSource()
	src.delay = 20 * time.Millisecond
	cache := NewScenarioCache(src)
	land := mustLand(t, 50, 30)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, cache.Get(land), 21)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), src.calls.Load())
}

func TestScenarioCache_WithGenerator(t *testing.T) {
	g := newTestGenerator()
	cache := NewScenarioCache(g)
	land := mustLand(t, 50, 30)

	cache.Get(land)
	cache.Get(land)

	assert.Equal(t, int64(1), g.Calls())
}
