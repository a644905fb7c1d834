package engine

import (
	"strconv"
	"sync"

	"github.com/piwi3910/villaplan/internal/model"
	"golang.org/x/sync/singleflight"
)

// ScenarioSource produces the scenario list for a parcel. *Generator
// satisfies it.
type ScenarioSource interface {
	Generate(land model.LandParcel) []model.SubdivisionScenario
}

// CacheKey identifies a parcel by its dimensions rounded to the millimetre.
func CacheKey(width, height float64) string {
	return strconv.FormatFloat(width, 'f', 3, 64) + "_" + strconv.FormatFloat(height, 'f', 3, 64)
}

// ScenarioCache memoizes scenario generation per parcel size. It is safe for
// concurrent use; concurrent misses on the same key run the source once.
// There is no eviction.
type ScenarioCache struct {
	source ScenarioSource

	mu      sync.Mutex
	entries map[string][]model.SubdivisionScenario
	epoch   uint64 // bumped by Clear so in-flight results from before it are not stored

	group singleflight.Group
}

// NewScenarioCache returns an empty cache backed by source.
func NewScenarioCache(source ScenarioSource) *ScenarioCache {
	return &ScenarioCache{
		source:  source,
		entries: make(map[string][]model.SubdivisionScenario),
	}
}

// Get returns the scenarios for land, generating and storing them on a miss.
// The returned slice is a private copy.
func (c *ScenarioCache) Get(land model.LandParcel) []model.SubdivisionScenario {
	key := CacheKey(land.Width, land.Height)

	if cached, ok := c.lookup(key); ok {
		return cloneScenarios(cached)
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		if cached, ok := c.lookup(key); ok {
			return cached, nil
		}

		c.mu.Lock()
		epoch := c.epoch
		c.mu.Unlock()

		scenarios := c.source.Generate(land)

		c.mu.Lock()
		if c.epoch == epoch {
			c.entries[key] = scenarios
		}
		c.mu.Unlock()
		return scenarios, nil
	})
	return cloneScenarios(v.([]model.SubdivisionScenario))
}

// Contains reports whether land has a cached entry.
func (c *ScenarioCache) Contains(land model.LandParcel) bool {
	_, ok := c.lookup(CacheKey(land.Width, land.Height))
	return ok
}

// Invalidate drops the entry for land and reports whether one existed.
func (c *ScenarioCache) Invalidate(land model.LandParcel) bool {
	key := CacheKey(land.Width, land.Height)
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Clear drops every entry.
func (c *ScenarioCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]model.SubdivisionScenario)
	c.epoch++
}

// Len returns the number of cached parcels.
func (c *ScenarioCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ScenarioCache) lookup(key string) ([]model.SubdivisionScenario, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[key]
	return s, ok
}

func cloneScenarios(in []model.SubdivisionScenario) []model.SubdivisionScenario {
	if in == nil {
		return nil
	}
	out := make([]model.SubdivisionScenario, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
