package tco

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// BuildFunc constructs the aggregate for a key
type BuildFunc func(ctx context.Context, key Key) (*Inputs, error)

type cacheCell struct {
	once   sync.Once
	inputs *Inputs
	err    error
}

// Cache memoizes input aggregates per (vehicle, scenario, method).
// Each key is built exactly once even under concurrent callers. Failed builds
// are not kept, so a later call retries.
type Cache struct {
	mu         sync.Mutex
	entries    map[Key]*cacheCell
	generation uint64
	build      BuildFunc

	hits   atomic.Int64
	misses atomic.Int64
	builds atomic.Int64

	log zerolog.Logger
}

// CacheStats is a point-in-time view of cache activity
type CacheStats struct {
	Hits       int64  `json:"hits"`
	Misses     int64  `json:"misses"`
	Builds     int64  `json:"builds"`
	Size       int    `json:"size"`
	Generation uint64 `json:"generation"`
}

// NewCache creates a cache around a builder
func NewCache(build BuildFunc, log zerolog.Logger) *Cache {
	return &Cache{
		entries: make(map[Key]*cacheCell),
		build:   build,
		log:     log.With().Str("component", "tco_cache").Logger(),
	}
}

// Get returns the aggregate for key, building it on first use
func (c *Cache) Get(ctx context.Context, key Key) (*Inputs, error) {
	c.mu.Lock()
	cell, ok := c.entries[key]
	if !ok {
		cell = &cacheCell{}
		c.entries[key] = cell
		c.misses.Add(1)
	} else {
		c.hits.Add(1)
	}
	c.mu.Unlock()

	cell.once.Do(func() {
		c.builds.Add(1)
		cell.inputs, cell.err = c.build(ctx, key)
		if cell.err == nil {
			c.log.Debug().
				Str("vehicle", key.VehicleID).
				Str("scenario", key.ScenarioID).
				Str("method", string(key.Method)).
				Msg("Built input aggregate")
		}
	})

	if cell.err != nil {
		c.mu.Lock()
		if c.entries[key] == cell {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, cell.err
	}
	return cell.inputs, nil
}

// Invalidate drops every cached aggregate. Aggregates already handed out stay valid.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	dropped := len(c.entries)
	c.entries = make(map[Key]*cacheCell)
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	c.log.Info().Int("dropped", dropped).Uint64("generation", gen).Msg("Input cache invalidated")
}

// Stats returns the cache counters
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	size, gen := len(c.entries), c.generation
	c.mu.Unlock()
	return CacheStats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Builds:     c.builds.Load(),
		Size:       size,
		Generation: gen,
	}
}
