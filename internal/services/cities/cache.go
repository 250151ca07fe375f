package cities

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rinkhq/pickup-admin/internal/dependencies/clock"
	"github.com/rinkhq/pickup-admin/internal/model"
)

// DefaultTTL is how long a cached city list is served before refetching
const DefaultTTL = 24 * time.Hour

// FetchFunc loads the full city list from the backing store
type FetchFunc func(ctx context.Context) ([]model.City, error)

// Cache holds the city list with a TTL. City data changes rarely, so
// reads are served from memory and only refetched once the entry ages
// past the TTL or a caller forces a refresh.
//
// When a refetch fails and a previously cached list exists, the cache
// serves the stale list and flags it as such rather than failing the
// read. The fetch error only propagates when there is nothing to fall
// back on.
type Cache struct {
	fetch  FetchFunc
	clock  clock.Clock
	ttl    time.Duration
	logger *slog.Logger

	mu        sync.Mutex
	cities    []model.City
	fetchedAt time.Time
	populated bool
}

// NewCache creates a city cache over the given fetch function
func NewCache(fetch FetchFunc, clk clock.Clock, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		fetch:  fetch,
		clock:  clk,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "city-cache")),
	}
}

// Get returns the city list. Served from cache while the entry is
// younger than the TTL; force bypasses the cache entirely. The stale
// flag is true only when a refetch failed and an expired list was
// served instead.
func (c *Cache) Get(ctx context.Context, force bool) (cities []model.City, stale bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !force && c.populated && c.clock.Now().Sub(c.fetchedAt) < c.ttl {
		return c.snapshot(), false, nil
	}

	fetched, err := c.fetch(ctx)
	if err != nil {
		if c.populated {
			c.logger.Warn("city refresh failed, serving stale list",
				slog.String("error", err.Error()))
			return c.snapshot(), true, nil
		}
		return nil, false, err
	}

	c.cities = fetched
	c.fetchedAt = c.clock.Now()
	c.populated = true
	return c.snapshot(), false, nil
}

// Invalidate drops the cached list so the next read refetches
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cities = nil
	c.populated = false
}

// snapshot copies the cached slice so callers cannot mutate the cache.
// Must be called with the lock held.
func (c *Cache) snapshot() []model.City {
	out := make([]model.City, len(c.cities))
	copy(out, c.cities)
	return out
}
