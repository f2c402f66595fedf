package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/guilherme-rhein/invest-smart-b3/internal/collector"
	"github.com/guilherme-rhein/invest-smart-b3/internal/metrics"
	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

// DefaultPriceTTL matches the 6-hour freshness window of the upstream data.
const DefaultPriceTTL = 6 * time.Hour

type priceEntry struct {
	series    *model.PriceSeries
	fetchedAt time.Time
}

// PriceSeriesCache memoizes per-ticker price history keyed by
// (ticker, window, interval). Entries older than the TTL are re-fetched.
// Concurrent requests for the same key share a single in-flight fetch;
// fetch failures are never cached.
type PriceSeriesCache struct {
	fetcher collector.Fetcher
	ttl     time.Duration
	now     func() time.Time
	log     zerolog.Logger

	mu      sync.RWMutex
	entries map[string]priceEntry
	group   singleflight.Group
}

// NewPriceSeriesCache creates a cache in front of the given fetcher.
func NewPriceSeriesCache(fetcher collector.Fetcher, ttl time.Duration, log zerolog.Logger) *PriceSeriesCache {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &PriceSeriesCache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		log:     log.With().Str("component", "price_cache").Logger(),
		entries: make(map[string]priceEntry),
	}
}

// SetClock overrides the cache clock. Intended for tests.
func (c *PriceSeriesCache) SetClock(now func() time.Time) { c.now = now }

func priceKey(ticker string, window int, interval string) string {
	return fmt.Sprintf("%s|%d|%s", ticker, window, interval)
}

// Get returns the price series for a key, fetching it if absent or stale.
func (c *PriceSeriesCache) Get(ctx context.Context, ticker string, window int, interval string) (*model.PriceSeries, error) {
	key := priceKey(ticker, window, interval)

	if s, ok := c.fresh(key); ok {
		metrics.CacheRequests.WithLabelValues("price", "hit").Inc()
		return s, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		// Re-check: another caller may have filled the entry while this
		// one waited on the flight group.
		if s, ok := c.fresh(key); ok {
			return s, nil
		}
		if c.expired(key) {
			metrics.CacheRequests.WithLabelValues("price", "stale").Inc()
		} else {
			metrics.CacheRequests.WithLabelValues("price", "miss").Inc()
		}

		// The flight is shared between callers, so detach it from the
		// first caller's cancellation while keeping its deadline.
		fctx := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			fctx, cancel = context.WithDeadline(fctx, deadline)
			defer cancel()
		}

		start := c.now()
		bars, err := c.fetcher.Fetch(fctx, ticker, window, interval)
		metrics.ProviderRequestDuration.WithLabelValues(c.fetcher.Name()).
			Observe(c.now().Sub(start).Seconds())
		if err != nil {
			return nil, err
		}

		series := &model.PriceSeries{
			Ticker:    ticker,
			Interval:  interval,
			Bars:      bars,
			FetchedAt: c.now(),
		}
		c.mu.Lock()
		c.entries[key] = priceEntry{series: series, fetchedAt: series.FetchedAt}
		c.mu.Unlock()
		return series, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debug().Str("key", key).Msg("fetch de-duplicated")
	}
	return v.(*model.PriceSeries), nil
}

func (c *PriceSeriesCache) fresh(key string) (*model.PriceSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.series, true
}

// expired reports whether an entry exists for the key but is past the TTL.
func (c *PriceSeriesCache) expired(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return ok && c.now().Sub(e.fetchedAt) >= c.ttl
}

// Prune drops expired entries and returns how many were removed.
func (c *PriceSeriesCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, e := range c.entries {
		if c.now().Sub(e.fetchedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.log.Info().Int("removed", removed).Msg("pruned stale price entries")
	}
	return removed
}

// Len reports the number of cached entries, fresh or stale.
func (c *PriceSeriesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
