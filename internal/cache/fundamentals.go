package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/guilherme-rhein/invest-smart-b3/internal/metrics"
	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

// FundamentalsSource fetches the cross-sectional fundamentals table.
type FundamentalsSource interface {
	FetchTable(ctx context.Context) (*model.FundamentalsTable, error)
	Name() string
}

// FundamentalsCache fetches the fundamentals table at most once per session
// and serves the stored copy afterwards. Fetch failures are surfaced to the
// caller and never stored, so a later call retries.
type FundamentalsCache struct {
	source FundamentalsSource
	now    func() time.Time
	log    zerolog.Logger

	mu    sync.RWMutex
	table *model.FundamentalsTable
	group singleflight.Group
}

// NewFundamentalsCache creates a session cache in front of the source.
func NewFundamentalsCache(source FundamentalsSource, log zerolog.Logger) *FundamentalsCache {
	return &FundamentalsCache{
		source: source,
		now:    time.Now,
		log:    log.With().Str("component", "fundamentals_cache").Logger(),
	}
}

// GetAll returns the fundamentals table, fetching it on first use.
func (c *FundamentalsCache) GetAll(ctx context.Context) (*model.FundamentalsTable, error) {
	c.mu.RLock()
	t := c.table
	c.mu.RUnlock()
	if t != nil {
		metrics.CacheRequests.WithLabelValues("fundamentals", "hit").Inc()
		return t, nil
	}

	v, err, _ := c.group.Do("fundamentals", func() (interface{}, error) {
		c.mu.RLock()
		t := c.table
		c.mu.RUnlock()
		if t != nil {
			return t, nil
		}
		metrics.CacheRequests.WithLabelValues("fundamentals", "miss").Inc()

		// The flight is shared between callers, so detach it from the
		// first caller's cancellation while keeping its deadline.
		fctx := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			fctx, cancel = context.WithDeadline(fctx, deadline)
			defer cancel()
		}

		start := c.now()
		table, err := c.source.FetchTable(fctx)
		metrics.ProviderRequestDuration.WithLabelValues(c.source.Name()).
			Observe(c.now().Sub(start).Seconds())
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.table = table
		c.mu.Unlock()
		c.log.Info().Int("rows", len(table.Rows)).Msg("fundamentals table loaded")
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.FundamentalsTable), nil
}

// Invalidate drops the stored table so the next GetAll re-fetches. Used by
// the scheduled daily refresh.
func (c *FundamentalsCache) Invalidate() {
	c.mu.Lock()
	c.table = nil
	c.mu.Unlock()
	c.log.Info().Msg("fundamentals table invalidated")
}
