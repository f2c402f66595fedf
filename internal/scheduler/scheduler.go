// Package scheduler runs the periodic cache maintenance tasks.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guilherme-rhein/invest-smart-b3/internal/cache"
)

// Scheduler manages the cron tasks: pruning stale price entries and the
// daily fundamentals refresh.
type Scheduler struct {
	Cron   *cron.Cron
	Prices *cache.PriceSeriesCache
	Fund   *cache.FundamentalsCache
	log    zerolog.Logger
}

// New creates a Scheduler over the two caches.
func New(prices *cache.PriceSeriesCache, fund *cache.FundamentalsCache, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Prices: prices,
		Fund:   fund,
		log:    log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the prune and fundamentals-refresh tasks.
func (s *Scheduler) RegisterAll(pruneCron, fundamentalsCron string) error {
	if _, err := s.Cron.AddFunc(pruneCron, func() {
		removed := s.Prices.Prune()
		s.log.Debug().Int("removed", removed).Msg("price cache prune ran")
	}); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	if _, err := s.Cron.AddFunc(fundamentalsCron, func() {
		s.Fund.Invalidate()
	}); err != nil {
		return fmt.Errorf("register fundamentals refresh: %w", err)
	}
	return nil
}

// Start launches the cron loop.
func (s *Scheduler) Start() { s.Cron.Start() }

// Stop halts the cron loop, waiting for running jobs.
func (s *Scheduler) Stop() { <-s.Cron.Stop().Done() }
