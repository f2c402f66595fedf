// Package classifier runs the batch fetch-and-classify pipeline.
package classifier

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/guilherme-rhein/invest-smart-b3/internal/cache"
	"github.com/guilherme-rhein/invest-smart-b3/internal/calculator"
	"github.com/guilherme-rhein/invest-smart-b3/internal/metrics"
	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

// Options sizes the classification run.
type Options struct {
	RSIPeriod    int           // trailing RSI window, default 14
	HistoryBars  int           // bars requested per ticker, default 60
	Interval     string        // bar interval, default "1d"
	FetchTimeout time.Duration // per-ticker budget so one slow ticker cannot stall the pass
	Workers      int           // bounded pool size, default 8
}

func (o *Options) defaults() {
	if o.RSIPeriod <= 0 {
		o.RSIPeriod = 14
	}
	if o.HistoryBars <= 0 {
		o.HistoryBars = 60
	}
	if o.Interval == "" {
		o.Interval = "1d"
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 45 * time.Second
	}
	if o.Workers <= 0 {
		o.Workers = 8
	}
}

// Classifier computes per-ticker RSI tiers through the price cache.
type Classifier struct {
	prices *cache.PriceSeriesCache
	opts   Options
	log    zerolog.Logger
}

// New creates a Classifier over the given price cache.
func New(prices *cache.PriceSeriesCache, opts Options, log zerolog.Logger) *Classifier {
	opts.defaults()
	return &Classifier{
		prices: prices,
		opts:   opts,
		log:    log.With().Str("component", "classifier").Logger(),
	}
}

// outcome is the per-ticker result slot; exactly one field is meaningful.
type outcome struct {
	record  *model.ClassificationRecord
	skipped bool
	err     error
}

// ClassifyAll fetches and classifies every ticker with a bounded worker
// pool. Per-ticker failures never abort the batch: tickers with too little
// history are skipped silently, other errors become Failure entries. A
// ticker appearing twice keeps its first occurrence only.
func (c *Classifier) ClassifyAll(ctx context.Context, tickers []string) *model.BatchResult {
	unique := dedupe(tickers)
	outcomes := make([]outcome, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, ticker := range unique {
		i, ticker := i, ticker
		g.Go(func() error {
			outcomes[i] = c.classifyOne(gctx, ticker)
			return nil
		})
	}
	_ = g.Wait() // workers report through their outcome slot

	result := &model.BatchResult{}
	for i, out := range outcomes {
		switch {
		case out.record != nil:
			metrics.Classifications.WithLabelValues("classified").Inc()
			result.Records = append(result.Records, *out.record)
		case out.skipped:
			metrics.Classifications.WithLabelValues("skipped").Inc()
			result.Skipped = append(result.Skipped, unique[i])
		case out.err != nil:
			metrics.Classifications.WithLabelValues("failed").Inc()
			result.Failures = append(result.Failures, model.Failure{
				Ticker: unique[i],
				Reason: out.err.Error(),
			})
		}
	}

	c.log.Info().
		Int("input", len(tickers)).
		Int("classified", result.Classified()).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failures)).
		Msg("classification pass finished")
	return result
}

func (c *Classifier) classifyOne(ctx context.Context, ticker string) outcome {
	fctx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	series, err := c.prices.Get(fctx, ticker, c.opts.HistoryBars, c.opts.Interval)
	if err != nil {
		c.log.Warn().Str("ticker", ticker).Err(err).Msg("price fetch failed")
		return outcome{err: err}
	}

	closes := series.Closes()
	rsi, err := calculator.RSI(closes, c.opts.RSIPeriod)
	if errors.Is(err, model.ErrInsufficientData) {
		c.log.Debug().Str("ticker", ticker).Int("bars", len(closes)).Msg("too little history, skipping")
		return outcome{skipped: true}
	}
	if err != nil {
		c.log.Warn().Str("ticker", ticker).Err(err).Msg("rsi computation failed")
		return outcome{err: err}
	}

	rsi = calculator.Round2(rsi)
	return outcome{record: &model.ClassificationRecord{
		Ticker: ticker,
		RSI:    rsi,
		Tier:   model.TierFor(rsi),
	}}
}

func dedupe(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
