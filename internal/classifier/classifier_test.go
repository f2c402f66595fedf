package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/guilherme-rhein/invest-smart-b3/internal/cache"
	"github.com/guilherme-rhein/invest-smart-b3/internal/collector"
	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

func closesDown(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 200 - float64(i)
	}
	return out
}

func closesUp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func closesBalanced(n int) []float64 {
	out := make([]float64, n)
	out[0] = 100
	for i := 1; i < n; i++ {
		if i%2 == 1 {
			out[i] = out[i-1] + 1
		} else {
			out[i] = out[i-1] - 1
		}
	}
	return out
}

func newTestClassifier(fetcher collector.Fetcher) *Classifier {
	prices := cache.NewPriceSeriesCache(fetcher, 6*time.Hour, zerolog.Nop())
	return New(prices, Options{Workers: 4, FetchTimeout: time.Second}, zerolog.Nop())
}

func TestClassifyAll_Scenario(t *testing.T) {
	// AAA is heavily sold (RSI 0, buy side), BBB oscillates around neutral
	// (RSI 51.92), CCC has too little history, DDD's provider call fails.
	mock := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"AAA.SA": collector.BarsFromCloses(closesDown(60)),
			"BBB.SA": collector.BarsFromCloses(closesBalanced(60)),
			"CCC.SA": collector.BarsFromCloses(closesUp(5)),
		},
		Errs: map[string]error{"DDD.SA": errors.New("timeout")},
	}
	cl := newTestClassifier(mock)

	result := cl.ClassifyAll(context.Background(), []string{"AAA.SA", "BBB.SA", "CCC.SA", "DDD.SA"})

	if result.Classified() != 2 {
		t.Fatalf("expected 2 records, got %d", result.Classified())
	}
	if result.Records[0].Ticker != "AAA.SA" || result.Records[1].Ticker != "BBB.SA" {
		t.Errorf("expected input order, got %v", result.Records.Tickers())
	}
	if got := result.Records[0].Tier.Rank; got != 1 {
		t.Errorf("AAA: expected most-oversold tier, got rank %d", got)
	}
	if got := result.Records[1]; got.RSI != 51.92 || got.Tier.Rank != 4 {
		t.Errorf("BBB: expected RSI 51.92 in tier 4, got %.2f rank %d", got.RSI, got.Tier.Rank)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "CCC.SA" {
		t.Errorf("expected CCC skipped for short history, got %v", result.Skipped)
	}
	if len(result.Failures) != 1 || result.Failures[0].Ticker != "DDD.SA" {
		t.Errorf("expected DDD failure entry, got %v", result.Failures)
	}
}

func TestClassifyAll_FailureDoesNotAbortBatch(t *testing.T) {
	mock := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"GOOD.SA": collector.BarsFromCloses(closesUp(60)),
		},
		Errs: map[string]error{"BAD.SA": errors.New("boom")},
	}
	cl := newTestClassifier(mock)

	result := cl.ClassifyAll(context.Background(), []string{"BAD.SA", "GOOD.SA"})
	if result.Classified() != 1 {
		t.Fatalf("expected the good ticker classified, got %d records", result.Classified())
	}
	// Monotonic rise means zero average loss; RSI pegs at 100 and lands in
	// the top sell tier.
	rec := result.Records[0]
	if rec.RSI != 100 || rec.Tier.Rank != 6 {
		t.Errorf("expected RSI 100 in tier 6, got %.2f rank %d", rec.RSI, rec.Tier.Rank)
	}
}

func TestClassifyAll_DuplicateTickersKeepFirst(t *testing.T) {
	mock := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"AAA.SA": collector.BarsFromCloses(closesBalanced(60)),
		},
	}
	cl := newTestClassifier(mock)

	result := cl.ClassifyAll(context.Background(), []string{"AAA.SA", "AAA.SA", "AAA.SA"})
	if result.Classified() != 1 {
		t.Fatalf("expected duplicates collapsed to one record, got %d", result.Classified())
	}
}

func TestClassifyAll_Idempotent(t *testing.T) {
	mock := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"AAA.SA": collector.BarsFromCloses(closesBalanced(60)),
		},
	}
	cl := newTestClassifier(mock)

	first := cl.ClassifyAll(context.Background(), []string{"AAA.SA"})
	second := cl.ClassifyAll(context.Background(), []string{"AAA.SA"})
	if first.Records[0] != second.Records[0] {
		t.Errorf("expected identical records within the cache TTL: %+v vs %+v",
			first.Records[0], second.Records[0])
	}
	if mock.Calls != 1 {
		t.Errorf("second run must be served from cache, got %d fetches", mock.Calls)
	}
}

func TestClassifyAll_EmptyInput(t *testing.T) {
	cl := newTestClassifier(&collector.MockFetcher{})
	result := cl.ClassifyAll(context.Background(), nil)
	if result.Classified() != 0 || len(result.Skipped) != 0 || len(result.Failures) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
