package collector

import (
	"context"
	"sync"
	"time"

	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Safe for concurrent use.
type MockFetcher struct {
	Bars map[string][]model.OHLCV
	Errs map[string]error

	mu    sync.Mutex
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context, ticker string, window int, _ string) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if err, ok := m.Errs[ticker]; ok {
		return nil, &model.FetchError{Provider: m.Name(), Key: ticker, Err: err}
	}
	if bars, ok := m.Bars[ticker]; ok {
		if len(bars) > window {
			bars = bars[len(bars)-window:]
		}
		return bars, nil
	}
	return GenerateBars(100, window), nil
}

// GenerateBars builds a mildly trending series around basePrice.
func GenerateBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// BarsFromCloses builds daily bars from an explicit close sequence, useful
// for constructing series with a known RSI.
func BarsFromCloses(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(len(closes) - i)),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}
