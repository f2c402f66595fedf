package collector

import (
	"context"

	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

// Fetcher defines the interface for fetching price history. Window is the
// number of trailing bars wanted at the given interval ("1d", "1wk").
type Fetcher interface {
	Fetch(ctx context.Context, ticker string, window int, interval string) ([]model.OHLCV, error)
	Name() string
}
