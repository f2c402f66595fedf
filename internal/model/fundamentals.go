package model

import "github.com/shopspring/decimal"

// TickerColumn is the provider's header for the asset symbol column.
const TickerColumn = "Papel"

// FundamentalsRow is one ticker's cross-sectional metrics. Values are keyed
// by column name; the ticker column itself is kept separate.
type FundamentalsRow struct {
	Ticker string                     `json:"ticker"`
	Values map[string]decimal.Decimal `json:"values"`
}

// FundamentalsTable is the wide table returned by the fundamentals
// provider, one row per known ticker. Consumers treat it as read-only.
type FundamentalsTable struct {
	Columns []string          `json:"columns"`
	Rows    []FundamentalsRow `json:"rows"`
}

// Lookup returns the row for a ticker, if the provider knows it.
func (t *FundamentalsTable) Lookup(ticker string) (FundamentalsRow, bool) {
	for _, r := range t.Rows {
		if r.Ticker == ticker {
			return r, true
		}
	}
	return FundamentalsRow{}, false
}
