package model

// Tier is one of six ordered RSI classification buckets.
// Rank 1 is the most oversold; the upper bound is inclusive.
type Tier struct {
	Rank  int     `json:"rank"`
	Label string  `json:"label"`
	Max   float64 `json:"-"`
}

// Tiers defines the 6-level classification mapping in display order.
var Tiers = []Tier{
	{Rank: 1, Label: "Comprar Agora (Verde -∞|30)", Max: 30},
	{Rank: 2, Label: "Comprar sob Análise (Amarelo 31|35)", Max: 35},
	{Rank: 3, Label: "Atenção para Compra (Vermelho 36|50)", Max: 50},
	{Rank: 4, Label: "Atenção para Venda (Vermelho 51|65)", Max: 65},
	{Rank: 5, Label: "Vender sob Análise (Amarelo 66|70)", Max: 70},
	{Rank: 6, Label: "Vender Agora (Verde 71|+∞)", Max: 100},
}

// BuyTiers and SellTiers split the six tiers into the oversold and
// overbought halves used by the primary filter.
var (
	BuyTiers  = Tiers[:3]
	SellTiers = Tiers[3:]
)

// TierFor maps an RSI value to its tier. Boundary values belong to the
// lower-ranked tier (30.00 is still "Comprar Agora").
func TierFor(rsi float64) Tier {
	for _, t := range Tiers {
		if rsi <= t.Max {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// TierByLabel resolves a tier from its display label.
func TierByLabel(label string) (Tier, bool) {
	for _, t := range Tiers {
		if t.Label == label {
			return t, true
		}
	}
	return Tier{}, false
}

// ClassificationRecord is one classified asset: ticker, latest RSI rounded
// to 2 decimals, and the tier containing it.
type ClassificationRecord struct {
	Ticker string  `json:"ticker"`
	RSI    float64 `json:"rsi"`
	Tier   Tier    `json:"tier"`
}

// ClassificationTable holds one record per successfully classified ticker.
type ClassificationTable []ClassificationRecord

// Tickers returns the distinct tickers in table order.
func (t ClassificationTable) Tickers() []string {
	seen := make(map[string]bool, len(t))
	out := make([]string, 0, len(t))
	for _, r := range t {
		if !seen[r.Ticker] {
			seen[r.Ticker] = true
			out = append(out, r.Ticker)
		}
	}
	return out
}

// Failure records one ticker that could not be classified.
type Failure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// BatchResult aggregates the per-ticker outcomes of a classification run.
// Skipped tickers had too little history for RSI; Failures cover fetch and
// computation errors. Records+Skipped+Failures covers every input ticker.
type BatchResult struct {
	Records  ClassificationTable `json:"records"`
	Skipped  []string            `json:"skipped,omitempty"`
	Failures []Failure           `json:"failures,omitempty"`
}

// Classified returns the number of tickers that produced a record.
func (r *BatchResult) Classified() int { return len(r.Records) }
