package model

// PrimaryMode selects which tier group the primary filter keeps.
type PrimaryMode string

const (
	PrimaryAll  PrimaryMode = "all"
	PrimaryBuy  PrimaryMode = "buy"
	PrimarySell PrimaryMode = "sell"
	PrimaryNone PrimaryMode = "none"
)

// ParsePrimaryMode validates a primary filter mode, defaulting to all.
func ParsePrimaryMode(s string) (PrimaryMode, bool) {
	switch PrimaryMode(s) {
	case PrimaryAll, "":
		return PrimaryAll, true
	case PrimaryBuy, PrimarySell, PrimaryNone:
		return PrimaryMode(s), true
	}
	return PrimaryAll, false
}

// SelectAll is the wildcard member of the ticker and tier selections.
const SelectAll = "all"

// FilterSpec describes one secondary filter application. A nil or
// "all"-containing selection passes every row. Built fresh per request.
type FilterSpec struct {
	MinRSI  float64  `json:"min_rsi"`
	MaxRSI  float64  `json:"max_rsi"`
	Tickers []string `json:"tickers"`
	Tiers   []string `json:"tiers"`
}

// DefaultFilterSpec matches every possible record.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{MinRSI: 0, MaxRSI: 100, Tickers: []string{SelectAll}, Tiers: []string{SelectAll}}
}

// SelectsAllTickers reports whether the spec restricts the ticker set.
func (s FilterSpec) SelectsAllTickers() bool { return selectsAll(s.Tickers) }

// SelectsAllTiers reports whether the spec restricts the tier set.
func (s FilterSpec) SelectsAllTiers() bool { return selectsAll(s.Tiers) }

func selectsAll(selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == SelectAll {
			return true
		}
	}
	return false
}
