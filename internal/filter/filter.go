// Package filter implements the primary and secondary classification
// filters and the fundamentals reconciliation step.
package filter

import (
	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

// ApplyPrimary keeps the tier group selected by mode and regroups the
// surviving rows by fixed tier rank. Tiers with no rows are skipped.
func ApplyPrimary(table model.ClassificationTable, mode model.PrimaryMode) model.ClassificationTable {
	var tiers []model.Tier
	switch mode {
	case model.PrimaryBuy:
		tiers = model.BuyTiers
	case model.PrimarySell:
		tiers = model.SellTiers
	case model.PrimaryNone:
		return model.ClassificationTable{}
	default:
		tiers = model.Tiers
	}

	out := make(model.ClassificationTable, 0, len(table))
	for _, tier := range tiers {
		for _, rec := range table {
			if rec.Tier.Rank == tier.Rank {
				out = append(out, rec)
			}
		}
	}
	return out
}

// Stage is a single secondary-filter predicate over one record.
type Stage interface {
	Apply(rec model.ClassificationRecord) bool
}

// RSIRangeStage keeps records whose RSI lies in [Min, Max], both inclusive.
type RSIRangeStage struct {
	Min, Max float64
}

func (s RSIRangeStage) Apply(rec model.ClassificationRecord) bool {
	return rec.RSI >= s.Min && rec.RSI <= s.Max
}

// TickerStage keeps records whose ticker is in the selection. A nil set is
// a pass-through.
type TickerStage struct {
	Selected map[string]bool
}

func (s TickerStage) Apply(rec model.ClassificationRecord) bool {
	return s.Selected == nil || s.Selected[rec.Ticker]
}

// TierStage keeps records whose tier label is in the selection. A nil set
// is a pass-through.
type TierStage struct {
	Selected map[string]bool
}

func (s TierStage) Apply(rec model.ClassificationRecord) bool {
	return s.Selected == nil || s.Selected[rec.Tier.Label]
}

// StagesFor builds the ordered stage list for a spec: RSI range, then
// ticker set, then tier set.
func StagesFor(spec model.FilterSpec) []Stage {
	stages := []Stage{RSIRangeStage{Min: spec.MinRSI, Max: spec.MaxRSI}}

	var tickers map[string]bool
	if !spec.SelectsAllTickers() {
		tickers = make(map[string]bool, len(spec.Tickers))
		for _, t := range spec.Tickers {
			tickers[t] = true
		}
	}
	stages = append(stages, TickerStage{Selected: tickers})

	var tiers map[string]bool
	if !spec.SelectsAllTiers() {
		tiers = make(map[string]bool, len(spec.Tiers))
		for _, t := range spec.Tiers {
			tiers[t] = true
		}
	}
	stages = append(stages, TierStage{Selected: tiers})
	return stages
}

// ApplySecondary runs the spec's stages in order as a sequential
// intersection over the table's rows.
func ApplySecondary(table model.ClassificationTable, spec model.FilterSpec) model.ClassificationTable {
	rows := table
	for _, stage := range StagesFor(spec) {
		kept := make(model.ClassificationTable, 0, len(rows))
		for _, rec := range rows {
			if stage.Apply(rec) {
				kept = append(kept, rec)
			}
		}
		rows = kept
	}
	return rows
}

// Reconcile intersects a target ticker set with the fundamentals table.
// Matched rows come back in target order; unmatched is target minus
// matched. No row is ever fabricated for an unknown ticker.
func Reconcile(target []string, fund *model.FundamentalsTable) (*model.FundamentalsTable, []string) {
	matched := &model.FundamentalsTable{Columns: fund.Columns}
	var unmatched []string
	seen := make(map[string]bool, len(target))
	for _, ticker := range target {
		if seen[ticker] {
			continue
		}
		seen[ticker] = true
		if row, ok := fund.Lookup(ticker); ok {
			matched.Rows = append(matched.Rows, row)
		} else {
			unmatched = append(unmatched, ticker)
		}
	}
	return matched, unmatched
}
