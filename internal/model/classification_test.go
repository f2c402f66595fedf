package model

import "testing"

func TestTierFor_AllBoundaries(t *testing.T) {
	tests := []struct {
		rsi  float64
		rank int
	}{
		{0, 1},
		{28, 1},
		{30, 1}, // boundary belongs to the lower tier
		{30.01, 2},
		{35, 2},
		{35.01, 3},
		{50, 3},
		{50.01, 4},
		{52, 4},
		{65, 4},
		{65.01, 5},
		{70, 5},
		{70.01, 6},
		{100, 6},
	}
	for _, tt := range tests {
		if got := TierFor(tt.rsi); got.Rank != tt.rank {
			t.Errorf("TierFor(%.2f): expected rank %d, got %d (%s)", tt.rsi, tt.rank, got.Rank, got.Label)
		}
	}
}

func TestTiers_PartitionWithoutGapOrOverlap(t *testing.T) {
	if len(Tiers) != 6 {
		t.Fatalf("expected 6 tiers, got %d", len(Tiers))
	}
	prev := 0.0
	for i, tier := range Tiers {
		if tier.Rank != i+1 {
			t.Errorf("tier %d: unexpected rank %d", i, tier.Rank)
		}
		if tier.Max <= prev && i > 0 {
			t.Errorf("tier %d: max %.1f does not extend the previous bound %.1f", i, tier.Max, prev)
		}
		prev = tier.Max
	}
	if Tiers[len(Tiers)-1].Max != 100 {
		t.Errorf("last tier must cover up to 100, got %.1f", Tiers[len(Tiers)-1].Max)
	}

	// Every representable value maps to exactly one tier by construction;
	// sweep the interval to catch accidental gaps.
	for v := 0.0; v <= 100; v += 0.25 {
		tier := TierFor(v)
		if tier.Rank < 1 || tier.Rank > 6 {
			t.Fatalf("TierFor(%.2f) returned invalid tier %d", v, tier.Rank)
		}
	}
}

func TestBuySellGroups(t *testing.T) {
	if len(BuyTiers) != 3 || len(SellTiers) != 3 {
		t.Fatalf("expected 3+3 tier split, got %d+%d", len(BuyTiers), len(SellTiers))
	}
	if BuyTiers[0].Rank != 1 || SellTiers[0].Rank != 4 {
		t.Error("buy group must start at rank 1 and sell group at rank 4")
	}
}

func TestTierByLabel(t *testing.T) {
	for _, tier := range Tiers {
		got, ok := TierByLabel(tier.Label)
		if !ok || got.Rank != tier.Rank {
			t.Errorf("TierByLabel(%q) failed", tier.Label)
		}
	}
	if _, ok := TierByLabel("nope"); ok {
		t.Error("unknown label must not resolve")
	}
}

func TestClassificationTable_Tickers(t *testing.T) {
	table := ClassificationTable{
		{Ticker: "PETR4.SA"},
		{Ticker: "VALE3.SA"},
		{Ticker: "PETR4.SA"},
	}
	got := table.Tickers()
	if len(got) != 2 || got[0] != "PETR4.SA" || got[1] != "VALE3.SA" {
		t.Errorf("unexpected distinct tickers: %v", got)
	}
}

func TestFilterSpec_SelectsAll(t *testing.T) {
	spec := DefaultFilterSpec()
	if !spec.SelectsAllTickers() || !spec.SelectsAllTiers() {
		t.Error("default spec must select everything")
	}
	spec = FilterSpec{Tickers: []string{"PETR4.SA"}, Tiers: []string{SelectAll, "x"}}
	if spec.SelectsAllTickers() {
		t.Error("explicit ticker list must restrict")
	}
	if !spec.SelectsAllTiers() {
		t.Error("selection containing \"all\" must pass everything")
	}
}
