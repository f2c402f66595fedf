package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

type stubSource struct {
	calls     int
	err       error
	sawCtxErr error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchTable(ctx context.Context) (*model.FundamentalsTable, error) {
	s.calls++
	s.sawCtxErr = ctx.Err()
	if s.err != nil {
		return nil, s.err
	}
	return &model.FundamentalsTable{
		Columns: []string{model.TickerColumn, "P/L"},
		Rows: []model.FundamentalsRow{
			{Ticker: "PETR4.SA", Values: map[string]decimal.Decimal{"P/L": decimal.NewFromFloat(4.2)}},
		},
	}, nil
}

func TestFundamentalsCache_FetchesOncePerSession(t *testing.T) {
	src := &stubSource{}
	c := NewFundamentalsCache(src, zerolog.Nop())

	a, err := c.GetAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.GetAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if src.calls != 1 {
		t.Errorf("expected a single provider fetch, got %d", src.calls)
	}
	if a != b {
		t.Error("expected the stored table on the second call")
	}
}

func TestFundamentalsCache_FailureIsNotCached(t *testing.T) {
	src := &stubSource{err: errors.New("unreachable")}
	c := NewFundamentalsCache(src, zerolog.Nop())

	if _, err := c.GetAll(context.Background()); err == nil {
		t.Fatal("expected provider error")
	}
	src.err = nil
	table, err := c.GetAll(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(table.Rows) != 1 {
		t.Errorf("unexpected table: %+v", table)
	}
	if src.calls != 2 {
		t.Errorf("expected 2 provider calls, got %d", src.calls)
	}
}

func TestFundamentalsCache_FetchSurvivesCallerCancel(t *testing.T) {
	src := &stubSource{}
	c := NewFundamentalsCache(src, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GetAll(ctx); err != nil {
		t.Fatalf("fetch shared via the flight group must not inherit the caller's cancel: %v", err)
	}
	if src.sawCtxErr != nil {
		t.Errorf("fetch ran under a canceled context: %v", src.sawCtxErr)
	}
}

func TestFundamentalsCache_Invalidate(t *testing.T) {
	src := &stubSource{}
	c := NewFundamentalsCache(src, zerolog.Nop())

	if _, err := c.GetAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	c.Invalidate()
	if _, err := c.GetAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if src.calls != 2 {
		t.Errorf("expected re-fetch after invalidation, got %d calls", src.calls)
	}
}
