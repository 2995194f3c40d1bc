package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/nepse-tools/tracker-backend/internal/model"
)

// StubFetcher is an in-memory implementation of service.Fetcher for tests.
// It serves a fixed snapshot and per-symbol candle series, and counts
// candle fetches so cache behavior can be asserted.
type StubFetcher struct {
	mu sync.Mutex

	SnapshotData *model.Snapshot
	SnapshotErr  error
	CandleData   map[string][]model.Candle
	CandleErr    error

	snapshotCalls int
	candleCalls   map[string]int
}

func (f *StubFetcher) FetchSnapshot(ctx context.Context) (*model.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.snapshotCalls++
	if f.SnapshotErr != nil {
		return nil, f.SnapshotErr
	}
	return f.SnapshotData, nil
}

func (f *StubFetcher) FetchCandles(ctx context.Context, symbol string, from time.Time) ([]model.Candle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.candleCalls == nil {
		f.candleCalls = make(map[string]int)
	}
	f.candleCalls[symbol]++

	if f.CandleErr != nil {
		return nil, f.CandleErr
	}
	return f.CandleData[symbol], nil
}

// SnapshotCalls reports how many snapshot fetches were issued.
func (f *StubFetcher) SnapshotCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotCalls
}

// CandleCalls reports how many candle fetches were issued for a symbol.
func (f *StubFetcher) CandleCalls(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.candleCalls[symbol]
}

// Snapshot builds a snapshot over the given quotes with a fixed NEPSE
// index row, suitable for most tests.
func Snapshot(quotes ...model.Quote) *model.Snapshot {
	return &model.Snapshot{
		LiveData: quotes,
		Indices: []model.IndexValue{
			{Index: "NEPSE Index", CurrentValue: 2000.5, Change: 10.2, PercentChange: 0.51},
		},
		Summary: []model.SummaryItem{
			{Key: "Total Turnover Rs:", Value: "5,000,000,000"},
		},
		FetchedAt: time.Date(2025, 1, 15, 11, 0, 0, 0, time.UTC),
	}
}

// Quote builds a live quote with the fields tests care about.
func Quote(symbol string, price, change, perChange float64) model.Quote {
	return model.Quote{
		Symbol:          symbol,
		CompanyName:     symbol + " Ltd.",
		LastTradedPrice: price,
		Change:          change,
		PercentChange:   perChange,
	}
}
