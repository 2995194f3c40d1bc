package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nepse-tools/tracker-backend/internal/apperrors"
	"github.com/nepse-tools/tracker-backend/internal/model"
)

// chartHistory is how far back the historical candle fetch reaches.
const chartHistory = 365 * 24 * time.Hour

// Fetcher is the upstream market-data dependency of MarketService.
type Fetcher interface {
	FetchSnapshot(ctx context.Context) (*model.Snapshot, error)
	FetchCandles(ctx context.Context, symbol string, from time.Time) ([]model.Candle, error)
}

// MarketService owns the last fetched market snapshot and the session-scoped
// chart cache. The snapshot is treated as authoritative until the next
// successful refresh; a failed refresh keeps the last known good state.
type MarketService struct {
	fetcher Fetcher

	mu       sync.RWMutex
	snapshot *model.Snapshot
	charts   map[string][]model.Candle
}

// NewMarketService creates a MarketService with the provided fetcher.
func NewMarketService(fetcher Fetcher) *MarketService {
	return &MarketService{
		fetcher: fetcher,
		charts:  make(map[string][]model.Candle),
	}
}

// Refresh fetches a new market snapshot and replaces the held one. On
// failure the previous snapshot stays in place and the error is returned
// for the caller to surface a manual-retry affordance; there is no
// automatic retry.
func (s *MarketService) Refresh(ctx context.Context) error {
	snapshot, err := s.fetcher.FetchSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh market snapshot: %w", err)
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	return nil
}

// Snapshot returns the held snapshot, fetching one first if none exists yet.
func (s *MarketService) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()

	if snapshot != nil {
		return snapshot, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSnapshotUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, nil
}

// Quote returns the live quote for a symbol from the held snapshot.
// It reports false when no snapshot exists or the symbol is unknown.
func (s *MarketService) Quote(symbol string) (model.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return model.Quote{}, false
	}
	return s.snapshot.Quote(symbol)
}

// QuoteMap returns the held snapshot's quotes indexed by symbol. The map is
// empty when no snapshot has been fetched yet.
func (s *MarketService) QuoteMap() map[string]model.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return map[string]model.Quote{}
	}
	return s.snapshot.QuoteMap()
}

// Index returns the index value with the given name (e.g. "NEPSE Index").
func (s *MarketService) Index(name string) (model.IndexValue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return model.IndexValue{}, false
	}
	for _, idx := range s.snapshot.Indices {
		if idx.Index == name {
			return idx, true
		}
	}
	return model.IndexValue{}, false
}

// SummaryValue returns the market summary value for a key (e.g. "Total Turnover Rs:").
func (s *MarketService) SummaryValue(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return "", false
	}
	for _, item := range s.snapshot.Summary {
		if item.Key == key {
			return item.Value, true
		}
	}
	return "", false
}

// TopGainers returns the n live quotes with the highest percentage change.
func (s *MarketService) TopGainers(n int) []model.Quote {
	return s.topMovers(n, func(a, b model.Quote) bool {
		return a.PercentChange > b.PercentChange
	})
}

// TopLosers returns the n live quotes with the lowest percentage change.
func (s *MarketService) TopLosers(n int) []model.Quote {
	return s.topMovers(n, func(a, b model.Quote) bool {
		return a.PercentChange < b.PercentChange
	})
}

func (s *MarketService) topMovers(n int, less func(a, b model.Quote) bool) []model.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return []model.Quote{}
	}

	movers := make([]model.Quote, 0, len(s.snapshot.LiveData))
	for _, q := range s.snapshot.LiveData {
		if q.Symbol != "" {
			movers = append(movers, q)
		}
	}

	sort.SliceStable(movers, func(i, j int) bool { return less(movers[i], movers[j]) })

	if len(movers) > n {
		movers = movers[:n]
	}
	return movers
}

// Series returns the cached candle series for a symbol without fetching.
func (s *MarketService) Series(symbol string) ([]model.Candle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.charts[symbol]
	return series, ok
}

// Candles returns the historical candle series for a symbol, serving from
// the session cache when possible. A cache miss fetches one year of history
// and fills the cache.
func (s *MarketService) Candles(ctx context.Context, symbol string) ([]model.Candle, error) {
	if series, ok := s.Series(symbol); ok {
		return series, nil
	}

	series, err := s.fetcher.FetchCandles(ctx, symbol, time.Now().Add(-chartHistory))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart data for %s: %w", symbol, err)
	}

	return s.fill(symbol, series), nil
}

// fill stores a fetched series under symbol. The first write wins: a series
// already cached is returned unchanged, so a stale response arriving late
// never overwrites an earlier one.
func (s *MarketService) fill(symbol string, series []model.Candle) []model.Candle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.charts[symbol]; ok {
		return existing
	}
	s.charts[symbol] = series
	return series
}

// Prefetch loads the candle series for all given symbols in parallel,
// skipping symbols already cached. It is used to warm the cache for
// watchlist and market-mover mini charts in one pass.
func (s *MarketService) Prefetch(ctx context.Context, symbols []string) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, symbol := range symbols {
		if _, ok := s.Series(symbol); ok {
			continue
		}
		g.Go(func() error {
			_, err := s.Candles(ctx, symbol)
			return err
		})
	}

	return g.Wait()
}
