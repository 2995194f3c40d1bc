package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/nepse-tools/tracker-backend/internal/model"
	"github.com/nepse-tools/tracker-backend/internal/service"
	"github.com/nepse-tools/tracker-backend/internal/store"
)

// NewTestMarketService creates a MarketService over a StubFetcher and
// loads the fetcher's snapshot into it.
func NewTestMarketService(t *testing.T, fetcher *StubFetcher) *service.MarketService {
	t.Helper()

	svc := service.NewMarketService(fetcher)
	if fetcher.SnapshotData != nil {
		if err := svc.Refresh(context.Background()); err != nil {
			t.Fatalf("Failed to load stub snapshot: %v", err)
		}
	}
	return svc
}

// NewTestWatchlistService wires a WatchlistService over the given database
// and a market service holding the given quotes.
func NewTestWatchlistService(t *testing.T, db *sql.DB, quotes ...model.Quote) *service.WatchlistService {
	t.Helper()

	market := NewTestMarketService(t, &StubFetcher{SnapshotData: Snapshot(quotes...)})
	return service.NewWatchlistService(store.New(db), market)
}

// NewTestPortfolioService wires a PortfolioService over the given database
// and a market service holding the given quotes.
func NewTestPortfolioService(t *testing.T, db *sql.DB, quotes ...model.Quote) *service.PortfolioService {
	t.Helper()

	market := NewTestMarketService(t, &StubFetcher{SnapshotData: Snapshot(quotes...)})
	return service.NewPortfolioService(store.New(db), market)
}

// CreatePortfolio creates a portfolio through the service and fails the
// test on error.
func CreatePortfolio(t *testing.T, svc *service.PortfolioService, name string, isDefault bool) model.Portfolio {
	t.Helper()

	portfolio, err := svc.Create(context.Background(), name, isDefault)
	if err != nil {
		t.Fatalf("Failed to create portfolio %q: %v", name, err)
	}
	return portfolio
}

// Buy records a BUY transaction and fails the test on error.
func Buy(t *testing.T, svc *service.PortfolioService, portfolioID, symbol string, quantity, price float64) model.Portfolio {
	t.Helper()

	portfolio, err := svc.RecordTransaction(context.Background(), portfolioID, symbol, "", model.TransactionBuy, quantity, price, "")
	if err != nil {
		t.Fatalf("Failed to record BUY %s %v@%v: %v", symbol, quantity, price, err)
	}
	return portfolio
}

// Sell records a SELL transaction and fails the test on error.
func Sell(t *testing.T, svc *service.PortfolioService, portfolioID, symbol string, quantity, price float64) model.Portfolio {
	t.Helper()

	portfolio, err := svc.RecordTransaction(context.Background(), portfolioID, symbol, "", model.TransactionSell, quantity, price, "")
	if err != nil {
		t.Fatalf("Failed to record SELL %s %v@%v: %v", symbol, quantity, price, err)
	}
	return portfolio
}
