package model

// WatchlistVersion is the schema version written into the persisted
// watchlist record. A record with a different version is discarded and
// replaced with the empty default on load.
const WatchlistVersion = 1

// WatchlistEntry is a denormalized snapshot of a tracked symbol's quote,
// taken at add-time. It is not a live reference; quote fields update only
// when the whole entry is replaced.
//
// ID is the creation time in Unix milliseconds; IDs are unique and strictly
// increasing by insertion, which makes descending-ID order equal to
// most-recently-added-first.
type WatchlistEntry struct {
	ID              int64   `json:"id"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	LastTradedPrice float64 `json:"lastTradedPrice"`
	Change          float64 `json:"change"`
	PercentChange   float64 `json:"perChange"`
}

// Watchlist is the single persisted watchlist record. Symbol is unique
// across Entries.
type Watchlist struct {
	Version int              `json:"version"`
	Entries []WatchlistEntry `json:"entries"`
}

// NewWatchlist returns the empty default watchlist record.
func NewWatchlist() *Watchlist {
	return &Watchlist{Version: WatchlistVersion, Entries: []WatchlistEntry{}}
}

// Contains reports whether the symbol is already tracked.
func (w *Watchlist) Contains(symbol string) bool {
	for _, e := range w.Entries {
		if e.Symbol == symbol {
			return true
		}
	}
	return false
}
