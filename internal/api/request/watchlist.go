package request

// WatchlistAddRequest is the body of POST /api/watchlist and
// POST /api/watchlist/toggle.
type WatchlistAddRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
