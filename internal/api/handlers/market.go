package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nepse-tools/tracker-backend/internal/model"
	"github.com/nepse-tools/tracker-backend/internal/service"
)

// moverCount is how many gainers and losers the movers endpoint returns,
// matching the market screen's card row.
const moverCount = 4

// MarketHandler handles market-data HTTP requests
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// Snapshot serves the current market snapshot, fetching one if none is held yet.
//
// Endpoint: GET /api/market/snapshot
func (h *MarketHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.marketService.Snapshot(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// Refresh re-fetches the market snapshot. This is the manual-retry surface:
// a failed refresh keeps the last known good snapshot and reports the error.
//
// Endpoint: POST /api/market/refresh
func (h *MarketHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.marketService.Refresh(r.Context()); err != nil {
		respondAppError(w, err)
		return
	}

	snapshot, err := h.marketService.Snapshot(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// MoversResponse represents the top gainers and losers of the session
type MoversResponse struct {
	Gainers []model.Quote `json:"gainers"`
	Losers  []model.Quote `json:"losers"`
}

// Movers serves the session's top gainers and losers.
//
// Endpoint: GET /api/market/movers
func (h *MarketHandler) Movers(w http.ResponseWriter, r *http.Request) {
	if _, err := h.marketService.Snapshot(r.Context()); err != nil {
		respondAppError(w, err)
		return
	}

	response := MoversResponse{
		Gainers: h.marketService.TopGainers(moverCount),
		Losers:  h.marketService.TopLosers(moverCount),
	}

	respondJSON(w, http.StatusOK, response)
}

// Chart serves one year of historical candles for a symbol, cached for the
// session after the first fetch.
//
// Endpoint: GET /api/market/chart/{symbol}
func (h *MarketHandler) Chart(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	candles, err := h.marketService.Candles(r.Context(), symbol)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, candles)
}
