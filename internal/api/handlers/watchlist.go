package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nepse-tools/tracker-backend/internal/api/request"
	"github.com/nepse-tools/tracker-backend/internal/api/response"
	"github.com/nepse-tools/tracker-backend/internal/service"
	"github.com/nepse-tools/tracker-backend/internal/validation"
)

// WatchlistHandler handles watchlist HTTP requests
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
	marketService    *service.MarketService
}

// NewWatchlistHandler creates a new WatchlistHandler
func NewWatchlistHandler(watchlistService *service.WatchlistService, marketService *service.MarketService) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistService: watchlistService,
		marketService:    marketService,
	}
}

// List serves the watchlist, most recently added first.
//
// Endpoint: GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.watchlistService.Load(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// Add tracks a new symbol. Responds 409 when the symbol is already tracked.
//
// Endpoint: POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req request.WatchlistAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateWatchlistAdd(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entry, err := h.watchlistService.Add(r.Context(), req.Symbol, req.Name)
	if err != nil {
		respondAppError(w, err)
		return
	}

	// Warm the chart cache for the new symbol in the background; a miss
	// here is harmless, the chart endpoint fetches on demand. The request
	// context is not used because it ends with this response.
	go func() {
		_ = h.marketService.Prefetch(context.Background(), []string{entry.Symbol})
	}()

	respondJSON(w, http.StatusCreated, entry)
}

// Remove deletes an entry by ID. Unknown IDs are a no-op.
//
// Endpoint: DELETE /api/watchlist/{id}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid entry ID", err.Error())
		return
	}

	if err := h.watchlistService.Remove(r.Context(), id); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// ToggleResponse reports the tracked state after a toggle
type ToggleResponse struct {
	Symbol  string `json:"symbol"`
	Watched bool   `json:"watched"`
}

// Toggle adds the symbol if absent, removes it if present.
//
// Endpoint: POST /api/watchlist/toggle
func (h *WatchlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req request.WatchlistAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateWatchlistAdd(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	watched, err := h.watchlistService.Toggle(r.Context(), req.Symbol, req.Name)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ToggleResponse{Symbol: req.Symbol, Watched: watched})
}
