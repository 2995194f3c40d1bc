package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nepse-tools/tracker-backend/internal/api/request"
	"github.com/nepse-tools/tracker-backend/internal/api/response"
	"github.com/nepse-tools/tracker-backend/internal/model"
	"github.com/nepse-tools/tracker-backend/internal/service"
	"github.com/nepse-tools/tracker-backend/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// List serves all portfolios.
//
// Endpoint: GET /api/portfolio
func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioService.List(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, portfolios)
}

// Get serves one portfolio by ID.
//
// Endpoint: GET /api/portfolio/{portfolioId}
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolioService.Get(r.Context(), chi.URLParam(r, "portfolioId"))
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, portfolio)
}

// Create adds a new portfolio.
//
// Endpoint: POST /api/portfolio
func (h *PortfolioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolio, err := h.portfolioService.Create(r.Context(), req.Name, req.IsDefault)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, portfolio)
}

// Rename overwrites a portfolio's name.
//
// Endpoint: PUT /api/portfolio/{portfolioId}
func (h *PortfolioHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req request.RenamePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRenamePortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	id := chi.URLParam(r, "portfolioId")
	if err := h.portfolioService.Rename(r.Context(), id, req.Name); err != nil {
		respondAppError(w, err)
		return
	}

	portfolio, err := h.portfolioService.Get(r.Context(), id)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, portfolio)
}

// Delete removes a portfolio and everything it owns.
//
// Endpoint: DELETE /api/portfolio/{portfolioId}
func (h *PortfolioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.Delete(r.Context(), chi.URLParam(r, "portfolioId")); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// SetDefault flags a portfolio as the default one.
//
// Endpoint: POST /api/portfolio/{portfolioId}/default
func (h *PortfolioHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.SetDefault(r.Context(), chi.URLParam(r, "portfolioId")); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Select marks a portfolio as the one currently open in the client.
//
// Endpoint: POST /api/portfolio/{portfolioId}/select
func (h *PortfolioHandler) Select(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.Select(r.Context(), chi.URLParam(r, "portfolioId")); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Selected serves the currently selected portfolio, falling back to the
// default and then the first portfolio. Responds 404 when none exist.
//
// Endpoint: GET /api/portfolio/selected
func (h *PortfolioHandler) Selected(w http.ResponseWriter, r *http.Request) {
	portfolio, ok, err := h.portfolioService.Selected(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	if !ok {
		response.RespondError(w, http.StatusNotFound, "no portfolios exist", "")
		return
	}

	respondJSON(w, http.StatusOK, portfolio)
}

// RecordTransaction applies a buy or sell to a portfolio.
//
// Endpoint: POST /api/portfolio/{portfolioId}/transaction
func (h *PortfolioHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req request.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolio, err := h.portfolioService.RecordTransaction(
		r.Context(),
		chi.URLParam(r, "portfolioId"),
		req.Symbol,
		req.Name,
		model.TransactionType(req.Type),
		req.Quantity,
		req.Price,
		req.Notes,
	)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, portfolio)
}

// DeleteHolding removes a holding, history included.
//
// Endpoint: DELETE /api/portfolio/{portfolioId}/holding/{symbol}
func (h *PortfolioHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	err := h.portfolioService.DeleteHolding(
		r.Context(),
		chi.URLParam(r, "portfolioId"),
		chi.URLParam(r, "symbol"),
	)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// SummaryResponse is a portfolio priced against the current snapshot
type SummaryResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	IsDefault  bool    `json:"isDefault"`
	Holdings   int     `json:"holdings"`
	TotalValue float64 `json:"totalValue"`
	Invested   float64 `json:"invested"`
	ProfitLoss float64 `json:"profitLoss"`
}

// Summary serves a portfolio's valuation against the current snapshot.
//
// Endpoint: GET /api/portfolio/{portfolioId}/summary
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "portfolioId")

	portfolio, err := h.portfolioService.Get(r.Context(), id)
	if err != nil {
		respondAppError(w, err)
		return
	}

	valuation, err := h.portfolioService.Valuation(r.Context(), id)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summaryOf(portfolio, valuation))
}

// DefaultSummary serves the default portfolio's valuation, the at-a-glance
// card on the dashboard. Responds 404 when no portfolio is flagged default.
//
// Endpoint: GET /api/portfolio/summary
func (h *PortfolioHandler) DefaultSummary(w http.ResponseWriter, r *http.Request) {
	portfolio, ok, err := h.portfolioService.Default(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	if !ok {
		response.RespondError(w, http.StatusNotFound, "no default portfolio", "")
		return
	}

	valuation, err := h.portfolioService.Valuation(r.Context(), portfolio.ID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summaryOf(portfolio, valuation))
}

func summaryOf(p model.Portfolio, v model.Valuation) SummaryResponse {
	return SummaryResponse{
		ID:         p.ID,
		Name:       p.Name,
		IsDefault:  p.IsDefault,
		Holdings:   len(p.Holdings),
		TotalValue: v.TotalValue,
		Invested:   v.Invested,
		ProfitLoss: v.ProfitLoss,
	}
}
