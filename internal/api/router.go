package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nepse-tools/tracker-backend/internal/api/handlers"
	custommiddleware "github.com/nepse-tools/tracker-backend/internal/api/middleware"
	"github.com/nepse-tools/tracker-backend/internal/config"
	"github.com/nepse-tools/tracker-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	marketService *service.MarketService,
	watchlistService *service.WatchlistService,
	portfolioService *service.PortfolioService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/market", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(marketService)
			r.Get("/snapshot", marketHandler.Snapshot)
			r.Post("/refresh", marketHandler.Refresh)
			r.Get("/movers", marketHandler.Movers)
			r.Get("/chart/{symbol}", marketHandler.Chart)
		})

		r.Route("/watchlist", func(r chi.Router) {
			watchlistHandler := handlers.NewWatchlistHandler(watchlistService, marketService)
			r.Get("/", watchlistHandler.List)
			r.Post("/", watchlistHandler.Add)
			r.Post("/toggle", watchlistHandler.Toggle)
			r.Delete("/{id}", watchlistHandler.Remove)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
			r.Get("/", portfolioHandler.List)
			r.Post("/", portfolioHandler.Create)
			r.Get("/summary", portfolioHandler.DefaultSummary)
			r.Get("/selected", portfolioHandler.Selected)

			r.Route("/{portfolioId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidatePortfolioID)
				r.Get("/", portfolioHandler.Get)
				r.Put("/", portfolioHandler.Rename)
				r.Delete("/", portfolioHandler.Delete)
				r.Post("/default", portfolioHandler.SetDefault)
				r.Post("/select", portfolioHandler.Select)
				r.Get("/summary", portfolioHandler.Summary)
				r.Post("/transaction", portfolioHandler.RecordTransaction)
				r.Delete("/holding/{symbol}", portfolioHandler.DeleteHolding)
			})
		})
	})

	return r
}
