package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nepse-tools/tracker-backend/internal/api"
	"github.com/nepse-tools/tracker-backend/internal/config"
	"github.com/nepse-tools/tracker-backend/internal/database"
	"github.com/nepse-tools/tracker-backend/internal/peridot"
	"github.com/nepse-tools/tracker-backend/internal/service"
	"github.com/nepse-tools/tracker-backend/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create market data client and services
	marketClient := peridot.NewClient(cfg.Market.BaseURL, cfg.Market.Permission)
	appStore := store.New(db)

	systemService := service.NewSystemService(db)
	marketService := service.NewMarketService(marketClient)
	watchlistService := service.NewWatchlistService(appStore, marketService)
	portfolioService := service.NewPortfolioService(appStore, marketService)

	// Fetch the initial snapshot; a failure here is not fatal, the first
	// request fetches on demand.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := marketService.Refresh(startupCtx); err != nil {
		log.Printf("Initial market snapshot fetch failed: %v", err)
	}
	cancelStartup()

	// Refresh the snapshot on a schedule so clients always see recent data
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Market.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := marketService.Refresh(ctx); err != nil {
			log.Printf("Scheduled market refresh failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule market refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(systemService, marketService, watchlistService, portfolioService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
