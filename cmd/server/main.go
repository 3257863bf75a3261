package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/portfolio-valuation/internal/api"
	"github.com/ndewijer/portfolio-valuation/internal/config"
	"github.com/ndewijer/portfolio-valuation/internal/database"
	"github.com/ndewijer/portfolio-valuation/internal/logging"
	"github.com/ndewijer/portfolio-valuation/internal/repository"
	"github.com/ndewijer/portfolio-valuation/internal/service"
	"github.com/ndewijer/portfolio-valuation/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Log.Level)
	if cfg.Log.JSON {
		logger = logging.NewJSON(cfg.Log.Level)
	}
	// Packages without an injected logger write through the zerolog global.
	log.Logger = logger.Logger

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	logger.Info().Str("path", cfg.Database.Path).Msg("connected to database")

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	cashRepo := repository.NewCashRepository(db)
	rateRepo := repository.NewExchangeRateRepository(db)
	performanceRepo := repository.NewPerformanceRepository(db)

	// Create services
	marketService := service.NewMarketService(
		yahoo.NewFinanceClient(cfg.MarketData.Timeout),
		rateRepo,
		cfg,
		logger,
	)
	portfolioService := service.NewPortfolioService(
		portfolioRepo,
		tradeRepo,
		cashRepo,
		performanceRepo,
		marketService,
		cfg.Valuation.DisplayCurrency,
		logger,
	)
	snapshotService := service.NewSnapshotService(portfolioService, portfolioRepo, performanceRepo, logger)

	services := api.Services{
		System:    service.NewSystemService(db),
		Portfolio: portfolioService,
		Trade:     service.NewTradeService(tradeRepo, portfolioRepo, logger),
		Cash:      service.NewCashService(cashRepo, portfolioRepo, logger),
		Snapshot:  snapshotService,
	}

	if cfg.Snapshot.Enabled {
		scheduler, err := snapshotService.Start(cfg.Snapshot.Schedule)
		if err != nil {
			logger.Fatalf("Failed to start snapshot scheduler: %v", err)
		}
		defer func() {
			// Wait for a running snapshot job to finish.
			<-scheduler.Stop().Done()
		}()
	}

	// Create router
	router := api.NewRouter(services, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logger.Info().Msg("server exited")
}
