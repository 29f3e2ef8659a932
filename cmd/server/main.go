package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mverdier/equitrack/internal/api"
	"github.com/mverdier/equitrack/internal/config"
	"github.com/mverdier/equitrack/internal/database"
	"github.com/mverdier/equitrack/internal/marketdata"
	"github.com/mverdier/equitrack/internal/repository"
	"github.com/mverdier/equitrack/internal/service"
	"github.com/mverdier/equitrack/internal/tax"
	"github.com/mverdier/equitrack/internal/version"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	logger.Info().Str("path", cfg.Database.Path).Msg("connected to database")

	// Create repositories
	ledgerRepo := repository.NewLedgerRepository(db)
	dividendRepo := repository.NewDividendRepository(db)
	marketCacheRepo := repository.NewMarketCacheRepository(db)

	// Create services
	marketClient := marketdata.NewClient(cfg.Market.FetchTimeout)
	systemService := service.NewSystemService(db)
	transactionService := service.NewTransactionService(ledgerRepo)
	dividendService := service.NewDividendService(dividendRepo, ledgerRepo, marketClient, logger)
	marketDataService := service.NewMarketDataService(
		marketClient,
		marketCacheRepo,
		ledgerRepo,
		cfg.Market,
		logger,
	)
	portfolioService := service.NewPortfolioService(
		ledgerRepo,
		transactionService,
		dividendService,
		marketDataService,
		tax.NewEngine(cfg.Tax),
		logger,
	)

	// Periodic quote refresh for held tickers
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Market.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := marketDataService.RefreshHeldTickers(ctx); err != nil {
			logger.Warn().Err(err).Msg("scheduled quote refresh failed")
		}
	})
	if err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.Market.RefreshSchedule).Msg("invalid refresh schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Transaction: transactionService,
		Dividend:    dividendService,
		Portfolio:   portfolioService,
		MarketData:  marketDataService,
	}, cfg, logger)

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
		logger.Info().Str("addr", cfg.Server.Addr).Str("version", version.Version).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
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
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
