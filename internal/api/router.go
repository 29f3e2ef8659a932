package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mverdier/equitrack/internal/api/handlers"
	custommiddleware "github.com/mverdier/equitrack/internal/api/middleware"
	"github.com/mverdier/equitrack/internal/config"
	"github.com/mverdier/equitrack/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System      *service.SystemService
	Transaction *service.TransactionService
	Dividend    *service.DividendService
	Portfolio   *service.PortfolioService
	MarketData  *service.MarketDataService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svcs Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svcs.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(svcs.Transaction)
			r.Get("/", transactionHandler.AllTransactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Get("/ticker/{ticker}", transactionHandler.TransactionsPerTicker)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.Put("/", transactionHandler.UpdateTransaction)
				r.Delete("/", transactionHandler.DeleteTransaction)
			})
		})

		r.Route("/dividend", func(r chi.Router) {
			dividendHandler := handlers.NewDividendHandler(svcs.Dividend)
			r.Get("/", dividendHandler.AllDividends)
			r.Post("/", dividendHandler.CreateDividend)
			r.Get("/history/{ticker}", dividendHandler.History)
			r.Get("/upcoming", dividendHandler.Upcoming)
			r.Post("/sync", dividendHandler.Sync)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", dividendHandler.GetDividend)
				r.Put("/", dividendHandler.UpdateDividend)
				r.Delete("/", dividendHandler.DeleteDividend)
				r.Post("/received", dividendHandler.MarkReceived)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(svcs.Portfolio)
			r.Get("/positions", portfolioHandler.Positions)
			r.Get("/realized-gains", portfolioHandler.RealizedGains)
			r.Get("/summary", portfolioHandler.Summary)
			r.Get("/tax/{year}", portfolioHandler.TaxReport)
		})

		r.Route("/market", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(svcs.MarketData)
			r.Get("/quote/{ticker}", marketHandler.Quote)
			r.Get("/history/{ticker}", marketHandler.History)
			r.Post("/refresh", marketHandler.Refresh)
		})
	})

	return r
}
