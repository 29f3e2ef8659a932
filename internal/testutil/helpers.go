package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mverdier/equitrack/internal/config"
	"github.com/mverdier/equitrack/internal/marketdata"
	"github.com/mverdier/equitrack/internal/repository"
	"github.com/mverdier/equitrack/internal/service"
	"github.com/mverdier/equitrack/internal/tax"
)

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(repository.NewLedgerRepository(db))
}

func NewTestDividendService(t *testing.T, db *sql.DB) *service.DividendService {
	t.Helper()

	// The unroutable base URL makes any accidental provider call fail fast;
	// tests exercising the provider-fed surface use the WithMarket variant.
	return NewTestDividendServiceWithMarket(t, db, "http://127.0.0.1:0")
}

// NewTestDividendServiceWithMarket creates a DividendService whose market
// data client points at the given base URL, typically a ChartServer.
func NewTestDividendServiceWithMarket(t *testing.T, db *sql.DB, baseURL string) *service.DividendService {
	t.Helper()

	return service.NewDividendService(
		repository.NewDividendRepository(db),
		repository.NewLedgerRepository(db),
		marketdata.NewClientWithBaseURL(2*time.Second, baseURL),
		zerolog.Nop(),
	)
}

// TestMarketConfig returns a market configuration suitable for tests:
// short fetch timeout, generous cache windows.
func TestMarketConfig() config.MarketConfig {
	return config.MarketConfig{
		TTL:          5 * time.Minute,
		MaxAge:       24 * time.Hour,
		FetchTimeout: 2 * time.Second,
	}
}

// NewTestMarketDataService creates a MarketDataService pointed at the
// given base URL, typically a ChartServer from this package.
func NewTestMarketDataService(t *testing.T, db *sql.DB, baseURL string, cfg config.MarketConfig) *service.MarketDataService {
	t.Helper()

	return service.NewMarketDataService(
		marketdata.NewClientWithBaseURL(cfg.FetchTimeout, baseURL),
		repository.NewMarketCacheRepository(db),
		repository.NewLedgerRepository(db),
		cfg,
		zerolog.Nop(),
	)
}

// NewTestPortfolioService creates a PortfolioService wired to the given
// market data service (which may be backed by a ChartServer).
func NewTestPortfolioService(t *testing.T, db *sql.DB, marketData *service.MarketDataService) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewLedgerRepository(db),
		NewTestTransactionService(t, db),
		NewTestDividendService(t, db),
		marketData,
		tax.NewEngine(tax.DefaultConfig()),
		zerolog.Nop(),
	)
}
