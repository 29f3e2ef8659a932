package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/config"
	"github.com/mverdier/equitrack/internal/marketdata"
	"github.com/mverdier/equitrack/internal/model"
	"github.com/mverdier/equitrack/internal/repository"
)

// refreshConcurrency bounds the parallel upstream fetches during a
// background refresh.
const refreshConcurrency = 4

// MarketDataService owns the price cache and its staleness policy. A
// cached quote inside the TTL window is fresh and served without an
// upstream call; beyond the TTL a fetch is attempted and, on failure, the
// cache serves a stale quote up to the maximum age. Past that the price is
// unavailable rather than silently zero.
type MarketDataService struct {
	client    *marketdata.Client
	cacheRepo *repository.MarketCacheRepository
	ledger    *repository.LedgerRepository
	cfg       config.MarketConfig
	logger    zerolog.Logger
}

// NewMarketDataService creates a new MarketDataService.
func NewMarketDataService(
	client *marketdata.Client,
	cacheRepo *repository.MarketCacheRepository,
	ledger *repository.LedgerRepository,
	cfg config.MarketConfig,
	logger zerolog.Logger,
) *MarketDataService {
	return &MarketDataService{
		client:    client,
		cacheRepo: cacheRepo,
		ledger:    ledger,
		cfg:       cfg,
		logger:    logger,
	}
}

// GetQuote returns the best available price for a ticker with its
// freshness classification. A cache miss is part of the staleness ladder;
// a failing cache store is not and propagates as an error.
func (s *MarketDataService) GetQuote(ctx context.Context, ticker string) (model.Quote, error) {
	cached, cacheErr := s.cacheRepo.GetQuote(ticker)
	if cacheErr != nil && !errors.Is(cacheErr, apperrors.ErrPriceUnavailable) {
		return model.Quote{}, fmt.Errorf("quote cache lookup failed for %s: %w", ticker, cacheErr)
	}
	if cacheErr == nil && time.Since(cached.FetchedAt) <= s.cfg.TTL {
		cached.Freshness = model.PriceFresh
		return cached, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	quote, err := s.client.Quote(fetchCtx, ticker)
	if err == nil {
		if err := s.cacheRepo.UpsertQuote(ctx, quote); err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("failed to cache quote")
		}
		quote.Freshness = model.PriceFresh
		return quote, nil
	}

	s.logger.Warn().Err(err).Str("ticker", ticker).Msg("quote fetch failed, falling back to cache")

	if cacheErr == nil && time.Since(cached.FetchedAt) <= s.cfg.MaxAge {
		cached.Freshness = model.PriceStale
		return cached, nil
	}

	return model.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrPriceUnavailable, ticker)
}

// GetHistory returns daily closes for a ticker within [start, end],
// serving from the local history table and backfilling it from upstream
// when the range is not covered yet.
func (s *MarketDataService) GetHistory(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error) {
	if end.Before(start) {
		return nil, apperrors.ErrInvalidDateRange
	}

	points, err := s.cacheRepo.GetPriceHistory(ticker, start, end)
	if err != nil {
		return nil, err
	}
	if len(points) > 0 {
		return points, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	fetched, err := s.client.History(fetchCtx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrNoPriceHistory, ticker, err)
	}
	if len(fetched) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoPriceHistory, ticker)
	}

	if err := s.cacheRepo.UpsertPricePoints(ctx, fetched); err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("failed to store price history")
	}

	return fetched, nil
}

// RefreshHeldTickers fetches a fresh quote for every ticker in the ledger.
// Failures are logged per ticker and do not abort the refresh; the cron
// schedule retries on the next run.
func (s *MarketDataService) RefreshHeldTickers(ctx context.Context) error {
	tickers, err := s.ledger.GetTickers()
	if err != nil {
		return fmt.Errorf("failed to list tickers for refresh: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)

	for _, info := range tickers {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()

			quote, err := s.client.Quote(fetchCtx, info.Ticker)
			if err != nil {
				s.logger.Warn().Err(err).Str("ticker", info.Ticker).Msg("quote refresh failed")
				return nil
			}
			if err := s.cacheRepo.UpsertQuote(ctx, quote); err != nil {
				s.logger.Warn().Err(err).Str("ticker", info.Ticker).Msg("failed to cache refreshed quote")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info().Int("tickers", len(tickers)).Msg("market cache refreshed")
	return nil
}
