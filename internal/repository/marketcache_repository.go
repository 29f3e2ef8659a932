package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/model"
)

// MarketCacheRepository stores the latest quote per ticker and the daily
// close history. The cache's freshness policy (TTL, maximum age) is owned
// by the market-data service; this layer only records fetch timestamps.
type MarketCacheRepository struct {
	db *sql.DB
}

// NewMarketCacheRepository creates a new MarketCacheRepository with the provided database connection.
func NewMarketCacheRepository(db *sql.DB) *MarketCacheRepository {
	return &MarketCacheRepository{db: db}
}

// UpsertQuote records the latest quote for a ticker, replacing any
// previous entry.
func (s *MarketCacheRepository) UpsertQuote(ctx context.Context, q model.Quote) error {
	query := `
		INSERT OR REPLACE INTO market_cache
		(ticker, price, previous_close, change_percent, currency, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		q.Ticker, q.Price.String(), q.PreviousClose.String(), q.ChangePercent.String(),
		q.Currency, q.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert quote: %w", err)
	}
	return nil
}

// GetQuote retrieves the cached quote for a ticker, regardless of age.
// Freshness classification is left to the caller.
func (s *MarketCacheRepository) GetQuote(ticker string) (model.Quote, error) {
	query := `
		SELECT ticker, price, previous_close, change_percent, currency, fetched_at
		FROM market_cache
		WHERE ticker = ?
	`

	var q model.Quote
	var priceStr, prevStr, changeStr, fetchedStr string

	err := s.db.QueryRow(query, ticker).Scan(
		&q.Ticker, &priceStr, &prevStr, &changeStr, &q.Currency, &fetchedStr,
	)
	if err == sql.ErrNoRows {
		return model.Quote{}, apperrors.ErrPriceUnavailable
	}
	if err != nil {
		return model.Quote{}, fmt.Errorf("failed to scan market_cache results: %w", err)
	}

	if q.Price, err = ParseDecimal(priceStr); err != nil {
		return model.Quote{}, err
	}
	if q.PreviousClose, err = ParseDecimal(prevStr); err != nil {
		return model.Quote{}, err
	}
	if q.ChangePercent, err = ParseDecimal(changeStr); err != nil {
		return model.Quote{}, err
	}
	if q.FetchedAt, err = ParseTime(fetchedStr); err != nil {
		return model.Quote{}, err
	}

	return q, nil
}

// UpsertPricePoints records daily closes, replacing same-day entries.
func (s *MarketCacheRepository) UpsertPricePoints(ctx context.Context, points []model.PricePoint) error {
	query := `
		INSERT OR REPLACE INTO price_history (id, ticker, date, close)
		VALUES (?, ?, ?, ?)
	`
	for _, p := range points {
		_, err := s.db.ExecContext(ctx, query, uuid.New().String(), p.Ticker, dateOnly(p.Date), p.Close.String())
		if err != nil {
			return fmt.Errorf("failed to upsert price point: %w", err)
		}
	}
	return nil
}

// GetPriceHistory retrieves the stored daily closes for a ticker within
// [start, end], ascending by date.
func (s *MarketCacheRepository) GetPriceHistory(ticker string, start, end time.Time) ([]model.PricePoint, error) {
	query := `
		SELECT ticker, date, close
		FROM price_history
		WHERE ticker = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`
	rows, err := s.db.Query(query, ticker, dateOnly(start), dateOnly(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query price_history table: %w", err)
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		var dateStr, closeStr string

		if err := rows.Scan(&p.Ticker, &dateStr, &closeStr); err != nil {
			return nil, fmt.Errorf("failed to scan price_history results: %w", err)
		}
		if p.Date, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if p.Close, err = ParseDecimal(closeStr); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
