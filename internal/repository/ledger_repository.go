package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/model"
)

// LedgerRepository provides data access for the transaction ledger. It is
// the ordered, append-mostly log the computation engine replays: sequences
// returned by GetTransactionsByTicker are in ascending transaction-date
// order with ties broken by insertion order, which FIFO matching depends on.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository with the provided database connection.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

const transactionColumns = `id, ticker, company_name, type, quantity, price, fee, date, total_cost, note, created_at`

// InsertTransaction appends a transaction to the ledger.
func (s *LedgerRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO ledger_transaction
		(id, ticker, company_name, type, quantity, price, fee, date, total_cost, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.Ticker, t.CompanyName, t.Type,
		t.Quantity.String(), t.Price.String(), t.Fee.String(),
		dateOnly(t.Date), t.TotalCost.String(), t.Note,
		t.CreatedAt.UTC().Format(time.RFC3339Nano), t.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// UpdateTransaction rewrites an existing transaction in place.
func (s *LedgerRepository) UpdateTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		UPDATE ledger_transaction
		SET ticker = ?, company_name = ?, type = ?, quantity = ?, price = ?,
		    fee = ?, date = ?, total_cost = ?, note = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		t.Ticker, t.CompanyName, t.Type,
		t.Quantity.String(), t.Price.String(), t.Fee.String(),
		dateOnly(t.Date), t.TotalCost.String(), t.Note,
		time.Now().UTC().Format(time.RFC3339Nano),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction from the ledger.
func (s *LedgerRepository) DeleteTransaction(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM ledger_transaction WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// GetTransaction retrieves a single transaction by its ID.
func (s *LedgerRepository) GetTransaction(id string) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transaction WHERE id = ?`

	t, err := scanTransaction(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// GetTransactionsByTicker retrieves a ticker's transactions in ledger
// order: ascending date, insertion order on equal dates.
func (s *LedgerRepository) GetTransactionsByTicker(ticker string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transaction
		WHERE ticker = ?
		ORDER BY date ASC, created_at ASC, id ASC
	`
	return s.queryTransactions(query, ticker)
}

// ListTransactions retrieves all transactions, newest first, for display.
func (s *LedgerRepository) ListTransactions() ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transaction
		ORDER BY date DESC, created_at DESC, id DESC
	`
	return s.queryTransactions(query)
}

// GetTransactionsByDateRange retrieves transactions within [start, end],
// in ledger order.
func (s *LedgerRepository) GetTransactionsByDateRange(start, end time.Time) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transaction
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, created_at ASC, id ASC
	`
	return s.queryTransactions(query, dateOnly(start), dateOnly(end))
}

// TickerInfo identifies a ticker present in the ledger.
type TickerInfo struct {
	Ticker      string
	CompanyName string
}

// GetTickers returns every ticker that appears in the ledger, with the
// company name of its most recent transaction.
func (s *LedgerRepository) GetTickers() ([]TickerInfo, error) {
	query := `
		SELECT DISTINCT t.ticker,
			(SELECT company_name
			 FROM ledger_transaction
			 WHERE ticker = t.ticker
			 ORDER BY created_at DESC, id DESC
			 LIMIT 1) AS company_name
		FROM ledger_transaction t
		ORDER BY t.ticker ASC
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []TickerInfo
	for rows.Next() {
		var info TickerInfo
		if err := rows.Scan(&info.Ticker, &info.CompanyName); err != nil {
			return nil, fmt.Errorf("failed to scan ticker row: %w", err)
		}
		tickers = append(tickers, info)
	}
	return tickers, rows.Err()
}

func (s *LedgerRepository) queryTransactions(query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var quantityStr, priceStr, feeStr, totalStr string
	var dateStr, createdStr string
	var note sql.NullString

	err := row.Scan(
		&t.ID, &t.Ticker, &t.CompanyName, &t.Type,
		&quantityStr, &priceStr, &feeStr,
		&dateStr, &totalStr, &note, &createdStr,
	)
	if err == sql.ErrNoRows {
		return model.Transaction{}, err
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}

	if t.Quantity, err = ParseDecimal(quantityStr); err != nil {
		return model.Transaction{}, err
	}
	if t.Price, err = ParseDecimal(priceStr); err != nil {
		return model.Transaction{}, err
	}
	if t.Fee, err = ParseDecimal(feeStr); err != nil {
		return model.Transaction{}, err
	}
	if t.TotalCost, err = ParseDecimal(totalStr); err != nil {
		return model.Transaction{}, err
	}
	if t.Date, err = ParseTime(dateStr); err != nil {
		return model.Transaction{}, err
	}
	if t.CreatedAt, err = ParseTime(createdStr); err != nil {
		return model.Transaction{}, err
	}
	t.Note = note.String

	return t, nil
}
