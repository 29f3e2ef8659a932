package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE ledger_transaction (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(20) NOT NULL,
			company_name VARCHAR(100) NOT NULL,
			type VARCHAR(4) NOT NULL CHECK (type IN ('buy', 'sell')),
			quantity TEXT NOT NULL,
			price TEXT NOT NULL,
			fee TEXT NOT NULL,
			date DATE NOT NULL,
			total_cost TEXT NOT NULL,
			note TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX idx_transaction_ticker ON ledger_transaction (ticker);
		CREATE INDEX idx_transaction_date ON ledger_transaction (date);

		CREATE TABLE dividend (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(20) NOT NULL,
			company_name VARCHAR(100) NOT NULL,
			amount_per_share TEXT NOT NULL,
			ex_dividend_date DATE NOT NULL,
			payment_date DATE,
			shares_owned TEXT NOT NULL,
			gross_amount TEXT NOT NULL,
			tax_withheld TEXT NOT NULL,
			net_amount TEXT NOT NULL,
			status VARCHAR(10) NOT NULL CHECK (status IN ('expected', 'received')),
			received_date DATE,
			note TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX idx_dividend_ticker ON dividend (ticker);
		CREATE INDEX idx_dividend_status ON dividend (status);
		CREATE INDEX idx_dividend_payment_date ON dividend (payment_date);

		CREATE TABLE market_cache (
			ticker VARCHAR(20) NOT NULL PRIMARY KEY,
			price TEXT NOT NULL,
			previous_close TEXT NOT NULL,
			change_percent TEXT NOT NULL,
			currency VARCHAR(3) NOT NULL,
			fetched_at DATETIME NOT NULL
		);

		CREATE TABLE price_history (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(20) NOT NULL,
			date DATE NOT NULL,
			close TEXT NOT NULL,
			CONSTRAINT unique_ticker_date UNIQUE (ticker, date)
		);

		CREATE INDEX idx_price_history_ticker ON price_history (ticker);
	`
	_, err := db.Exec(schema)
	return err
}
