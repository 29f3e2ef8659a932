package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mverdier/equitrack/internal/api/request"
	"github.com/mverdier/equitrack/internal/model"
	"github.com/mverdier/equitrack/internal/testutil"
)

func TestTransactionHandler_AllTransactions(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("returns all transactions successfully", func(t *testing.T) {
		handler, db := setupHandler(t)

		tx1 := testutil.NewTransaction().WithTicker("AAPL").Build(t, db)
		tx2 := testutil.NewTransaction().WithTicker("MSFT").Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
		w := httptest.NewRecorder()

		handler.AllTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Errorf("Expected 2 transactions, got %d", len(response))
		}

		foundTransactions := make(map[string]bool)
		for _, tx := range response {
			foundTransactions[tx.ID] = true
		}
		if !foundTransactions[tx1.ID] {
			t.Error("Expected to find tx1 in response")
		}
		if !foundTransactions[tx2.ID] {
			t.Error("Expected to find tx2 in response")
		}
	})

	t.Run("filters by ticker query parameter", func(t *testing.T) {
		handler, db := setupHandler(t)

		testutil.NewTransaction().WithTicker("AAPL").Build(t, db)
		testutil.NewTransaction().WithTicker("MSFT").Build(t, db)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transaction", map[string]string{
			"ticker": "AAPL",
		})
		w := httptest.NewRecorder()

		handler.AllTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 1 || response[0].Ticker != "AAPL" {
			t.Errorf("Expected only AAPL transactions, got %d records", len(response))
		}
	})

	t.Run("filters by date range", func(t *testing.T) {
		handler, db := setupHandler(t)

		inRange := testutil.NewTransaction().WithTicker("AAPL").WithDate("2024-03-10").Build(t, db)
		testutil.NewTransaction().WithTicker("AAPL").WithDate("2024-06-01").Build(t, db)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transaction", map[string]string{
			"start": "2024-03-01",
			"end":   "2024-03-31",
		})
		w := httptest.NewRecorder()

		handler.AllTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 1 || response[0].ID != inRange.ID {
			t.Errorf("Expected only the March transaction, got %d records", len(response))
		}
	})

	t.Run("returns 400 for malformed date filter", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transaction", map[string]string{
			"start": "03/01/2024",
			"end":   "2024-03-31",
		})
		w := httptest.NewRecorder()

		handler.AllTransactions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 500 on database error", func(t *testing.T) {
		handler, db := setupHandler(t)
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
		w := httptest.NewRecorder()

		handler.AllTransactions(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("creates a buy and returns 201", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := map[string]interface{}{
			"ticker":      "AAPL",
			"companyName": "Apple Inc.",
			"type":        "buy",
			"quantity":    "10",
			"price":       "100",
			"fee":         "1",
			"date":        "2024-01-15",
		}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", body, nil)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		created := testutil.DecodeResponse[model.Transaction](t, w)
		if created.ID == "" {
			t.Error("Expected generated transaction ID")
		}
		if created.TotalCost.String() != "1001" {
			t.Errorf("Expected total cost 1001, got %s", created.TotalCost)
		}
	})

	t.Run("returns 400 on validation failure", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := map[string]interface{}{
			"ticker":   "AAPL",
			"type":     "hold", // not a valid type
			"quantity": "10",
			"price":    "100",
			"fee":      "0",
			"date":     "2024-01-15",
		}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", body, nil)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/transaction", nil)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 409 when a sell exceeds the held quantity", func(t *testing.T) {
		handler, db := setupHandler(t)

		testutil.NewTransaction().WithTicker("AAPL").WithQuantity("5").WithDate("2024-01-15").Build(t, db)

		body := map[string]interface{}{
			"ticker":   "AAPL",
			"type":     "sell",
			"quantity": "10",
			"price":    "120",
			"fee":      "0",
			"date":     "2024-02-01",
		}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", body, nil)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("updates and returns the transaction", func(t *testing.T) {
		handler, db := setupHandler(t)

		tx := testutil.NewTransaction().WithTicker("AAPL").WithPrice("100").Build(t, db)

		body := request.UpdateTransactionRequest{}
		note := "adjusted"
		body.Note = &note

		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/transaction/"+tx.ID, body, map[string]string{
			"uuid": tx.ID,
		})
		w := httptest.NewRecorder()

		handler.UpdateTransaction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		updated := testutil.DecodeResponse[model.Transaction](t, w)
		if updated.Note != "adjusted" {
			t.Errorf("Expected updated note, got %q", updated.Note)
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		handler, _ := setupHandler(t)

		id := testutil.MakeID()
		note := "x"
		body := request.UpdateTransactionRequest{Note: &note}

		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/transaction/"+id, body, map[string]string{
			"uuid": id,
		})
		w := httptest.NewRecorder()

		handler.UpdateTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 409 when the edit breaks a later sell", func(t *testing.T) {
		handler, db := setupHandler(t)

		buy := testutil.NewTransaction().WithTicker("AAPL").WithQuantity("10").WithDate("2024-01-15").Build(t, db)
		testutil.NewTransaction().WithTicker("AAPL").Sell().WithQuantity("8").WithPrice("120").WithDate("2024-02-01").Build(t, db)

		body := map[string]interface{}{"quantity": "5"}
		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/transaction/"+buy.ID, body, map[string]string{
			"uuid": buy.ID,
		})
		w := httptest.NewRecorder()

		handler.UpdateTransaction(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("deletes and returns 204", func(t *testing.T) {
		handler, db := setupHandler(t)

		tx := testutil.NewTransaction().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/transaction/"+tx.ID, map[string]string{
			"uuid": tx.ID,
		})
		w := httptest.NewRecorder()

		handler.DeleteTransaction(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 409 when later sells depend on the buy", func(t *testing.T) {
		handler, db := setupHandler(t)

		buy := testutil.NewTransaction().WithTicker("AAPL").WithQuantity("10").WithDate("2024-01-15").Build(t, db)
		testutil.NewTransaction().WithTicker("AAPL").Sell().WithQuantity("8").WithPrice("120").WithDate("2024-02-01").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/transaction/"+buy.ID, map[string]string{
			"uuid": buy.ID,
		})
		w := httptest.NewRecorder()

		handler.DeleteTransaction(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		handler, _ := setupHandler(t)

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/transaction/"+id, map[string]string{
			"uuid": id,
		})
		w := httptest.NewRecorder()

		handler.DeleteTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
