package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mverdier/equitrack/internal/model"
	"github.com/mverdier/equitrack/internal/testutil"
)

func setupDividendHandler(t *testing.T) (*DividendHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewDividendHandler(testutil.NewTestDividendService(t, db)), db
}

func TestDividendHandler_CreateDividend(t *testing.T) {
	t.Run("creates a dividend and returns 201", func(t *testing.T) {
		handler, _ := setupDividendHandler(t)

		body := map[string]interface{}{
			"ticker":         "TTE.PA",
			"companyName":    "TotalEnergies SE",
			"amountPerShare": "0.74",
			"sharesOwned":    "50",
			"taxWithheld":    "4.70",
			"exDividendDate": "2024-06-01",
		}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/dividend", body, nil)
		w := httptest.NewRecorder()

		handler.CreateDividend(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		created := testutil.DecodeResponse[model.Dividend](t, w)
		if created.GrossAmount.String() != "37" {
			t.Errorf("Expected gross 37, got %s", created.GrossAmount)
		}
		if created.Status != model.DividendExpected {
			t.Errorf("Expected expected status, got %s", created.Status)
		}
	})

	t.Run("returns 400 on validation failure", func(t *testing.T) {
		handler, _ := setupDividendHandler(t)

		body := map[string]interface{}{
			"ticker":         "TTE.PA",
			"amountPerShare": "-1", // negative
			"sharesOwned":    "50",
			"taxWithheld":    "0",
			"exDividendDate": "2024-06-01",
		}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/dividend", body, nil)
		w := httptest.NewRecorder()

		handler.CreateDividend(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestDividendHandler_MarkReceived(t *testing.T) {
	t.Run("marks a dividend received", func(t *testing.T) {
		handler, db := setupDividendHandler(t)

		dividend := testutil.NewDividend().Build(t, db)

		body := map[string]interface{}{"receivedDate": "2024-06-20"}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/dividend/"+dividend.ID+"/received", body, map[string]string{
			"uuid": dividend.ID,
		})
		w := httptest.NewRecorder()

		handler.MarkReceived(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		updated := testutil.DecodeResponse[model.Dividend](t, w)
		if updated.Status != model.DividendReceived {
			t.Errorf("Expected received status, got %s", updated.Status)
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		handler, _ := setupDividendHandler(t)

		id := testutil.MakeID()
		body := map[string]interface{}{"receivedDate": "2024-06-20"}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/dividend/"+id+"/received", body, map[string]string{
			"uuid": id,
		})
		w := httptest.NewRecorder()

		handler.MarkReceived(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestDividendHandler_AllDividends(t *testing.T) {
	t.Run("filters by year", func(t *testing.T) {
		handler, db := setupDividendHandler(t)

		testutil.NewDividend().WithTicker("A").WithExDividendDate("2023-06-01").Build(t, db)
		testutil.NewDividend().WithTicker("B").WithExDividendDate("2024-06-01").Build(t, db)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/dividend", map[string]string{
			"year": "2024",
		})
		w := httptest.NewRecorder()

		handler.AllDividends(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		dividends := testutil.DecodeResponse[[]model.Dividend](t, w)
		if len(dividends) != 1 || dividends[0].Ticker != "B" {
			t.Errorf("Expected only the 2024 dividend, got %d records", len(dividends))
		}
	})

	t.Run("returns 400 for a malformed year", func(t *testing.T) {
		handler, _ := setupDividendHandler(t)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/dividend", map[string]string{
			"year": "later",
		})
		w := httptest.NewRecorder()

		handler.AllDividends(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestDividendHandler_History(t *testing.T) {
	setup := func(t *testing.T, dividends map[string][]testutil.DividendFixture) *DividendHandler {
		t.Helper()
		db := testutil.SetupTestDB(t)
		server := testutil.NewChartServer(t, map[string][]float64{"AAPL": {100}})
		server.Dividends = dividends
		return NewDividendHandler(testutil.NewTestDividendServiceWithMarket(t, db, server.URL))
	}

	t.Run("returns the payout history newest first", func(t *testing.T) {
		now := time.Now().UTC()
		handler := setup(t, map[string][]testutil.DividendFixture{
			"AAPL": {
				{Date: now.AddDate(0, 0, -100), Amount: 0.24},
				{Date: now.AddDate(0, 0, -10), Amount: 0.25},
			},
		})

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/dividend/history/AAPL", map[string]string{
			"ticker": "AAPL",
		})
		w := httptest.NewRecorder()

		handler.History(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		events := testutil.DecodeResponse[[]model.DividendEvent](t, w)
		if len(events) != 2 {
			t.Fatalf("Expected 2 payout events, got %d", len(events))
		}
		if !events[0].Date.After(events[1].Date) {
			t.Error("Expected events newest first")
		}
	})

	t.Run("returns 404 for a ticker without payouts", func(t *testing.T) {
		handler := setup(t, nil)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/dividend/history/AAPL", map[string]string{
			"ticker": "AAPL",
		})
		w := httptest.NewRecorder()

		handler.History(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for a malformed years parameter", func(t *testing.T) {
		handler := setup(t, nil)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/dividend/history/AAPL?years=soon", map[string]string{
			"ticker": "AAPL",
		})
		w := httptest.NewRecorder()

		handler.History(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestDividendHandler_SyncAndUpcoming(t *testing.T) {
	now := time.Now().UTC()
	db := testutil.SetupTestDB(t)
	server := testutil.NewChartServer(t, map[string][]float64{"AAPL": {100}})
	server.Dividends = map[string][]testutil.DividendFixture{
		"AAPL": {
			{Date: now.AddDate(0, 0, -95), Amount: 0.24},
			{Date: now.AddDate(0, 0, -5), Amount: 0.26},
		},
	}
	handler := NewDividendHandler(testutil.NewTestDividendServiceWithMarket(t, db, server.URL))

	testutil.NewTransaction().WithTicker("AAPL").WithQuantity("10").Build(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/dividend/sync", nil)
	w := httptest.NewRecorder()

	handler.Sync(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	created := testutil.DecodeResponse[[]model.Dividend](t, w)
	if len(created) != 1 {
		t.Fatalf("Expected 1 projected dividend, got %d", len(created))
	}

	// The projected entry shows up in the upcoming calendar.
	req = httptest.NewRequest(http.MethodGet, "/api/dividend/upcoming", nil)
	w = httptest.NewRecorder()

	handler.Upcoming(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	upcoming := testutil.DecodeResponse[[]model.Dividend](t, w)
	if len(upcoming) != 1 || upcoming[0].ID != created[0].ID {
		t.Errorf("Expected the projected dividend in the upcoming view, got %d records", len(upcoming))
	}
}
