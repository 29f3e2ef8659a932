package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// ChartServer is a mock of the Yahoo Finance chart endpoint backed by
// httptest. It serves configurable daily closes per ticker and counts
// requests, so tests can assert cache behavior.
type ChartServer struct {
	*httptest.Server

	// Closes maps ticker to the daily closes to serve, oldest first.
	// Tickers without an entry get a "Not Found" chart error.
	Closes map[string][]float64

	// Dividends maps ticker to historical payout events served under the
	// chart response's events section.
	Dividends map[string][]DividendFixture

	// Fail makes every request return HTTP 500 when set.
	Fail atomic.Bool

	// RequestCount counts chart requests served.
	RequestCount atomic.Int64
}

// NewChartServer starts a mock chart server. The server is shut down when
// the test completes.
//
// Example:
//
//	server := testutil.NewChartServer(t, map[string][]float64{
//	    "AAPL": {100.0, 101.5},
//	})
//	client := marketdata.NewClientWithBaseURL(time.Second, server.URL)
func NewChartServer(t *testing.T, closes map[string][]float64) *ChartServer {
	t.Helper()

	server := &ChartServer{Closes: closes}
	server.Server = httptest.NewServer(http.HandlerFunc(server.serveChart))
	t.Cleanup(server.Close)

	return server
}

func (s *ChartServer) serveChart(w http.ResponseWriter, r *http.Request) {
	s.RequestCount.Add(1)

	if s.Fail.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Path shape: /v8/finance/chart/{ticker}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	ticker := parts[len(parts)-1]

	closes, ok := s.Closes[ticker]
	if !ok {
		writeJSON(w, map[string]interface{}{
			"chart": map[string]interface{}{
				"result": nil,
				"error":  "Not Found",
			},
		})
		return
	}

	now := time.Now().UTC()
	timestamps := make([]int64, len(closes))
	for i := range closes {
		day := now.AddDate(0, 0, i-len(closes)+1)
		timestamps[i] = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).Unix()
	}

	result := map[string]interface{}{
		"meta": map[string]interface{}{
			"currency": "EUR",
			"symbol":   ticker,
		},
		"timestamp": timestamps,
		"indicators": map[string]interface{}{
			"quote": []map[string]interface{}{
				{"close": closes},
			},
		},
	}

	if fixtures := s.Dividends[ticker]; len(fixtures) > 0 {
		events := make(map[string]interface{}, len(fixtures))
		for _, f := range fixtures {
			ts := f.Date.UTC().Unix()
			events[strconv.FormatInt(ts, 10)] = map[string]interface{}{
				"amount": f.Amount,
				"date":   ts,
			}
		}
		result["events"] = map[string]interface{}{"dividends": events}
	}

	writeJSON(w, map[string]interface{}{
		"chart": map[string]interface{}{
			"result": []map[string]interface{}{result},
			"error":  nil,
		},
	})
}

// DividendFixture is one historical payout served by the mock chart server.
type DividendFixture struct {
	Date   time.Time
	Amount float64
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}
