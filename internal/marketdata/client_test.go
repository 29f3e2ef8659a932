package marketdata_test

import (
	"context"
	"testing"
	"time"

	"github.com/mverdier/equitrack/internal/marketdata"
	"github.com/mverdier/equitrack/internal/testutil"
)

func TestClient_Quote(t *testing.T) {
	t.Run("parses the latest and previous closes", func(t *testing.T) {
		server := testutil.NewChartServer(t, map[string][]float64{
			"AAPL": {98.5, 100.0, 102.25},
		})
		client := marketdata.NewClientWithBaseURL(2*time.Second, server.URL)

		quote, err := client.Quote(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Quote() returned unexpected error: %v", err)
		}

		if quote.Price.String() != "102.25" {
			t.Errorf("Expected price 102.25, got %s", quote.Price)
		}
		if quote.PreviousClose.String() != "100" {
			t.Errorf("Expected previous close 100, got %s", quote.PreviousClose)
		}
		if quote.ChangePercent.String() != "2.25" {
			t.Errorf("Expected change 2.25%%, got %s", quote.ChangePercent)
		}
		if quote.Currency != "EUR" {
			t.Errorf("Expected EUR, got %s", quote.Currency)
		}
	})

	t.Run("returns an error for an unknown ticker", func(t *testing.T) {
		server := testutil.NewChartServer(t, map[string][]float64{})
		client := marketdata.NewClientWithBaseURL(2*time.Second, server.URL)

		if _, err := client.Quote(context.Background(), "NOPE"); err == nil {
			t.Fatal("Expected error for unknown ticker, got nil")
		}
	})

	t.Run("uses the only close as both price and previous", func(t *testing.T) {
		server := testutil.NewChartServer(t, map[string][]float64{
			"NEW": {50.0},
		})
		client := marketdata.NewClientWithBaseURL(2*time.Second, server.URL)

		quote, err := client.Quote(context.Background(), "NEW")
		if err != nil {
			t.Fatalf("Quote() returned unexpected error: %v", err)
		}

		if !quote.Price.Equal(quote.PreviousClose) {
			t.Errorf("Expected price == previous close, got %s and %s", quote.Price, quote.PreviousClose)
		}
		if !quote.ChangePercent.IsZero() {
			t.Errorf("Expected zero change, got %s", quote.ChangePercent)
		}
	})
}

func TestClient_History(t *testing.T) {
	server := testutil.NewChartServer(t, map[string][]float64{
		"AAPL": {100, 101, 102},
	})
	client := marketdata.NewClientWithBaseURL(2*time.Second, server.URL)

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)

	points, err := client.History(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("History() returned unexpected error: %v", err)
	}

	if len(points) != 3 {
		t.Fatalf("Expected 3 price points, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if !points[i-1].Date.Before(points[i].Date) {
			t.Error("Expected points in ascending date order")
		}
	}
	if points[2].Close.String() != "102" {
		t.Errorf("Expected last close 102, got %s", points[2].Close)
	}
}

func TestClient_DividendHistory(t *testing.T) {
	t.Run("parses payout events in ascending date order", func(t *testing.T) {
		now := time.Now().UTC()
		server := testutil.NewChartServer(t, map[string][]float64{
			"AAPL": {100, 101},
		})
		server.Dividends = map[string][]testutil.DividendFixture{
			"AAPL": {
				{Date: now.AddDate(0, 0, -10), Amount: 0.25},
				{Date: now.AddDate(0, 0, -100), Amount: 0.24},
			},
		}
		client := marketdata.NewClientWithBaseURL(2*time.Second, server.URL)

		events, err := client.DividendHistory(context.Background(), "AAPL", 2)
		if err != nil {
			t.Fatalf("DividendHistory() returned unexpected error: %v", err)
		}

		if len(events) != 2 {
			t.Fatalf("Expected 2 payout events, got %d", len(events))
		}
		if !events[0].Date.Before(events[1].Date) {
			t.Error("Expected events in ascending date order")
		}
		if events[1].AmountPerShare.String() != "0.25" {
			t.Errorf("Expected latest payout 0.25, got %s", events[1].AmountPerShare)
		}
		if events[0].Ticker != "AAPL" {
			t.Errorf("Expected ticker AAPL, got %s", events[0].Ticker)
		}
	})

	t.Run("returns no events for a ticker without payouts", func(t *testing.T) {
		server := testutil.NewChartServer(t, map[string][]float64{
			"GROW": {100, 101},
		})
		client := marketdata.NewClientWithBaseURL(2*time.Second, server.URL)

		events, err := client.DividendHistory(context.Background(), "GROW", 2)
		if err != nil {
			t.Fatalf("DividendHistory() returned unexpected error: %v", err)
		}
		if len(events) != 0 {
			t.Errorf("Expected no payout events, got %d", len(events))
		}
	})
}
