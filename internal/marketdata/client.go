// Package marketdata implements the market-data collaborator: a Yahoo
// Finance chart API client returning current quotes and daily close
// history. Caching and staleness policy live in the service layer; this
// package only performs the HTTP fetch and parsing.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mverdier/equitrack/internal/model"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches price data from the Yahoo Finance chart endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a market-data client. The timeout bounds every fetch;
// callers fall back to cached values when it trips.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
// Used by tests to point the client at a mock server.
func NewClientWithBaseURL(timeout time.Duration, baseURL string) *Client {
	c := NewClient(timeout)
	c.baseURL = baseURL
	return c
}

// Quote fetches the latest price for a ticker. It queries the last five
// trading days and uses the most recent close as the current price and the
// one before it as the previous close.
func (c *Client) Quote(ctx context.Context, ticker string) (model.Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, ticker)

	chart, err := c.query(ctx, url)
	if err != nil {
		return model.Quote{}, err
	}
	if len(chart.closes) == 0 {
		return model.Quote{}, fmt.Errorf("no price data returned for %s", ticker)
	}

	price := chart.closes[len(chart.closes)-1]
	previous := price
	if len(chart.closes) > 1 {
		previous = chart.closes[len(chart.closes)-2]
	}

	changePercent := decimal.Zero
	if previous.Close.IsPositive() {
		changePercent = price.Close.Sub(previous.Close).Div(previous.Close).Mul(decimal.NewFromInt(100))
	}

	return model.Quote{
		Ticker:        ticker,
		Price:         price.Close,
		PreviousClose: previous.Close,
		ChangePercent: changePercent,
		Currency:      chart.currency,
		FetchedAt:     time.Now().UTC(),
	}, nil
}

// History fetches daily closes for a ticker within [start, end].
func (c *Client) History(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error) {
	url := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL, ticker, start.Unix(), end.Unix(),
	)

	chart, err := c.query(ctx, url)
	if err != nil {
		return nil, err
	}

	points := make([]model.PricePoint, 0, len(chart.closes))
	for _, p := range chart.closes {
		points = append(points, model.PricePoint{Ticker: ticker, Date: p.Date, Close: p.Close})
	}
	return points, nil
}

// DividendHistory fetches the per-share payouts for a ticker over the
// last given number of years, oldest first. Yahoo reports them as chart
// events keyed by ex-dividend timestamp.
func (c *Client) DividendHistory(ctx context.Context, ticker string, years int) ([]model.DividendEvent, error) {
	end := time.Now().UTC()
	start := end.AddDate(-years, 0, 0)
	url := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d&events=div",
		c.baseURL, ticker, start.Unix(), end.Unix(),
	)

	chart, err := c.query(ctx, url)
	if err != nil {
		return nil, err
	}

	events := make([]model.DividendEvent, 0, len(chart.dividends))
	for _, d := range chart.dividends {
		events = append(events, model.DividendEvent{
			Ticker:         ticker,
			Date:           d.Date,
			AmountPerShare: d.AmountPerShare,
		})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

// chartData is the parsed, validated subset of a chart response.
type chartData struct {
	currency  string
	closes    []model.PricePoint
	dividends []model.DividendEvent
}

// chartResponse mirrors the raw Yahoo chart JSON.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp []int64 `json:"timestamp"`
			Events    struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

func (c *Client) query(ctx context.Context, url string) (chartData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return chartData{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chartData{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return chartData{}, err
	}

	var response chartResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return chartData{}, err
	}
	if response.Chart.Error != nil {
		return chartData{}, fmt.Errorf("yahoo error: %s", *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return chartData{}, fmt.Errorf("no results returned")
	}

	result := response.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return chartData{}, fmt.Errorf("no close prices returned")
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return chartData{}, fmt.Errorf("mismatched data lengths")
	}

	chart := chartData{currency: result.Meta.Currency}
	for _, d := range result.Events.Dividends {
		if d.Amount <= 0 {
			continue
		}
		chart.dividends = append(chart.dividends, model.DividendEvent{
			Date:           time.Unix(d.Date, 0).UTC().Truncate(24 * time.Hour),
			AmountPerShare: decimal.NewFromFloat(d.Amount),
		})
	}
	for i, ts := range result.Timestamp {
		// Yahoo pads missing days with zero closes; skip them.
		if closes[i] == 0 {
			continue
		}
		chart.closes = append(chart.closes, model.PricePoint{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: decimal.NewFromFloat(closes[i]),
		})
	}
	return chart, nil
}
