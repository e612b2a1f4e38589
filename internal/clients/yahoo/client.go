package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

const (
	chartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"
	quoteBaseURL = "https://query1.finance.yahoo.com/v7/finance/quote"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Client is a Yahoo Finance API client implementing marketdata.Provider.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger

	// Overridable in tests.
	chartURL string
	quoteURL string
}

// NewClient creates a new Yahoo Finance client. requestsPerSecond throttles
// outgoing calls so concurrent per-ticker fetches stay polite.
func NewClient(log zerolog.Logger, requestsPerSecond float64) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 4
	}
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		log:      log.With().Str("client", "yahoo").Logger(),
		chartURL: chartBaseURL,
		quoteURL: quoteBaseURL,
	}
}

// HistoricalPrices fetches daily closes for [start, end] from the chart API.
// An unknown symbol or a symbol without data in the range yields an empty
// series, not an error.
func (c *Client) HistoricalPrices(ctx context.Context, symbol string, start, end time.Time) (domain.PriceSeries, error) {
	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("period1", fmt.Sprintf("%d", start.Unix()))
	// period2 is exclusive; push it past the end date's close.
	params.Add("period2", fmt.Sprintf("%d", end.AddDate(0, 0, 1).Unix()))

	reqURL := c.chartURL + url.QueryEscape(symbol) + "?" + params.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical data: %w", err)
	}

	var result chartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		// "Not Found" style errors mean no data, which fails soft.
		c.log.Warn().
			Str("symbol", symbol).
			Interface("error", result.Chart.Error).
			Msg("Chart API returned an error, treating as no data")
		return domain.PriceSeries{}, nil
	}

	if len(result.Chart.Result) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No historical data returned")
		return domain.PriceSeries{}, nil
	}

	chartData := result.Chart.Result[0]
	if len(chartData.Indicators.Quote) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No quote data in response")
		return domain.PriceSeries{}, nil
	}

	closes := chartData.Indicators.Quote[0].Close

	var series domain.PriceSeries
	var lastDate time.Time
	for i, ts := range chartData.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] == 0 {
			continue
		}

		// Normalize to a UTC calendar date so series from different
		// exchanges share a date grid. Duplicate days (pre/post rows)
		// keep the first observation.
		t := time.Unix(ts, 0).UTC()
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if !lastDate.IsZero() && !date.After(lastDate) {
			continue
		}
		lastDate = date

		series = append(series, domain.PricePoint{Date: date, Close: *closes[i]})
	}

	c.log.Info().
		Str("symbol", symbol).
		Int("days", len(series)).
		Msg("Fetched historical prices")

	return series, nil
}

// CurrentPrice gets the latest price with exponential-backoff retries.
// nil is returned when no valid price could be obtained.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (*float64, error) {
	const maxRetries = 3

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		info, err := c.quoteInfo(ctx, symbol)
		if err != nil {
			lastErr = err
		} else {
			for _, field := range []string{"currentPrice", "regularMarketPrice", "previousClose"} {
				if price := getFloat64(info, field); price != nil && *price > 0 {
					return price, nil
				}
			}
		}

		if attempt < maxRetries-1 {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			c.log.Warn().
				Err(lastErr).
				Str("symbol", symbol).
				Int("attempt", attempt+1).
				Dur("wait", wait).
				Msg("Failed to get a valid price, retrying")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
	}
	return nil, nil
}

// StockInfo fetches static info from the quote API. Missing fields fall
// back to the symbol itself for the name and "Unknown" elsewhere.
func (c *Client) StockInfo(ctx context.Context, symbol string) (domain.StockInfo, error) {
	info, err := c.quoteInfo(ctx, symbol)
	if err != nil {
		return domain.StockInfo{
			Name:     symbol,
			Sector:   "Unknown",
			Industry: "Unknown",
			Currency: "Unknown",
		}, err
	}

	name := getString(info, "longName", "")
	if name == "" {
		name = getString(info, "shortName", symbol)
	}

	return domain.StockInfo{
		Name:     name,
		Sector:   getString(info, "sector", "Unknown"),
		Industry: getString(info, "industry", "Unknown"),
		Currency: getString(info, "currency", "Unknown"),
	}, nil
}

// quoteInfo fetches quote information from the quote API.
func (c *Client) quoteInfo(ctx context.Context, symbol string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Add("symbols", symbol)
	params.Add("fields", "symbol,regularMarketPrice,currentPrice,previousClose,"+
		"longName,shortName,sector,industry,currency")

	body, err := c.get(ctx, c.quoteURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}

	var result quoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote API error: %v", result.QuoteResponse.Error)
	}
	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data returned for symbol %s", symbol)
	}

	return result.QuoteResponse.Result[0], nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Helper functions to safely extract values from map

func getFloat64(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		}
	}
	return nil
}

func getString(m map[string]interface{}, key string, defaultVal string) string {
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok && s != "" {
			return s
		}
	}
	return defaultVal
}
