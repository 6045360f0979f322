package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MarketWindow/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance historical CSV endpoint.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL, proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com/v7/finance/download/"
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		BaseURL: baseURL,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// calendarWindow converts a trading-day count into the calendar-day span
// requested from the source. The 24/18*7 ratio (integer math, in this order)
// matches what the ingestion has always requested; changing it changes how
// much history the upstream returns.
func calendarWindow(tradingDays int) int {
	return tradingDays * 24 / 18 * 7
}

// FetchDaily downloads daily bars for one symbol covering the trading-day window.
func (f *YahooFetcher) FetchDaily(ctx context.Context, _ model.Category, symbol string, tradingDays int) ([]RawQuote, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -calendarWindow(tradingDays))

	u := fmt.Sprintf("%s%s?period1=%d&period2=%d&interval=1d&events=history",
		f.BaseURL, url.PathEscape(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s: status %d", symbol, resp.StatusCode)
	}

	return parseCSV(string(body)), nil
}

// parseCSV splits a Yahoo historical CSV response into raw rows. The header
// line is required; rows with too few columns are skipped here, everything
// else is left for Normalize to judge.
func parseCSV(body string) []RawQuote {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) == 0 || !strings.Contains(lines[0], "Date") {
		return nil
	}

	rows := make([]RawQuote, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 6 {
			continue
		}
		// Columns: Date,Open,High,Low,Close[,Adj Close],Volume
		vol := parts[5]
		if len(parts) >= 7 {
			vol = parts[6]
		}
		rows = append(rows, RawQuote{
			Date:   parts[0],
			Open:   parts[1],
			High:   parts[2],
			Low:    parts[3],
			Close:  parts[4],
			Volume: vol,
		})
	}
	return rows
}
