package collector

import (
	"context"

	"MarketWindow/internal/model"
)

// RawQuote is one unparsed daily row as returned by a data source. All fields
// are strings; parsing and validation happen in Normalize.
type RawQuote struct {
	Date   string
	Open   string
	High   string
	Low    string
	Close  string
	Volume string
}

// Fetcher defines the interface for fetching daily quote rows.
type Fetcher interface {
	FetchDaily(ctx context.Context, category model.Category, symbol string, tradingDays int) ([]RawQuote, error)
	Name() string
}
