package collector

import (
	"context"
	"fmt"
	"time"

	"MarketWindow/internal/model"
)

// MockFetcher returns controllable fixed rows for development and testing.
type MockFetcher struct {
	Rows map[string][]RawQuote // keyed by source symbol
	Errs map[string]error      // per-symbol forced failures
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, _ model.Category, symbol string, tradingDays int) ([]RawQuote, error) {
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if rows, ok := m.Rows[symbol]; ok {
		return rows, nil
	}
	return generateMockRows(100.0, tradingDays), nil
}

func generateMockRows(basePrice float64, count int) []RawQuote {
	rows := make([]RawQuote, count)
	for i := 0; i < count; i++ {
		day := time.Now().UTC().AddDate(0, 0, -(count - i))
		p := basePrice * (1 + float64(i-count/2)*0.001)
		rows[i] = RawQuote{
			Date:   day.Format("2006-01-02"),
			Open:   fmt.Sprintf("%.4f", p*0.999),
			High:   fmt.Sprintf("%.4f", p*1.005),
			Low:    fmt.Sprintf("%.4f", p*0.995),
			Close:  fmt.Sprintf("%.4f", p),
			Volume: "1000000",
		}
	}
	return rows
}
