package features

import (
	"errors"

	"MarketWindow/internal/model"
)

// SymbolSummary aggregates one instrument's retained window for reporting.
type SymbolSummary struct {
	Symbol       string  `json:"symbol"`
	Records      int     `json:"records"`
	CurrentPrice float64 `json:"currentPrice"`
	ChangePct    float64 `json:"changePct"`
	AvgVolume    float64 `json:"avgVolume"`
	SMA20        float64 `json:"sma20"`
}

// CalculateSMA computes the simple moving average of the given prices over the
// specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// WindowChange returns the percent change between the first and last close of
// the window.
func WindowChange(records []model.QuoteRecord) (float64, error) {
	if len(records) < 2 {
		return 0, errors.New("not enough records for change calculation")
	}
	first := records[0].Close
	last := records[len(records)-1].Close
	if first == 0 {
		return 0, errors.New("zero starting close")
	}
	return (last - first) / first * 100, nil
}

// AverageVolume returns the mean volume across the window.
func AverageVolume(records []model.QuoteRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, rec := range records {
		sum += rec.Volume
	}
	return sum / float64(len(records))
}

// Summarize builds a SymbolSummary from a window of ascending records.
// Indicators that cannot be computed from the available data are left zero.
func Summarize(symbol string, records []model.QuoteRecord) SymbolSummary {
	s := SymbolSummary{Symbol: symbol, Records: len(records)}
	if len(records) == 0 {
		return s
	}

	s.CurrentPrice = records[len(records)-1].Close
	s.AvgVolume = AverageVolume(records)

	if change, err := WindowChange(records); err == nil {
		s.ChangePct = change
	}

	closes := make([]float64, len(records))
	for i, rec := range records {
		closes[i] = rec.Close
	}
	if sma, err := CalculateSMA(closes, 20); err == nil {
		s.SMA20 = sma
	}

	return s
}
