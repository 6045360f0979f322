package collector

import (
	"strconv"
	"strings"
	"time"

	"MarketWindow/internal/model"
)

// forexVolumeScale compensates for quote-convention differences between forex
// and equity volumes.
const forexVolumeScale = 10000

// CleanSymbol returns the normalized instrument identifier for a source symbol:
// forex loses the "=X" suffix, crypto loses the hyphen ("ETH-USD" -> "ETHUSD").
func CleanSymbol(category model.Category, symbol string) string {
	switch category {
	case model.CategoryForex:
		return strings.TrimSuffix(symbol, "=X")
	case model.CategoryCrypto:
		return strings.ReplaceAll(symbol, "-", "")
	default:
		return symbol
	}
}

// Normalize maps one raw row into the canonical record. It is a pure function;
// a false return means the row is dropped (malformed fields, non-positive
// close, or non-positive volume for stocks and indices).
func Normalize(category model.Category, symbol string, row RawQuote) (model.QuoteRecord, bool) {
	date, err := time.Parse("2006-01-02", row.Date)
	if err != nil {
		return model.QuoteRecord{}, false
	}
	timestamp := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()

	open, err := strconv.ParseFloat(row.Open, 64)
	if err != nil {
		return model.QuoteRecord{}, false
	}
	high, err := strconv.ParseFloat(row.High, 64)
	if err != nil {
		return model.QuoteRecord{}, false
	}
	low, err := strconv.ParseFloat(row.Low, 64)
	if err != nil {
		return model.QuoteRecord{}, false
	}
	closePrice, err := strconv.ParseFloat(row.Close, 64)
	if err != nil {
		return model.QuoteRecord{}, false
	}
	volume, err := strconv.ParseFloat(row.Volume, 64)
	if err != nil {
		return model.QuoteRecord{}, false
	}

	if closePrice <= 0 {
		return model.QuoteRecord{}, false
	}

	switch category {
	case model.CategoryStock, model.CategoryIndex:
		if volume <= 0 {
			return model.QuoteRecord{}, false
		}
	case model.CategoryForex:
		volume *= forexVolumeScale
	}

	return model.QuoteRecord{
		Symbol:        CleanSymbol(category, symbol),
		Timestamp:     timestamp,
		Open:          open,
		High:          high,
		Low:           low,
		Close:         closePrice,
		Volume:        volume,
		AdjustedClose: closePrice,
	}, true
}

// DisplaySymbols returns the normalized instrument identifiers of the whole
// universe, in universe order. This is the order the query surface reports in.
func DisplaySymbols(u model.Universe) []string {
	members := u.Members()
	symbols := make([]string, 0, len(members))
	for _, m := range members {
		symbols = append(symbols, CleanSymbol(m.Category, m.Symbol))
	}
	return symbols
}
