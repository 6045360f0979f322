package model

// QuoteRecord is a single normalized daily bar for one instrument.
// Timestamp is milliseconds since epoch at UTC midnight of the bar's date;
// (Symbol, Timestamp) is the natural key and a second write replaces the first.
type QuoteRecord struct {
	Symbol        string  `json:"symbol"`
	Timestamp     int64   `json:"timestamp"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	Volume        float64 `json:"volume"`
	AdjustedClose float64 `json:"adjustedClose"`
}

// Category identifies how a source symbol is fetched and normalized.
type Category string

const (
	CategoryStock  Category = "stock"
	CategoryForex  Category = "forex"
	CategoryIndex  Category = "index"
	CategoryCrypto Category = "crypto"
)
