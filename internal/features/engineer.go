package features

import "MarketWindow/internal/model"

// Engineer is the feature pass applied to normalized records before storage on
// the scheduled ingestion path. It is pure and shape-preserving: the input
// slice is not mutated and every record in yields a record out.
type Engineer struct{}

func NewEngineer() *Engineer { return &Engineer{} }

// Engineer sanitizes each bar: High/Low are widened to contain Open and Close,
// and a missing AdjustedClose is filled from Close. No corporate-action
// adjustment is performed.
func (e *Engineer) Engineer(records []model.QuoteRecord) []model.QuoteRecord {
	out := make([]model.QuoteRecord, len(records))
	for i, rec := range records {
		if rec.High < rec.Open {
			rec.High = rec.Open
		}
		if rec.High < rec.Close {
			rec.High = rec.Close
		}
		if rec.Low > rec.Open {
			rec.Low = rec.Open
		}
		if rec.Low > rec.Close {
			rec.Low = rec.Close
		}
		if rec.AdjustedClose == 0 {
			rec.AdjustedClose = rec.Close
		}
		out[i] = rec
	}
	return out
}
