package features

import (
	"testing"

	"MarketWindow/internal/model"
)

func TestEngineer_ClampsHighLow(t *testing.T) {
	in := []model.QuoteRecord{
		{Symbol: "NVDA", Open: 100, High: 99, Low: 101, Close: 102, Volume: 1000, AdjustedClose: 102},
	}
	out := NewEngineer().Engineer(in)

	if len(out) != 1 {
		t.Fatalf("expected shape preserved, got %d records", len(out))
	}
	if out[0].High < 102 {
		t.Errorf("expected high widened to contain close, got %f", out[0].High)
	}
	if out[0].Low > 100 {
		t.Errorf("expected low widened to contain open, got %f", out[0].Low)
	}
}

func TestEngineer_FillsAdjustedClose(t *testing.T) {
	in := []model.QuoteRecord{
		{Symbol: "AMD", Open: 100, High: 103, Low: 99, Close: 102, Volume: 1000},
	}
	out := NewEngineer().Engineer(in)
	if out[0].AdjustedClose != 102 {
		t.Errorf("expected adjustedClose filled from close, got %f", out[0].AdjustedClose)
	}
}

func TestEngineer_DoesNotMutateInput(t *testing.T) {
	in := []model.QuoteRecord{
		{Symbol: "GS", Open: 100, High: 99, Low: 101, Close: 102, Volume: 1000},
	}
	NewEngineer().Engineer(in)
	if in[0].High != 99 || in[0].Low != 101 {
		t.Error("input slice was mutated")
	}
}
