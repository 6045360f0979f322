package ingest

import (
	"math/rand"
	"time"

	"MarketWindow/internal/collector"
	"MarketWindow/internal/model"
)

// simProfile holds the price anchor used when synthesizing bars for a symbol.
type simProfile struct {
	basePrice  float64
	volatility float64
	trend      float64
}

var simProfiles = map[string]simProfile{
	"NVDA":    {496.31, 0.028, 0.0003},
	"AMD":     {150.55, 0.025, 0.0003},
	"GS":      {351.46, 0.018, 0.0003},
	"SLV":     {25.59, 0.022, 0.0003},
	"NET":     {78.47, 0.026, 0.0001},
	"WDC":     {60.72, 0.023, 0.0001},
	"CRCL":    {35.20, 0.030, 0.0001},
	"EWJ":     {65.77, 0.015, 0.0001},
	"MNQ":     {16202.41, 0.012, 0.0001},
	"STLD":    {53.20, 0.024, -0.0001},
	"TTWO":    {137.50, 0.020, -0.0001},
	"UBS":     {28.40, 0.017, -0.0001},
	"EURUSD":  {1.08, 0.006, -0.0001},
	"INRJPY":  {1.82, 0.007, -0.0001},
	"BRLGBP":  {0.25, 0.008, -0.0001},
	"ETHUSD":  {3205.00, 0.038, -0.0001},
}

var defaultProfile = simProfile{100.0, 0.02, 0.0001}

// Simulator generates plausible synthetic OHLCV windows for the fallback path.
// It is deterministic for a given seed and depends on wall-clock time only
// through the single now anchor passed in.
type Simulator struct {
	rng *rand.Rand
}

func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Bar synthesizes one daily bar. day counts from 0 (oldest) to days-1 (the
// bar anchored at now's UTC midnight).
func (s *Simulator) Bar(symbol string, basePrice, volatility, trend float64, day, days int, now time.Time) model.QuoteRecord {
	midnight := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	timestamp := midnight.AddDate(0, 0, -(days - 1 - day)).UnixMilli()

	cumulativeTrend := trend * float64(day)
	noise := (s.rng.Float64() - 0.5) * basePrice * volatility
	priceChange := noise + cumulativeTrend*basePrice

	open := basePrice + priceChange
	closePrice := open + (s.rng.Float64()-0.5)*basePrice*volatility*0.5
	high := max(open, closePrice) + s.rng.Float64()*basePrice*volatility*0.25
	low := min(open, closePrice) - s.rng.Float64()*basePrice*volatility*0.25
	volume := 1000000 + s.rng.Float64()*4000000

	return model.QuoteRecord{
		Symbol:        symbol,
		Timestamp:     timestamp,
		Open:          open,
		High:          high,
		Low:           low,
		Close:         closePrice,
		Volume:        volume,
		AdjustedClose: closePrice,
	}
}

// Window synthesizes one full trading window for every instrument in the
// universe, anchored at now.
func (s *Simulator) Window(universe model.Universe, days int, now time.Time) []model.QuoteRecord {
	members := universe.Members()
	records := make([]model.QuoteRecord, 0, len(members)*days)
	for _, m := range members {
		symbol := collector.CleanSymbol(m.Category, m.Symbol)
		profile, ok := simProfiles[symbol]
		if !ok {
			profile = defaultProfile
		}
		for day := 0; day < days; day++ {
			records = append(records, s.Bar(symbol, profile.basePrice, profile.volatility, profile.trend, day, days, now))
		}
	}
	return records
}
