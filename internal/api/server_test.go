package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketWindow/internal/model"
	"MarketWindow/internal/store"

	"github.com/alicebob/miniredis/v2"
)

func startServer(t *testing.T) (*httptest.Server, *store.WindowStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	st, err := store.NewWindowStore(context.Background(), mr.Addr(), "", 0, 50)
	if err != nil {
		t.Fatalf("new window store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(NewServer(":0", st, []string{"NVDA", "EURUSD"}).Handler())
	t.Cleanup(srv.Close)
	return srv, st, mr
}

func seed(t *testing.T, st *store.WindowStore) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	batch := []model.QuoteRecord{
		{Symbol: "NVDA", Timestamp: base, Open: 149, High: 151, Low: 148, Close: 150, Volume: 1000000, AdjustedClose: 150},
		{Symbol: "NVDA", Timestamp: base + 86400000, Open: 150, High: 153, Low: 149, Close: 152, Volume: 1100000, AdjustedClose: 152},
		{Symbol: "EURUSD", Timestamp: base, Open: 1.08, High: 1.09, Low: 1.07, Close: 1.085, Volume: 5000000, AdjustedClose: 1.085},
	}
	if err := st.StoreBatch(context.Background(), batch); err != nil {
		t.Fatalf("seed store: %v", err)
	}
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _, mr := startServer(t)

	var body map[string]string
	if code := getJSON(t, srv.URL+"/health", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("expected ok status, got %q", body["status"])
	}

	mr.Close()
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when redis is down, got %d", resp.StatusCode)
	}
	// The content type must be committed before the status line.
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json on degraded health, got %q", ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode degraded health: %v", err)
	}
	if body["status"] != "degraded" {
		t.Errorf("expected degraded status, got %q", body["status"])
	}
}

func TestQuotesBySymbol(t *testing.T) {
	srv, st, _ := startServer(t)
	seed(t, st)

	var body struct {
		Symbol  string              `json:"symbol"`
		Count   int                 `json:"count"`
		Records []model.QuoteRecord `json:"records"`
	}
	if code := getJSON(t, srv.URL+"/api/quotes/NVDA", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Count != 2 || len(body.Records) != 2 {
		t.Fatalf("expected 2 records, got count=%d len=%d", body.Count, len(body.Records))
	}
	if body.Records[0].Timestamp >= body.Records[1].Timestamp {
		t.Error("expected ascending timestamp order")
	}

	if code := getJSON(t, srv.URL+"/api/quotes/NVDA?limit=1", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Count != 1 || body.Records[0].Close != 152 {
		t.Errorf("expected only the most recent record, got %+v", body.Records)
	}

	// Unknown symbol degrades to an empty result, not an error.
	if code := getJSON(t, srv.URL+"/api/quotes/UNKNOWN", &body); code != http.StatusOK {
		t.Fatalf("expected 200 for unknown symbol, got %d", code)
	}
	if body.Count != 0 {
		t.Errorf("expected empty result for unknown symbol, got %d", body.Count)
	}
}

func TestQuotes_AllInstruments(t *testing.T) {
	srv, st, _ := startServer(t)
	seed(t, st)

	var body struct {
		Count   int                 `json:"count"`
		Records []model.QuoteRecord `json:"records"`
	}
	if code := getJSON(t, srv.URL+"/api/quotes", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Count != 3 {
		t.Fatalf("expected 3 records, got %d", body.Count)
	}
	// Universe order: NVDA window first, then EURUSD.
	if body.Records[0].Symbol != "NVDA" || body.Records[2].Symbol != "EURUSD" {
		t.Errorf("unexpected concatenation order: %+v", body.Records)
	}
}

func TestSummary(t *testing.T) {
	srv, st, _ := startServer(t)
	seed(t, st)

	var body struct {
		Summaries []struct {
			Symbol       string  `json:"symbol"`
			Records      int     `json:"records"`
			CurrentPrice float64 `json:"currentPrice"`
		} `json:"summaries"`
	}
	if code := getJSON(t, srv.URL+"/api/summary", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(body.Summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(body.Summaries))
	}
	if body.Summaries[0].Symbol != "NVDA" || body.Summaries[0].CurrentPrice != 152 {
		t.Errorf("unexpected NVDA summary: %+v", body.Summaries[0])
	}
}

func TestQuotesBySymbol_BadPath(t *testing.T) {
	srv, _, _ := startServer(t)

	resp, err := http.Get(srv.URL + "/api/quotes/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty symbol, got %d", resp.StatusCode)
	}
}
