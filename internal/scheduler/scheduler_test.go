package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"MarketWindow/internal/collector"
	"MarketWindow/internal/features"
	"MarketWindow/internal/ingest"
	"MarketWindow/internal/model"
	"MarketWindow/internal/recorder"
)

type countingStore struct {
	mu      sync.Mutex
	batches int
}

func (c *countingStore) StoreBatch(_ context.Context, _ []model.QuoteRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches++
	return nil
}

func (c *countingStore) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches
}

// blockingFetcher holds every FetchDaily call until released.
type blockingFetcher struct {
	release chan struct{}
}

func (f *blockingFetcher) Name() string { return "blocking" }

func (f *blockingFetcher) FetchDaily(_ context.Context, _ model.Category, _ string, _ int) ([]collector.RawQuote, error) {
	<-f.release
	return []collector.RawQuote{
		{Date: "2024-01-02", Open: "100", High: "102", Low: "99", Close: "101", Volume: "1000"},
	}, nil
}

func newTestScheduler(fetcher collector.Fetcher, st ingest.BatchStore) *Scheduler {
	universe := model.Universe{Stocks: []string{"NVDA"}}
	svc := ingest.NewService(fetcher, st, features.NewEngineer(), recorder.NewNoopRecorder(), ingest.NewSimulator(1), universe, 3)
	return NewScheduler(context.Background(), svc, 3)
}

func TestIngestTask_SingleFlight(t *testing.T) {
	fetcher := &blockingFetcher{release: make(chan struct{})}
	st := &countingStore{}
	s := newTestScheduler(fetcher, st)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.ingestTask()
	}()

	// Wait until the first cycle is holding the gate.
	deadline := time.Now().Add(time.Second)
	for !s.running.Load() {
		if time.Now().After(deadline) {
			t.Fatal("first cycle never started")
		}
		time.Sleep(time.Millisecond)
	}

	// An overlapping tick must be skipped, not queued.
	s.ingestTask()
	if got := st.count(); got != 0 {
		t.Fatalf("expected no completed batches yet, got %d", got)
	}

	close(fetcher.release)
	wg.Wait()

	if got := st.count(); got != 1 {
		t.Errorf("expected exactly one batch, got %d", got)
	}
	if s.running.Load() {
		t.Error("gate not released after cycle completion")
	}
}

func TestRunInitialNow_ReleasesGate(t *testing.T) {
	fetcher := &blockingFetcher{release: make(chan struct{})}
	close(fetcher.release)
	st := &countingStore{}
	s := newTestScheduler(fetcher, st)

	s.RunInitialNow()
	if got := st.count(); got != 1 {
		t.Fatalf("expected one batch, got %d", got)
	}

	// The gate must be reusable for the next cycle.
	s.ingestTask()
	if got := st.count(); got != 2 {
		t.Errorf("expected a second batch, got %d", got)
	}
}

func TestStop_WaitsForInitialIngestion(t *testing.T) {
	fetcher := &blockingFetcher{release: make(chan struct{})}
	st := &countingStore{}
	s := newTestScheduler(fetcher, st)

	s.RunInitialAsync()

	// Wait until the startup cycle is holding the gate.
	deadline := time.Now().Add(time.Second)
	for !s.running.Load() {
		if time.Now().After(deadline) {
			t.Fatal("startup cycle never started")
		}
		time.Sleep(time.Millisecond)
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the startup cycle was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(fetcher.release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop never returned after the cycle finished")
	}
	if got := st.count(); got != 1 {
		t.Errorf("expected the startup batch stored before Stop returned, got %d", got)
	}
}

func TestRegisterAll_BadCron(t *testing.T) {
	s := newTestScheduler(&collector.MockFetcher{}, &countingStore{})
	if err := s.RegisterAll("not a cron spec", "0 0 * * * *"); err == nil {
		t.Error("expected error for invalid cron expression")
	}
	if err := s.RegisterAll("0 * * * * *", "0 0 * * * *"); err != nil {
		t.Errorf("unexpected error for valid specs: %v", err)
	}
}
