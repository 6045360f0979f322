package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"MarketWindow/internal/collector"
	"MarketWindow/internal/features"
	"MarketWindow/internal/model"
	"MarketWindow/internal/recorder"
)

// BatchStore is the slice of the window store the ingestor writes through.
type BatchStore interface {
	StoreBatch(ctx context.Context, records []model.QuoteRecord) error
}

// Report summarizes one completed (or fallen-back) ingestion cycle.
type Report struct {
	Records  int
	Dropped  int
	Failures []*CycleError // per-instrument fetch and parse failures absorbed in the cycle
	Fallback bool
	Duration time.Duration
}

// FailuresOf returns the absorbed failures of one kind.
func (r *Report) FailuresOf(kind FailureKind) []*CycleError {
	var out []*CycleError
	for _, f := range r.Failures {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Service runs the fetch -> normalize -> engineer -> store cycle over the
// whole instrument universe.
type Service struct {
	Fetcher     collector.Fetcher
	Store       BatchStore
	Engineer    *features.Engineer
	Recorder    recorder.Recorder
	Simulator   *Simulator
	Universe    model.Universe
	TradingDays int

	now func() time.Time
}

// NewService wires an ingestion service. recorder may be a NoopRecorder.
func NewService(fetcher collector.Fetcher, store BatchStore, eng *features.Engineer, rec recorder.Recorder, sim *Simulator, universe model.Universe, tradingDays int) *Service {
	return &Service{
		Fetcher:     fetcher,
		Store:       store,
		Engineer:    eng,
		Recorder:    rec,
		Simulator:   sim,
		Universe:    universe,
		TradingDays: tradingDays,
		now:         time.Now,
	}
}

// RunInitial executes the startup cycle: a full-window fetch without the
// feature pass.
func (s *Service) RunInitial(ctx context.Context) (*Report, error) {
	return s.runCycle(ctx, "initial", false)
}

// RunScheduled executes a periodic cycle, applying the feature pass before
// storage.
func (s *Service) RunScheduled(ctx context.Context) (*Report, error) {
	return s.runCycle(ctx, "scheduled", true)
}

// runCycle performs one whole-universe cycle. Per-instrument fetch failures
// and per-row parse failures are absorbed (logged, recorded, skipped); a cycle
// that yields zero records falls back to simulated data; only a batch store
// failure is returned, as a *CycleError, and the batch is abandoned for the
// next cycle to retry fresh.
func (s *Service) runCycle(ctx context.Context, trigger string, withFeatures bool) (*Report, error) {
	start := s.now()
	report := &Report{}

	var batch []model.QuoteRecord
	for _, m := range s.Universe.Members() {
		rows, err := s.Fetcher.FetchDaily(ctx, m.Category, m.Symbol, s.TradingDays)
		if err != nil {
			cerr := &CycleError{Kind: FailureFetch, Symbol: m.Symbol, Err: err}
			log.Printf("[WARN] %v", cerr)
			report.Failures = append(report.Failures, cerr)
			s.recordFetch(m, 0, cerr.Error())
			continue
		}

		kept := 0
		for _, row := range rows {
			rec, ok := collector.Normalize(m.Category, m.Symbol, row)
			if !ok {
				report.Dropped++
				continue
			}
			batch = append(batch, rec)
			kept++
		}
		if dropped := len(rows) - kept; dropped > 0 {
			cerr := &CycleError{Kind: FailureParse, Symbol: m.Symbol, Err: fmt.Errorf("%d of %d rows dropped", dropped, len(rows))}
			log.Printf("[WARN] %v", cerr)
			report.Failures = append(report.Failures, cerr)
		}

		log.Printf("[INFO] %s: %d records fetched, %d kept", collector.CleanSymbol(m.Category, m.Symbol), len(rows), kept)
		s.recordFetch(m, kept, "")
	}

	if len(batch) == 0 {
		log.Println("[WARN] cycle yielded no records, falling back to simulated data")
		batch = s.Simulator.Window(s.Universe, s.TradingDays, s.now())
		report.Fallback = true
	}

	if withFeatures {
		batch = s.Engineer.Engineer(batch)
	}

	report.Records = len(batch)

	if err := s.Store.StoreBatch(ctx, batch); err != nil {
		cerr := &CycleError{Kind: FailureStore, Err: err}
		log.Printf("[ERROR] %v", cerr)
		report.Duration = s.now().Sub(start)
		s.recordCycle(trigger, report, cerr.Error())
		return report, cerr
	}
	report.Duration = s.now().Sub(start)

	log.Printf("[INFO] %s cycle ingested %d records (%d fetch failures, %d rows dropped, fallback=%v)",
		trigger, report.Records, len(report.FailuresOf(FailureFetch)), report.Dropped, report.Fallback)
	s.recordCycle(trigger, report, "")
	return report, nil
}

func (s *Service) recordFetch(m model.Member, records int, errText string) {
	err := s.Recorder.RecordFetch(&recorder.FetchEvent{
		Symbol:   m.Symbol,
		Category: string(m.Category),
		Records:  records,
		Error:    errText,
	})
	if err != nil {
		log.Printf("[ERROR] record fetch event: %v", err)
	}
}

func (s *Service) recordCycle(trigger string, report *Report, errText string) {
	err := s.Recorder.RecordCycle(&recorder.CycleEvent{
		Trigger:     trigger,
		Records:     report.Records,
		Instruments: s.Universe.Size(),
		Failed:      len(report.FailuresOf(FailureFetch)),
		Dropped:     report.Dropped,
		Fallback:    report.Fallback,
		DurationMs:  report.Duration.Milliseconds(),
		Error:       errText,
	})
	if err != nil {
		log.Printf("[ERROR] record cycle event: %v", err)
	}
}
