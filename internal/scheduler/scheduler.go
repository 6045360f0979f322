package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"MarketWindow/internal/ingest"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the periodic ingestion cycle and the window status task.
// The ingestion task is single-flight: if a cycle is still running when the
// next tick fires, the tick is skipped.
type Scheduler struct {
	Cron        *cron.Cron
	Svc         *ingest.Service
	Ctx         context.Context
	TradingDays int

	running atomic.Bool
	wg      sync.WaitGroup // tracks the startup ingestion, which runs outside cron
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc *ingest.Service, tradingDays int) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Svc:         svc,
		Ctx:         ctx,
		TradingDays: tradingDays,
	}
}

// RegisterAll registers the ingestion and status tasks.
func (s *Scheduler) RegisterAll(ingestCron, statusCron string) error {
	if _, err := s.Cron.AddFunc(ingestCron, s.ingestTask); err != nil {
		return fmt.Errorf("register ingest task: %w", err)
	}
	// Observability only: reports that the window is active, mutates nothing.
	if _, err := s.Cron.AddFunc(statusCron, func() {
		log.Printf("[INFO] %d-day trading window active - oldest data auto-expires", s.TradingDays)
	}); err != nil {
		return fmt.Errorf("register status task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for any running cycle — cron-driven
// or the startup ingestion — to finish, so the store can be closed safely
// afterwards.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}

// RunInitialAsync launches the startup ingestion in the background. The run is
// registered before the goroutine starts, so a Stop racing with startup still
// waits for it.
func (s *Scheduler) RunInitialAsync() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunInitialNow()
	}()
}

// RunInitialNow executes the startup ingestion immediately, through the same
// single-flight gate as the periodic task.
func (s *Scheduler) RunInitialNow() {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("[WARN] ingestion already in flight, initial run skipped")
		return
	}
	defer s.running.Store(false)

	start := time.Now()
	if _, err := s.Svc.RunInitial(s.Ctx); err != nil {
		log.Printf("[ERROR] initial ingestion: %v", err)
		return
	}
	log.Printf("[INFO] initial ingestion done in %s", time.Since(start).Round(time.Millisecond))
}

func (s *Scheduler) ingestTask() {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("[WARN] previous ingestion cycle still running, skipping this tick")
		return
	}
	defer s.running.Store(false)

	if _, err := s.Svc.RunScheduled(s.Ctx); err != nil {
		log.Printf("[ERROR] scheduled ingestion: %v", err)
	}
}
