package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketWindow/internal/api"
	"MarketWindow/internal/collector"
	"MarketWindow/internal/config"
	"MarketWindow/internal/features"
	"MarketWindow/internal/ingest"
	"MarketWindow/internal/model"
	"MarketWindow/internal/recorder"
	"MarketWindow/internal/scheduler"
	"MarketWindow/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MarketWindow starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	universe := model.Universe{
		Stocks:  cfg.Universe.Stocks,
		Forex:   cfg.Universe.Forex,
		Indices: cfg.Universe.Indices,
		Crypto:  cfg.Universe.Crypto,
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Mode == "mock" {
		fetcher = &collector.MockFetcher{}
	} else {
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Init window store
	st, err := store.NewWindowStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Window.TradingDays)
	if err != nil {
		log.Fatalf("[FATAL] init window store: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init ingestion service
	sim := ingest.NewSimulator(time.Now().UnixNano())
	svc := ingest.NewService(fetcher, st, features.NewEngineer(), rec, sim, universe, cfg.Window.TradingDays)

	// Init query API
	apiServer := api.NewServer(cfg.API.Addr, st, collector.DisplaySymbols(universe))
	go func() {
		if err := apiServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			log.Printf("[ERROR] api server: %v", err)
		}
	}()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, svc, cfg.Window.TradingDays)
	if err := sched.RegisterAll(cfg.Schedule.IngestCron, cfg.Schedule.StatusCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()

	// Run the startup ingestion immediately; Stop waits for it on shutdown.
	sched.RunInitialAsync()

	log.Printf("[INFO] MarketWindow is running (%d trading day window). Press Ctrl+C to stop.", cfg.Window.TradingDays)

	// Wait for shutdown signal
	<-ctx.Done()

	log.Println("[INFO] shutdown signal received, stopping...")

	// Scheduler stops (and in-flight cycle drains) before the store closes.
	sched.Stop()
	if err := st.Close(); err != nil {
		log.Printf("[ERROR] close store: %v", err)
	}
	if err := rec.Close(); err != nil {
		log.Printf("[ERROR] close recorder: %v", err)
	}
	log.Println("[INFO] MarketWindow stopped")
}
