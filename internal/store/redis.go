package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"MarketWindow/internal/model"

	"github.com/redis/go-redis/v9"
)

// WindowStore retains the most recent trading-day window per instrument in
// Redis. Each record lives under its own key with the window TTL; a per-symbol
// sorted set, scored by timestamp, indexes the records so "most recent N"
// reads never scan the keyspace. Every batch write refreshes the touched
// indexes' TTL, so an actively-ingesting instrument keeps its full window
// alive while a stale one expires as a whole.
type WindowStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewWindowStore connects to Redis and pings it to ensure it is reachable.
// The retention TTL is tradingDays worth of 24-hour days.
func NewWindowStore(ctx context.Context, addr, password string, db, tradingDays int) (*WindowStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := time.Duration(tradingDays) * 24 * time.Hour
	log.Printf("[INFO] window store connected: %s (%d trading days = %s TTL)", addr, tradingDays, ttl)

	return &WindowStore{rdb: rdb, ttl: ttl}, nil
}

// TTL returns the configured retention window.
func (s *WindowStore) TTL() time.Duration { return s.ttl }

func recordKey(symbol string, timestamp int64) string {
	return fmt.Sprintf("equity:%s:%d", symbol, timestamp)
}

func indexKey(symbol string) string {
	return fmt.Sprintf("symbol:%s", symbol)
}

// StoreBatch writes a batch of records as one pipelined unit: for each record
// a SET with the window TTL, a ZADD into the symbol index, and an EXPIRE
// refreshing the whole index. The batch either flushes completely or the error
// is surfaced to the caller; there is no partial-success result and no retry
// here — the next cycle writes a fresh batch.
func (s *WindowStore) StoreBatch(ctx context.Context, records []model.QuoteRecord) error {
	if len(records) == 0 {
		return nil
	}

	pipe := s.rdb.Pipeline()
	for _, rec := range records {
		value, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal %s@%d: %w", rec.Symbol, rec.Timestamp, err)
		}

		key := recordKey(rec.Symbol, rec.Timestamp)
		pipe.Set(ctx, key, value, s.ttl)
		pipe.ZAdd(ctx, indexKey(rec.Symbol), redis.Z{Score: float64(rec.Timestamp), Member: key})
		pipe.Expire(ctx, indexKey(rec.Symbol), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("batch write: %w", err)
	}

	log.Printf("[INFO] batch stored %d records with %s TTL", len(records), s.ttl)
	return nil
}

// Get returns the record at (symbol, timestamp), or false if the key is absent
// or expired — the two are indistinguishable.
func (s *WindowStore) Get(ctx context.Context, symbol string, timestamp int64) (model.QuoteRecord, bool) {
	value, err := s.rdb.Get(ctx, recordKey(symbol, timestamp)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[ERROR] get %s@%d: %v", symbol, timestamp, err)
		}
		return model.QuoteRecord{}, false
	}

	var rec model.QuoteRecord
	if err := json.Unmarshal(value, &rec); err != nil {
		log.Printf("[ERROR] decode %s@%d: %v", symbol, timestamp, err)
		return model.QuoteRecord{}, false
	}
	return rec, true
}

// GetBySymbol returns up to limit most recent records for one instrument in
// ascending timestamp order. Keys that lapse between the index lookup and the
// value read are skipped, and any read error degrades to an empty result.
func (s *WindowStore) GetBySymbol(ctx context.Context, symbol string, limit int) []model.QuoteRecord {
	if limit <= 0 {
		return nil
	}

	keys, err := s.rdb.ZRange(ctx, indexKey(symbol), int64(-limit), -1).Result()
	if err != nil {
		log.Printf("[ERROR] index read %s: %v", symbol, err)
		return nil
	}
	if len(keys) == 0 {
		return nil
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		log.Printf("[ERROR] record read %s: %v", symbol, err)
		return nil
	}

	records := make([]model.QuoteRecord, 0, len(values))
	for _, v := range values {
		payload, ok := v.(string)
		if !ok || payload == "" {
			continue // lapsed between index lookup and read
		}
		var rec model.QuoteRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// GetAll returns the concatenation of per-instrument windows, in the
// caller-specified symbol order.
func (s *WindowStore) GetAll(ctx context.Context, symbols []string, limitPerSymbol int) []model.QuoteRecord {
	var all []model.QuoteRecord
	for _, symbol := range symbols {
		all = append(all, s.GetBySymbol(ctx, symbol, limitPerSymbol)...)
	}
	return all
}

// Ping checks the Redis connection.
func (s *WindowStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the Redis connection pool. Callers must stop the scheduler
// first so no batch write is in flight.
func (s *WindowStore) Close() error {
	return s.rdb.Close()
}
