package api

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"MarketWindow/internal/features"
	"MarketWindow/internal/store"
)

const defaultLimit = 100

// Server exposes the retained window over HTTP. Read failures surface as
// empty result sets, never as errors to the caller.
type Server struct {
	addr        string
	store       *store.WindowStore
	instruments []string // normalized, in universe order
	srv         *http.Server
}

// NewServer creates a query server over the window store. instruments is the
// normalized universe, in the order getAll results are concatenated.
func NewServer(addr string, st *store.WindowStore, instruments []string) *Server {
	return &Server{addr: addr, store: st, instruments: instruments}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[INFO] query api listening on %s", s.addr)
	return s.srv.Serve(ln)
}

// Handler returns the server's routing for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/quotes", s.handleQuotes)
	mux.HandleFunc("/api/quotes/", s.handleQuotesBySymbol)
	mux.HandleFunc("/api/summary", s.handleSummary)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)
	records := s.store.GetAll(r.Context(), s.instruments, limit)
	writeJSON(w, map[string]interface{}{"count": len(records), "records": records})
}

func (s *Server) handleQuotesBySymbol(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimPrefix(r.URL.Path, "/api/quotes/")
	if symbol == "" || strings.Contains(symbol, "/") {
		http.Error(w, "symbol required", http.StatusBadRequest)
		return
	}

	limit := parseLimit(r)
	records := s.store.GetBySymbol(r.Context(), symbol, limit)
	writeJSON(w, map[string]interface{}{"symbol": symbol, "count": len(records), "records": records})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)
	summaries := make([]features.SymbolSummary, 0, len(s.instruments))
	for _, symbol := range s.instruments {
		records := s.store.GetBySymbol(r.Context(), symbol, limit)
		summaries = append(summaries, features.Summarize(symbol, records))
	}
	writeJSON(w, map[string]interface{}{"summaries": summaries})
}

func parseLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultLimit
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus sets the content type before the status line is written;
// headers set afterwards are silently discarded.
func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] write response: %v", err)
	}
}
