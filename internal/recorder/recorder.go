package recorder

// CycleEvent summarizes one ingestion cycle.
type CycleEvent struct {
	Trigger     string // "initial" or "scheduled"
	Records     int
	Instruments int
	Failed      int
	Dropped     int
	Fallback    bool
	DurationMs  int64
	Error       string
}

// FetchEvent records one per-instrument fetch outcome within a cycle.
type FetchEvent struct {
	Symbol   string
	Category string
	Records  int
	Error    string
}

// Recorder persists ingestion history for analysis.
type Recorder interface {
	RecordCycle(evt *CycleEvent) error
	RecordFetch(evt *FetchEvent) error
	Close() error
}
