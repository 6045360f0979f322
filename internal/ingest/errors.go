package ingest

import "fmt"

// FailureKind categorizes where in the cycle a failure happened, so callers
// and tests can assert on the kind instead of string-matching log lines.
type FailureKind string

const (
	FailureFetch FailureKind = "fetch"
	FailureParse FailureKind = "parse"
	FailureStore FailureKind = "store"
)

// CycleError is a tagged failure from one ingestion cycle. Fetch and parse
// failures are per-instrument and absorbed within the cycle (collected on the
// cycle report, parse failures aggregated per instrument); a store failure
// fails the whole batch and is returned to the caller.
type CycleError struct {
	Kind   FailureKind
	Symbol string // empty for whole-batch failures
	Err    error
}

func (e *CycleError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("%s failure for %s: %v", e.Kind, e.Symbol, e.Err)
	}
	return fmt.Sprintf("%s failure: %v", e.Kind, e.Err)
}

func (e *CycleError) Unwrap() error { return e.Err }
