package harness

import (
	"encoding/json"
	"sync"

	"github.com/fhirbench/fhirbench/internal/value"
)

// Status classifies the outcome of one executed case.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
	// StatusError marks an evaluator fault on a case that was not designed
	// to fault. The string matches the report schema shared across
	// implementations.
	StatusError Status = "error"
)

// CaseResult is the outcome of one executed case. Created exactly once per
// case, never mutated afterwards.
type CaseResult struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Expression      string  `json:"expression"`
	Status          Status  `json:"status"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	Expected        []any   `json:"expected"`
	// Actual is nil (serialized as null) on error outcomes and on
	// invalid-case outcomes, where no meaningful result exists.
	Actual []any `json:"actual"`
	// Error carries the evaluator fault message, or the diagnostic for an
	// invalid case that unexpectedly succeeded.
	Error string `json:"error,omitempty"`
}

// MarshalJSON routes the expected/actual sequences through the value encoder
// so exotic evaluator value kinds can never abort report serialization.
func (r CaseResult) MarshalJSON() ([]byte, error) {
	type plain CaseResult
	p := plain(r)
	p.Expected = value.EncodeSequence(r.Expected)
	p.Actual = value.EncodeSequence(r.Actual)
	return json.Marshal(p)
}

// RunSummary aggregates case outcomes. Total == Passed + Failed + Errors
// holds after every Add.
type RunSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Errors int `json:"errors"`
}

// Aggregator owns the run summary and the ordered result list. Counters are
// mutex-guarded so cases may be executed concurrently; feeding the same
// result twice double-counts by design (replay from scratch instead).
type Aggregator struct {
	mu      sync.Mutex
	summary RunSummary
	results []CaseResult
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add accumulates one case result, incrementing exactly one status counter
// and Total in lockstep.
func (a *Aggregator) Add(r CaseResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.results = append(a.results, r)
	a.summary.Total++
	switch r.Status {
	case StatusPassed:
		a.summary.Passed++
	case StatusFailed:
		a.summary.Failed++
	default:
		a.summary.Errors++
	}
}

// Summary returns a snapshot of the counters.
func (a *Aggregator) Summary() RunSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary
}

// Results returns the accumulated case results in insertion order.
func (a *Aggregator) Results() []CaseResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]CaseResult, len(a.results))
	copy(out, a.results)
	return out
}
