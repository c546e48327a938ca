package harness

import (
	"log/slog"
	"time"

	"github.com/fhirbench/fhirbench/internal/evaluator"
	"github.com/fhirbench/fhirbench/internal/fixture"
	"github.com/fhirbench/fhirbench/internal/suite"
)

// Executor runs one evaluator invocation per case and classifies the outcome.
type Executor struct {
	eval evaluator.Evaluator
	log  *slog.Logger

	// clock is swappable for deterministic timing in tests. time.Now is
	// monotonic across the start/stop pair.
	clock func() time.Time
}

// NewExecutor creates an Executor for the given evaluator. A nil logger
// defaults to slog.Default.
func NewExecutor(eval evaluator.Evaluator, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{eval: eval, log: log, clock: time.Now}
}

// Execute invokes the evaluator exactly once for tc against fx and maps
// (case kind, outcome) to a status:
//
//	valid   + success -> passed
//	valid   + fault   -> error
//	invalid + success -> failed
//	invalid + fault   -> passed
//
// Execution time covers the evaluator call only.
func (x *Executor) Execute(tc suite.TestCase, fx *fixture.Fixture) CaseResult {
	res := CaseResult{
		Name:        tc.Name,
		Description: tc.Description,
		Expression:  tc.Expression,
		Expected:    tc.ExpectedOutput,
	}

	start := x.clock()
	out := evaluator.Invoke(x.eval, fx.Doc, tc.Expression)
	res.ExecutionTimeMs = float64(x.clock().Sub(start)) / float64(time.Millisecond)

	fault, faulted := out.Fault()
	switch {
	case tc.Invalid && faulted:
		// The fault is the expected, correct behavior.
		res.Status = StatusPassed
	case tc.Invalid && !faulted:
		// The case is designed to trigger a fault; succeeding violates
		// the specification. Distinct from StatusError on purpose.
		res.Status = StatusFailed
		res.Error = "Expected error but expression succeeded"
	case faulted:
		res.Status = StatusError
		res.Error = fault
	default:
		res.Status = StatusPassed
		res.Actual = out.Values()
	}
	return res
}
