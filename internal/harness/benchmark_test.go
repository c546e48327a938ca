package harness

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhirbench/fhirbench/internal/fixture"
	"github.com/fhirbench/fhirbench/internal/suite"
	"github.com/fhirbench/fhirbench/internal/testutil"
)

func benchResolver(t *testing.T) *fixture.Resolver {
	t.Helper()
	dir := writeTestTree(t, `{"name": "s", "tests": []}`)
	return fixture.NewResolver(dir+"/input", discardLogger())
}

func someCases(n int) []suite.TestCase {
	out := make([]suite.TestCase, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, suite.TestCase{
			Name:       "case" + string(rune('a'+i)),
			Expression: "true",
			InputFile:  "patient-example.json",
		})
	}
	return out
}

func TestBenchmarkRunner_CaseDerivation(t *testing.T) {
	b := NewBenchmarkRunner(succeedWith(true), benchResolver(t), discardLogger())
	b.CaseLimit = 2
	b.Iterations = 25

	derived := b.Cases(someCases(5))

	require.Len(t, derived, 2, "only the case-limit prefix is benchmarked")
	assert.Equal(t, "benchmark_casea", derived[0].Name)
	assert.Equal(t, "Benchmark for casea", derived[0].Description)
	assert.Equal(t, 25, derived[0].Iterations)
	assert.Equal(t, "benchmark_caseb", derived[1].Name)
}

func TestBenchmarkRunner_CaseLimitBeyondInput(t *testing.T) {
	b := NewBenchmarkRunner(succeedWith(true), benchResolver(t), discardLogger())
	b.CaseLimit = 100

	assert.Len(t, b.Cases(someCases(3)), 3)
}

func TestBenchmarkRunner_DeterministicTiming(t *testing.T) {
	eval := succeedWith(true)
	b := NewBenchmarkRunner(eval, benchResolver(t), discardLogger())
	b.Iterations = 100
	b.Warmup = 10
	b.CaseLimit = 1

	// Every timed invocation reads the clock twice, so each sample is
	// exactly one step: 2ms.
	clk := testutil.NewStepClock(time.Unix(0, 0), 2*time.Millisecond)
	b.clock = clk.Now

	results := b.Run(someCases(1))
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, 100, res.Iterations)
	assert.Equal(t, 2.0, res.AvgTimeMs)
	assert.Equal(t, 2.0, res.MinTimeMs)
	assert.Equal(t, 2.0, res.MaxTimeMs)
	assert.Equal(t, 500.0, res.OpsPerSecond)
	assert.Equal(t, 110, eval.calls, "warm-up plus timed invocations")
}

func TestBenchmarkRunner_StatOrdering(t *testing.T) {
	eval := succeedWith(true)
	b := NewBenchmarkRunner(eval, benchResolver(t), discardLogger())
	b.Iterations = 50
	b.Warmup = 0
	b.CaseLimit = 1

	results := b.Run(someCases(1))
	require.Len(t, results, 1)

	res := results[0]
	assert.LessOrEqual(t, res.MinTimeMs, res.AvgTimeMs)
	assert.LessOrEqual(t, res.AvgTimeMs, res.MaxTimeMs)
	assert.GreaterOrEqual(t, res.MinTimeMs, 0.0)
}

func TestBenchmarkRunner_WarmupFaultsAreDiscarded(t *testing.T) {
	calls := 0
	eval := &scriptedEval{fn: func(any, string) ([]any, error) {
		calls++
		if calls <= 5 {
			return nil, errors.New("cold start")
		}
		return []any{true}, nil
	}}

	b := NewBenchmarkRunner(eval, benchResolver(t), discardLogger())
	b.Iterations = 20
	b.Warmup = 5
	b.CaseLimit = 1

	results := b.Run(someCases(1))
	require.Len(t, results, 1)
	assert.Equal(t, 20, results[0].Iterations)
	assert.Equal(t, 25, calls)
}

func TestBenchmarkRunner_FaultingIterationsStillSampled(t *testing.T) {
	eval := failWith("always faults")
	b := NewBenchmarkRunner(eval, benchResolver(t), discardLogger())
	b.Iterations = 10
	b.Warmup = 2
	b.CaseLimit = 1

	clk := testutil.NewStepClock(time.Unix(0, 0), time.Millisecond)
	b.clock = clk.Now

	results := b.Run(someCases(1))
	require.Len(t, results, 1)

	// The measurement is the cost of running the expression; faults do not
	// shrink the sample set.
	res := results[0]
	assert.Equal(t, 1.0, res.AvgTimeMs)
	assert.Equal(t, 1000.0, res.OpsPerSecond)
	assert.Equal(t, 12, eval.calls)
}

func TestBenchmarkRunner_UnresolvableFixtureYieldsNoResult(t *testing.T) {
	b := NewBenchmarkRunner(succeedWith(true), benchResolver(t), discardLogger())
	b.CaseLimit = 2

	cases := someCases(2)
	cases[1].InputFile = "missing.json"

	results := b.Run(cases)
	require.Len(t, results, 1)
	assert.Equal(t, "benchmark_casea", results[0].Name)
}

func TestBenchmarkRunner_ZeroAverageMeansZeroOps(t *testing.T) {
	eval := succeedWith(true)
	b := NewBenchmarkRunner(eval, benchResolver(t), discardLogger())
	b.Iterations = 5
	b.Warmup = 0
	b.CaseLimit = 1

	// A zero-step clock makes every sample exactly zero.
	clk := testutil.NewStepClock(time.Unix(0, 0), 0)
	b.clock = clk.Now

	results := b.Run(someCases(1))
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].AvgTimeMs)
	assert.Equal(t, 0.0, results[0].OpsPerSecond)
}
