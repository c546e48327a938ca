package harness

import (
	"log/slog"
	"time"

	"github.com/fhirbench/fhirbench/internal/evaluator"
	"github.com/fhirbench/fhirbench/internal/fixture"
	"github.com/fhirbench/fhirbench/internal/suite"
)

// Benchmark defaults. The case limit keeps wall-clock cost bounded: only a
// deterministic prefix of the loaded cases is measured.
const (
	DefaultIterations = 100
	DefaultWarmup     = 10
	DefaultCaseLimit  = 10
)

// BenchmarkCase derives a timed workload from a test case.
type BenchmarkCase struct {
	suite.TestCase
	Iterations int
}

// BenchmarkResult holds the timing statistics for one expression.
// MinTimeMs <= AvgTimeMs <= MaxTimeMs always holds; OpsPerSecond is
// 1000/AvgTimeMs, or 0 when the average rounds to zero.
type BenchmarkResult struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Expression   string  `json:"expression"`
	Iterations   int     `json:"iterations"`
	AvgTimeMs    float64 `json:"avg_time_ms"`
	MinTimeMs    float64 `json:"min_time_ms"`
	MaxTimeMs    float64 `json:"max_time_ms"`
	OpsPerSecond float64 `json:"ops_per_second"`
}

// BenchmarkRunner re-executes a bounded subset of cases and computes stable
// timing statistics. Samples for a single case are collected sequentially on
// one goroutine to avoid cross-core timing noise.
type BenchmarkRunner struct {
	eval     evaluator.Evaluator
	resolver *fixture.Resolver
	log      *slog.Logger

	Iterations int
	Warmup     int
	CaseLimit  int

	clock func() time.Time
}

// NewBenchmarkRunner creates a runner with the default iteration counts.
// A nil logger defaults to slog.Default.
func NewBenchmarkRunner(eval evaluator.Evaluator, resolver *fixture.Resolver, log *slog.Logger) *BenchmarkRunner {
	if log == nil {
		log = slog.Default()
	}
	return &BenchmarkRunner{
		eval:       eval,
		resolver:   resolver,
		log:        log,
		Iterations: DefaultIterations,
		Warmup:     DefaultWarmup,
		CaseLimit:  DefaultCaseLimit,
		clock:      time.Now,
	}
}

// Cases derives the benchmark workload: a deterministic prefix of the loaded
// cases, each renamed benchmark_<case> with the configured iteration count.
func (b *BenchmarkRunner) Cases(cases []suite.TestCase) []BenchmarkCase {
	limit := b.CaseLimit
	if limit <= 0 || limit > len(cases) {
		limit = len(cases)
	}

	out := make([]BenchmarkCase, 0, limit)
	for _, tc := range cases[:limit] {
		bc := BenchmarkCase{TestCase: tc, Iterations: b.Iterations}
		bc.Name = "benchmark_" + tc.Name
		bc.Description = "Benchmark for " + tc.Name
		if bc.Iterations <= 0 {
			bc.Iterations = DefaultIterations
		}
		out = append(out, bc)
	}
	return out
}

// Run benchmarks the derived workload. A case whose fixture cannot be
// resolved is skipped with a diagnostic and yields no result.
func (b *BenchmarkRunner) Run(cases []suite.TestCase) []BenchmarkResult {
	var results []BenchmarkResult
	for _, bc := range b.Cases(cases) {
		fx, ok := b.resolver.Resolve(bc.InputFile)
		if !ok {
			b.log.Warn("skipping benchmark, fixture unavailable",
				"benchmark", bc.Name, "fixture", bc.InputFile)
			continue
		}

		res := b.runCase(bc, fx)
		results = append(results, res)
		b.log.Info("benchmark completed",
			"benchmark", res.Name,
			"avg_ms", res.AvgTimeMs,
			"ops_per_sec", res.OpsPerSecond)
	}
	return results
}

// runCase performs the warm-up invocations, then exactly Iterations timed
// invocations. Evaluator faults during either phase are absorbed: warm-up
// faults are discarded outright, and a faulting timed invocation still
// contributes its sample, since the measurement is the cost of running the
// expression regardless of outcome.
func (b *BenchmarkRunner) runCase(bc BenchmarkCase, fx *fixture.Fixture) BenchmarkResult {
	for i := 0; i < b.Warmup; i++ {
		evaluator.Invoke(b.eval, fx.Doc, bc.Expression)
	}

	samples := make([]float64, 0, bc.Iterations)
	for i := 0; i < bc.Iterations; i++ {
		start := b.clock()
		evaluator.Invoke(b.eval, fx.Doc, bc.Expression)
		samples = append(samples, float64(b.clock().Sub(start))/float64(time.Millisecond))
	}

	res := BenchmarkResult{
		Name:        bc.Name,
		Description: bc.Description,
		Expression:  bc.Expression,
		Iterations:  bc.Iterations,
	}
	if len(samples) == 0 {
		return res
	}

	min, max, sum := samples[0], samples[0], 0.0
	for _, s := range samples {
		sum += s
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	res.AvgTimeMs = sum / float64(len(samples))
	res.MinTimeMs = min
	res.MaxTimeMs = max
	if res.AvgTimeMs > 0 {
		res.OpsPerSecond = 1000 / res.AvgTimeMs
	}
	return res
}
