package harness

import (
	"log/slog"

	"github.com/fhirbench/fhirbench/internal/fixture"
	"github.com/fhirbench/fhirbench/internal/suite"
)

// Runner orchestrates a scored conformance pass: load suites, resolve
// fixtures, execute cases one at a time in load order, aggregate outcomes.
type Runner struct {
	loader   *suite.Loader
	resolver *fixture.Resolver
	executor *Executor
	log      *slog.Logger

	// RunInvalid includes invalid-marked cases in the scored run. They are
	// excluded by default to keep routine runs stable on evaluators that
	// misbehave on malformed input; their classification semantics apply
	// whenever they do run.
	RunInvalid bool
}

// NewRunner wires a Runner from its collaborators. A nil logger defaults to
// slog.Default.
func NewRunner(loader *suite.Loader, resolver *fixture.Resolver, executor *Executor, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{loader: loader, resolver: resolver, executor: executor, log: log}
}

// Run executes the conformance pass and returns the ordered case results and
// their summary.
//
// A case whose fixture cannot be resolved is skipped and contributes to
// neither the results nor the summary counters. Skipped cases are logged;
// nothing here is fatal.
func (r *Runner) Run() ([]CaseResult, RunSummary) {
	cases := r.loader.Load()
	r.log.Info("loaded test cases", "count", len(cases))

	agg := NewAggregator()
	for _, tc := range cases {
		if tc.Invalid && !r.RunInvalid {
			r.log.Debug("skipping invalid case", "case", tc.Name, "group", tc.Group)
			continue
		}

		fx, ok := r.resolver.Resolve(tc.InputFile)
		if !ok {
			r.log.Warn("skipping case, fixture unavailable",
				"case", tc.Name, "group", tc.Group, "fixture", tc.InputFile)
			continue
		}

		res := r.executor.Execute(tc, fx)
		agg.Add(res)
		r.log.Info("case executed",
			"case", res.Name,
			"group", tc.Group,
			"status", res.Status,
			"ms", res.ExecutionTimeMs)
	}

	return agg.Results(), agg.Summary()
}
