package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fhirbench/fhirbench/internal/config"
	"github.com/fhirbench/fhirbench/internal/evaluator"
	"github.com/fhirbench/fhirbench/internal/fixture"
	"github.com/fhirbench/fhirbench/internal/harness"
	"github.com/fhirbench/fhirbench/internal/store"
	"github.com/fhirbench/fhirbench/internal/suite"
)

// app wires the harness from configuration. One app serves one invocation.
type app struct {
	cfg  config.Config
	log  *slog.Logger
	eval evaluator.Evaluator
}

func newApp(opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return &app{
		cfg:  cfg,
		log:  log,
		eval: evaluator.NewFieldPath(),
	}, nil
}

// runTests executes the scored conformance pass and writes its report.
// Failed or errored cases are report data; only a report that cannot be
// written fails the command.
func (a *app) runTests(ctx context.Context) error {
	a.log.Info("running conformance tests", "suites", a.cfg.SuitesDir)

	loader := suite.NewLoader(a.cfg.SuitesDir, a.log)
	resolver := fixture.NewResolver(a.cfg.InputDir, a.log)
	executor := harness.NewExecutor(a.eval, a.log)
	runner := harness.NewRunner(loader, resolver, executor, a.log)
	runner.RunInvalid = a.cfg.RunInvalid

	tests, summary := runner.Run()

	writer := harness.NewWriter(a.cfg.ResultsDir, a.cfg.Language)
	path, err := writer.WriteRun(tests, summary)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to persist run report", err)
	}

	a.log.Info("run report written",
		"path", path,
		"total", summary.Total,
		"passed", summary.Passed,
		"failed", summary.Failed,
		"errors", summary.Errors)

	a.recordRun(ctx, summary)
	return nil
}

// runBenchmarks executes the timing pass and writes its report.
func (a *app) runBenchmarks(ctx context.Context) error {
	a.log.Info("running benchmarks", "suites", a.cfg.SuitesDir)

	loader := suite.NewLoader(a.cfg.SuitesDir, a.log)
	resolver := fixture.NewResolver(a.cfg.InputDir, a.log)
	bench := harness.NewBenchmarkRunner(a.eval, resolver, a.log)
	bench.Iterations = a.cfg.Iterations
	bench.Warmup = a.cfg.Warmup
	bench.CaseLimit = a.cfg.BenchCases

	results := bench.Run(loader.Load())

	writer := harness.NewWriter(a.cfg.ResultsDir, a.cfg.Language)
	path, err := writer.WriteBenchmarks(results, harness.NewSystemInfo(a.eval))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to persist benchmark report", err)
	}

	a.log.Info("benchmark report written", "path", path, "benchmarks", len(results))

	a.recordBenchmarks(ctx, results)
	return nil
}

// recordRun appends the run to the history store. The store is supplemental:
// a failed insert must not invalidate a run whose report was written, so
// faults here only warn.
func (a *app) recordRun(ctx context.Context, summary harness.RunSummary) {
	if a.cfg.HistoryDB == "" {
		return
	}
	st, err := store.Open(a.cfg.HistoryDB)
	if err != nil {
		a.log.Warn("failed to open history store", "path", a.cfg.HistoryDB, "err", err)
		return
	}
	defer st.Close()

	id, err := st.RecordRun(ctx, a.cfg.Language, summary)
	if err != nil {
		a.log.Warn("failed to record run history", "err", err)
		return
	}
	a.log.Debug("run recorded", "id", id)
}

func (a *app) recordBenchmarks(ctx context.Context, results []harness.BenchmarkResult) {
	if a.cfg.HistoryDB == "" {
		return
	}
	st, err := store.Open(a.cfg.HistoryDB)
	if err != nil {
		a.log.Warn("failed to open history store", "path", a.cfg.HistoryDB, "err", err)
		return
	}
	defer st.Close()

	id, err := st.RecordBenchmarks(ctx, a.cfg.Language, results)
	if err != nil {
		a.log.Warn("failed to record benchmark history", "err", err)
		return
	}
	a.log.Debug("benchmarks recorded", "id", id)
}

// runBoth runs the conformance pass then the timing pass, in that order.
func runBoth(opts *RootOptions) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.runTests(ctx); err != nil {
		return err
	}
	return a.runBenchmarks(ctx)
}

// NewTestCommand creates the test command (conformance pass only).
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run the conformance pass",
		Long: `Run the conformance pass only.

Loads every suite, executes each enabled case against the evaluator, and
writes the run report. Individually failed or errored cases do not affect
the exit code; they are the report's data.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			return a.runTests(cmd.Context())
		},
	}
}

// NewBenchmarkCommand creates the benchmark command (timing pass only).
func NewBenchmarkCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "benchmark",
		Short: "Run the benchmark pass",
		Long: `Run the benchmark pass only.

Re-executes a bounded prefix of the loaded cases with warm-up and timed
iterations, and writes the benchmark report.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts)
			if err != nil {
				return err
			}
			return a.runBenchmarks(cmd.Context())
		},
	}
}

// NewBothCommand creates the both command: conformance then benchmarks.
func NewBothCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "both",
		Short:         "Run the conformance pass, then benchmarks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoth(rootOpts)
		},
	}
}
