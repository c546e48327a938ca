package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fhirbench/fhirbench/internal/harness"
)

// Run kinds recorded in the history.
const (
	KindTest      = "test"
	KindBenchmark = "benchmark"
)

// RunRecord is one completed run as stored in the history.
type RunRecord struct {
	ID        string
	Kind      string
	Language  string
	CreatedAt time.Time
	Summary   harness.RunSummary
}

// RecordRun inserts a conformance run and returns its generated id.
func (s *Store) RecordRun(ctx context.Context, language string, summary harness.RunSummary) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, language, created_at, total, passed, failed, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		KindTest,
		language,
		time.Now().UTC().Format(time.RFC3339),
		summary.Total,
		summary.Passed,
		summary.Failed,
		summary.Errors,
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

// RecordBenchmarks inserts a benchmark run with its per-expression results
// in one transaction and returns the generated run id.
func (s *Store) RecordBenchmarks(ctx context.Context, language string, results []harness.BenchmarkResult) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("record benchmarks: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, kind, language, created_at, total)
		VALUES (?, ?, ?, ?, ?)
	`,
		id,
		KindBenchmark,
		language,
		time.Now().UTC().Format(time.RFC3339),
		len(results),
	)
	if err != nil {
		return "", fmt.Errorf("record benchmarks: insert run: %w", err)
	}

	for _, r := range results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO benchmark_results
			(run_id, name, expression, iterations, avg_time_ms, min_time_ms, max_time_ms, ops_per_second)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id, r.Name, r.Expression, r.Iterations,
			r.AvgTimeMs, r.MinTimeMs, r.MaxTimeMs, r.OpsPerSecond,
		)
		if err != nil {
			return "", fmt.Errorf("record benchmarks: insert result %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record benchmarks: commit: %w", err)
	}
	return id, nil
}
