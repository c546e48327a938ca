package store

import (
	"context"
	"fmt"
	"time"

	"github.com/fhirbench/fhirbench/internal/harness"
)

// ListRuns returns the most recent runs, newest first, up to limit.
// A non-positive limit means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: negative LIMIT means unlimited
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, language, created_at, total, passed, failed, errors
		FROM runs
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var createdAt string
		if err := rows.Scan(
			&rec.ID, &rec.Kind, &rec.Language, &createdAt,
			&rec.Summary.Total, &rec.Summary.Passed, &rec.Summary.Failed, &rec.Summary.Errors,
		); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("list runs: parse created_at %q: %w", createdAt, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return records, nil
}

// BenchmarkHistory returns the stored results for one benchmark run.
func (s *Store) BenchmarkHistory(ctx context.Context, runID string) ([]harness.BenchmarkResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, expression, iterations, avg_time_ms, min_time_ms, max_time_ms, ops_per_second
		FROM benchmark_results
		WHERE run_id = ?
		ORDER BY name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("benchmark history: %w", err)
	}
	defer rows.Close()

	var results []harness.BenchmarkResult
	for rows.Next() {
		var r harness.BenchmarkResult
		if err := rows.Scan(
			&r.Name, &r.Expression, &r.Iterations,
			&r.AvgTimeMs, &r.MinTimeMs, &r.MaxTimeMs, &r.OpsPerSecond,
		); err != nil {
			return nil, fmt.Errorf("benchmark history: scan: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("benchmark history: %w", err)
	}
	return results, nil
}
