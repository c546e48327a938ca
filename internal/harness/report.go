package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fhirbench/fhirbench/internal/evaluator"
)

// RunReport is the conformance report schema shared across evaluator
// implementations.
type RunReport struct {
	Language  string       `json:"language"`
	Timestamp float64      `json:"timestamp"`
	Tests     []CaseResult `json:"tests"`
	Summary   RunSummary   `json:"summary"`
}

// BenchmarkReport is the benchmark report schema shared across evaluator
// implementations.
type BenchmarkReport struct {
	Language   string            `json:"language"`
	Timestamp  float64           `json:"timestamp"`
	Benchmarks []BenchmarkResult `json:"benchmarks"`
	SystemInfo SystemInfo        `json:"system_info"`
}

// SystemInfo records where the benchmark numbers came from.
type SystemInfo struct {
	Platform         string `json:"platform"`
	GoVersion        string `json:"go_version"`
	EvaluatorVersion string `json:"evaluator_version"`
}

// NewSystemInfo captures system info for the given evaluator.
func NewSystemInfo(eval evaluator.Evaluator) SystemInfo {
	return SystemInfo{
		Platform:         runtime.GOOS,
		GoVersion:        runtime.Version(),
		EvaluatorVersion: eval.Version(),
	}
}

// Writer persists reports under a fixed results directory, one fixed
// filename per report kind; each run overwrites the previous report.
type Writer struct {
	dir      string
	language string

	now func() time.Time
}

// NewWriter creates a Writer for the results directory and implementation
// label.
func NewWriter(dir, language string) *Writer {
	return &Writer{dir: dir, language: language, now: time.Now}
}

// RunReportPath returns the fixed path of the conformance report.
func (w *Writer) RunReportPath() string {
	return filepath.Join(w.dir, w.language+"_test_results.json")
}

// BenchmarkReportPath returns the fixed path of the benchmark report.
func (w *Writer) BenchmarkReportPath() string {
	return filepath.Join(w.dir, w.language+"_benchmark_results.json")
}

// WriteRun serializes the conformance report. A write failure invalidates
// the run's purpose and is returned to the caller as fatal.
func (w *Writer) WriteRun(tests []CaseResult, summary RunSummary) (string, error) {
	rep := RunReport{
		Language:  w.language,
		Timestamp: w.timestamp(),
		Tests:     tests,
		Summary:   summary,
	}
	if rep.Tests == nil {
		rep.Tests = []CaseResult{}
	}
	return w.write(w.RunReportPath(), rep)
}

// WriteBenchmarks serializes the benchmark report.
func (w *Writer) WriteBenchmarks(results []BenchmarkResult, info SystemInfo) (string, error) {
	rep := BenchmarkReport{
		Language:   w.language,
		Timestamp:  w.timestamp(),
		Benchmarks: results,
		SystemInfo: info,
	}
	if rep.Benchmarks == nil {
		rep.Benchmarks = []BenchmarkResult{}
	}
	return w.write(w.BenchmarkReportPath(), rep)
}

func (w *Writer) write(path string, rep any) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		// CaseResult marshaling routes values through the fallback
		// encoder, so this only fires on harness-level bugs.
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

func (w *Writer) timestamp() float64 {
	now := w.now()
	return float64(now.Unix()) + float64(now.Nanosecond())/1e9
}
