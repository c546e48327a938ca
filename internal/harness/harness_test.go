package harness

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fhirbench/fhirbench/internal/fixture"
)

// scriptedEval lets each test dictate evaluator behavior per invocation.
type scriptedEval struct {
	name    string
	version string
	calls   int
	fn      func(doc any, expression string) ([]any, error)
}

func (e *scriptedEval) Name() string {
	if e.name == "" {
		return "scripted"
	}
	return e.name
}

func (e *scriptedEval) Version() string {
	if e.version == "" {
		return "test"
	}
	return e.version
}

func (e *scriptedEval) Evaluate(doc any, expression string) ([]any, error) {
	e.calls++
	return e.fn(doc, expression)
}

func succeedWith(values ...any) *scriptedEval {
	return &scriptedEval{fn: func(any, string) ([]any, error) {
		return values, nil
	}}
}

func failWith(msg string) *scriptedEval {
	return &scriptedEval{fn: func(any, string) ([]any, error) {
		return nil, errors.New(msg)
	}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func patientFixture() *fixture.Fixture {
	return &fixture.Fixture{
		Name: "patient-example.json",
		Doc:  map[string]any{"resourceType": "Patient", "active": true},
	}
}

// writeTestTree lays out a suites directory with its input/ fixture subdir
// and returns the suites dir.
func writeTestTree(t *testing.T, suiteJSON string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "suite.json"), []byte(suiteJSON), 0644))

	inputDir := filepath.Join(dir, "input")
	require.NoError(t, os.Mkdir(inputDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "patient-example.json"),
		[]byte(`{"resourceType": "Patient", "active": true, "name": [{"given": ["Peter"]}]}`), 0644))
	return dir
}
