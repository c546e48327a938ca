package suite

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSuite(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoader_AppliesCaseDefaults(t *testing.T) {
	dir := t.TempDir()
	writeSuite(t, dir, "basics.json", `{
		"name": "basics",
		"tests": [
			{"name": "lit-true", "expression": "true"}
		]
	}`)

	cases := NewLoader(dir, discardLogger()).Load()
	require.Len(t, cases, 1)

	tc := cases[0]
	assert.Equal(t, "lit-true", tc.Name)
	assert.Equal(t, "lit-true", tc.Description, "description defaults to name")
	assert.Equal(t, DefaultInputFile, tc.InputFile)
	assert.Equal(t, []any{}, tc.ExpectedOutput, "expected defaults to empty, not nil")
	assert.False(t, tc.Invalid)
	assert.Equal(t, "basics", tc.Group)
}

func TestLoader_GroupFallsBackToFileName(t *testing.T) {
	dir := t.TempDir()
	writeSuite(t, dir, "arithmetic.json", `{
		"tests": [{"name": "add", "expression": "1", "expected": [1]}]
	}`)

	cases := NewLoader(dir, discardLogger()).Load()
	require.Len(t, cases, 1)
	assert.Equal(t, "arithmetic", cases[0].Group)
}

func TestLoader_DropsDisabledCases(t *testing.T) {
	dir := t.TempDir()
	writeSuite(t, dir, "s.json", `{
		"name": "s",
		"tests": [
			{"name": "on", "expression": "true"},
			{"name": "off", "expression": "false", "disable": true}
		]
	}`)

	cases := NewLoader(dir, discardLogger()).Load()
	require.Len(t, cases, 1)
	assert.Equal(t, "on", cases[0].Name)
}

func TestLoader_InvalidMarking(t *testing.T) {
	dir := t.TempDir()
	writeSuite(t, dir, "s.json", `{
		"name": "s",
		"tests": [
			{"name": "plain", "expression": "true"},
			{"name": "error-string", "expression": "1/", "error": "unexpected EOF"},
			{"name": "error-bool", "expression": "1/", "error": true},
			{"name": "error-null", "expression": "true", "error": null}
		]
	}`)

	cases := NewLoader(dir, discardLogger()).Load()
	require.Len(t, cases, 4)

	byName := map[string]TestCase{}
	for _, tc := range cases {
		byName[tc.Name] = tc
	}
	assert.False(t, byName["plain"].Invalid)
	assert.True(t, byName["error-string"].Invalid, "any non-null error value marks the case invalid")
	assert.True(t, byName["error-bool"].Invalid)
	assert.False(t, byName["error-null"].Invalid, "explicit null is the same as absent")
}

func TestLoader_MalformedFileDoesNotBlockOthers(t *testing.T) {
	dir := t.TempDir()
	writeSuite(t, dir, "bad.json", `{not json at all`)
	writeSuite(t, dir, "good.json", `{
		"name": "good",
		"tests": [{"name": "ok", "expression": "true"}]
	}`)

	cases := NewLoader(dir, discardLogger()).Load()
	require.Len(t, cases, 1)
	assert.Equal(t, "ok", cases[0].Name)
}

func TestLoader_SkipsInputSubdirectory(t *testing.T) {
	dir := t.TempDir()
	writeSuite(t, dir, "s.json", `{"name": "s", "tests": [{"name": "a", "expression": "true"}]}`)

	inputDir := filepath.Join(dir, "input")
	require.NoError(t, os.Mkdir(inputDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "patient-example.json"),
		[]byte(`{"resourceType": "Patient"}`), 0644))

	cases := NewLoader(dir, discardLogger()).Load()
	require.Len(t, cases, 1)
	assert.Equal(t, "a", cases[0].Name)
}

func TestLoader_MissingDirectoryIsEmpty(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope"), discardLogger())
	assert.Empty(t, loader.Load())
}

func TestLoader_LoadSuitesKeepsGrouping(t *testing.T) {
	dir := t.TempDir()
	writeSuite(t, dir, "a.json", `{"name": "a", "tests": [{"name": "x", "expression": "true"}]}`)
	writeSuite(t, dir, "b.json", `{"name": "b", "tests": [
		{"name": "y", "expression": "true"},
		{"name": "z", "expression": "false"}
	]}`)

	suites := NewLoader(dir, discardLogger()).LoadSuites()
	require.Len(t, suites, 2)
	assert.Equal(t, "a", suites[0].Name)
	assert.Len(t, suites[0].Tests, 1)
	assert.Equal(t, "b", suites[1].Name)
	assert.Len(t, suites[1].Tests, 2)
}
