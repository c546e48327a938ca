package suite

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads every suite definition under a directory and flattens the
// enabled cases into load order.
type Loader struct {
	dir string
	log *slog.Logger
}

// NewLoader creates a Loader over dir. A nil logger defaults to slog.Default.
func NewLoader(dir string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{dir: dir, log: log}
}

// Load returns the flat ordered sequence of enabled test cases.
//
// Failure policy: a missing directory or a malformed suite file is logged and
// skipped; whatever did parse is returned. A corrupt suite must not prevent
// other suites from loading.
func (l *Loader) Load() []TestCase {
	files, err := l.suiteFiles()
	if err != nil {
		l.log.Error("failed to scan suites directory", "dir", l.dir, "err", err)
		return nil
	}

	var cases []TestCase
	for _, path := range files {
		ts, err := l.loadFile(path)
		if err != nil {
			l.log.Error("failed to load suite file", "file", path, "err", err)
			continue
		}
		cases = append(cases, ts.Tests...)
	}
	return cases
}

// LoadSuites returns the parsed suites keyed in load order, without
// flattening. Used by validation and diagnostics.
func (l *Loader) LoadSuites() []TestSuite {
	files, err := l.suiteFiles()
	if err != nil {
		l.log.Error("failed to scan suites directory", "dir", l.dir, "err", err)
		return nil
	}

	var suites []TestSuite
	for _, path := range files {
		ts, err := l.loadFile(path)
		if err != nil {
			l.log.Error("failed to load suite file", "file", path, "err", err)
			continue
		}
		suites = append(suites, ts)
	}
	return suites
}

// suiteFiles lists suite JSON files in deterministic (lexical) order.
// The input/ subdirectory holds fixtures, not suites.
func (l *Loader) suiteFiles() ([]string, error) {
	if _, err := os.Stat(l.dir); err != nil {
		return nil, err
	}

	var files []string
	err := filepath.Walk(l.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "input" && path != l.dir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".json" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// loadFile parses one suite definition, applying disablement filtering and
// per-case defaults.
func (l *Loader) loadFile(path string) (TestSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TestSuite{}, err
	}

	var sf suiteFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return TestSuite{}, err
	}

	// Fall back to the file's base name when the suite omits its name.
	group := sf.Name
	if group == "" {
		base := filepath.Base(path)
		group = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ts := TestSuite{Name: group}
	for _, cf := range sf.Tests {
		if cf.Disable {
			l.log.Debug("skipping disabled case", "suite", group, "case", cf.Name)
			continue
		}

		inputFile := cf.InputFile
		if inputFile == "" {
			inputFile = DefaultInputFile
		}
		description := cf.Description
		if description == "" {
			description = cf.Name
		}
		expected := cf.Expected
		if expected == nil {
			expected = []any{}
		}

		ts.Tests = append(ts.Tests, TestCase{
			Name:           cf.Name,
			Description:    description,
			Expression:     cf.Expression,
			InputFile:      inputFile,
			ExpectedOutput: expected,
			Invalid:        cf.expectsError(),
			Group:          group,
			Tags:           cf.Tags,
		})
	}
	return ts, nil
}
