// Package suite loads declarative FHIRPath conformance suites.
//
// A suite is a JSON file of the form:
//
//	{
//	  "name": "basics",
//	  "tests": [
//	    {"name": "lit-true", "expression": "true", "expected": [true]},
//	    {"name": "bad-expr", "expression": "1/", "error": "unexpected EOF"}
//	  ]
//	}
//
// A present, non-null "error" field marks the case invalid: the evaluator is
// expected to fault on it. Disabled cases are dropped at load time.
package suite

import "encoding/json"

// DefaultInputFile is the fixture used when a case does not name one.
const DefaultInputFile = "patient-example.json"

// TestSuite is one parsed suite definition. Immutable after load.
type TestSuite struct {
	Name  string
	Tests []TestCase
}

// TestCase is a single conformance case. Constructed once during loading,
// read-only thereafter.
type TestCase struct {
	// Name is unique within its suite, not globally.
	Name        string
	Description string
	Expression  string

	// InputFile names the fixture document; defaults to DefaultInputFile.
	InputFile string

	// ExpectedOutput carries the declared expected values. It is reported
	// but not compared against actual results (see harness docs).
	ExpectedOutput []any

	// Invalid is true when the case is defined to trigger an evaluator
	// fault. Success on such a case is itself the failure.
	Invalid bool

	// Group is the owning suite name.
	Group string

	Tags []string
}

// suiteFile mirrors the suite JSON layout for decoding.
type suiteFile struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Source      string     `json:"source"`
	Tests       []caseFile `json:"tests"`
}

type caseFile struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Expression  string          `json:"expression"`
	InputFile   string          `json:"inputfile"`
	Expected    []any           `json:"expected"`
	Error       json.RawMessage `json:"error"`
	Disable     bool            `json:"disable"`
	Tags        []string        `json:"tags"`
}

// expectsError reports whether the raw error field is present and non-null.
func (c caseFile) expectsError() bool {
	return len(c.Error) > 0 && string(c.Error) != "null"
}
