package suite

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaCUE string

// Issue is one schema violation found while validating suite files.
type Issue struct {
	File string
	Err  error
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %v", i.File, i.Err)
}

// Validator checks suite files against the embedded CUE schema.
// Definitions are closed, so misspelled fields are rejected rather than
// silently ignored the way encoding/json would.
type Validator struct {
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile suite schema: %w", err)
	}

	schema := v.LookupPath(cue.ParsePath("#Suite"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("failed to resolve #Suite definition: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// ValidateFile checks one suite file. A nil return means the file conforms.
func (v *Validator) ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read suite file: %w", err)
	}

	expr, err := cuejson.Extract(path, data)
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	doc := v.schema.Context().BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("failed to build value: %w", err)
	}

	unified := v.schema.Unify(doc)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}

// ValidateDir checks every suite file under dir and returns one Issue per
// non-conforming file. The fixture input/ subdirectory is excluded.
func (v *Validator) ValidateDir(dir string) ([]Issue, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("suites directory not accessible: %w", err)
	}

	var issues []Issue
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "input" && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}
		if verr := v.ValidateFile(path); verr != nil {
			issues = append(issues, Issue{File: path, Err: verr})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan suites directory: %w", err)
	}
	return issues, nil
}
