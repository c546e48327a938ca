package evaluator

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldPath is a deliberately small built-in evaluator covering literals and
// dotted member navigation (e.g. "Patient.name.given"). It exists so the
// binary runs end to end and the harness has a real evaluator to exercise in
// tests; a production FHIRPath implementation plugs in through the Evaluator
// interface instead.
type FieldPath struct{}

// NewFieldPath creates the built-in evaluator.
func NewFieldPath() *FieldPath {
	return &FieldPath{}
}

func (*FieldPath) Name() string { return "go" }

func (*FieldPath) Version() string { return "fieldpath-builtin" }

// Evaluate resolves a literal or a dotted path against doc. Unsupported
// syntax faults; navigation that finds nothing succeeds with an empty
// sequence, matching FHIRPath's empty-collection semantics.
func (*FieldPath) Evaluate(doc any, expression string) ([]any, error) {
	expr := strings.TrimSpace(expression)
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}

	if v, ok, err := literal(expr); err != nil {
		return nil, err
	} else if ok {
		return []any{v}, nil
	}

	segments := strings.Split(expr, ".")
	for _, seg := range segments {
		if !isIdentifier(seg) {
			return nil, fmt.Errorf("unsupported expression: %q", expression)
		}
	}

	nodes := []any{doc}

	// A leading segment matching the document's resource type is the root
	// type name, not a member.
	if m, ok := doc.(map[string]any); ok {
		if rt, ok := m["resourceType"].(string); ok && rt == segments[0] {
			segments = segments[1:]
		}
	}

	for _, seg := range segments {
		nodes = step(nodes, seg)
	}
	return nodes, nil
}

// literal parses boolean, integer, decimal, and single-quoted string
// literals. Returns ok=false when expr is not literal-shaped, and an error
// when it is literal-shaped but malformed (e.g. "1/").
func literal(expr string) (any, bool, error) {
	switch expr {
	case "true":
		return true, true, nil
	case "false":
		return false, true, nil
	}

	if strings.HasPrefix(expr, "'") {
		if len(expr) < 2 || !strings.HasSuffix(expr, "'") {
			return nil, false, fmt.Errorf("unterminated string literal: %q", expr)
		}
		return expr[1 : len(expr)-1], true, nil
	}

	first := expr[0]
	if first >= '0' && first <= '9' || first == '-' && len(expr) > 1 {
		if i, err := strconv.ParseInt(expr, 10, 64); err == nil {
			return i, true, nil
		}
		if f, err := strconv.ParseFloat(expr, 64); err == nil {
			return f, true, nil
		}
		return nil, false, fmt.Errorf("malformed numeric literal: %q", expr)
	}

	return nil, false, nil
}

// step navigates one member segment, flattening arrays the way FHIRPath
// collections do. Nodes without the member contribute nothing.
func step(nodes []any, name string) []any {
	var out []any
	for _, n := range nodes {
		switch v := n.(type) {
		case map[string]any:
			if child, ok := v[name]; ok {
				out = appendFlat(out, child)
			}
		case []any:
			for _, elem := range v {
				if m, ok := elem.(map[string]any); ok {
					if child, ok := m[name]; ok {
						out = appendFlat(out, child)
					}
				}
			}
		}
	}
	return out
}

func appendFlat(out []any, v any) []any {
	if arr, ok := v.([]any); ok {
		return append(out, arr...)
	}
	return append(out, v)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
