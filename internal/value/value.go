// Package value models the values a FHIRPath evaluator may return and their
// report serialization.
//
// Evaluators are free to return plain decoded-JSON Go values (bool, string,
// numbers, []any, map[string]any) as well as evaluator-specific wrapper types
// such as DateTime. Reports must serialize regardless of what shows up, so
// encoding goes through an explicit visitor with a guaranteed default arm
// rather than handing unknown types straight to encoding/json.
package value

import (
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"
)

// DateTime wraps a point in time produced by date/time expressions.
// encoding/json would render it in Go's RFC 3339 dialect; reports instead use
// the FHIRPath textual form via String so output stays comparable across
// implementations.
type DateTime struct {
	time.Time
}

// String renders the DateTime in FHIRPath's @-prefixed literal form.
func (d DateTime) String() string {
	return "@" + d.Format("2006-01-02T15:04:05.000-07:00")
}

// Date wraps a calendar date (no time component).
type Date struct {
	time.Time
}

// String renders the Date in FHIRPath's @-prefixed literal form.
func (d Date) String() string {
	return "@" + d.Format("2006-01-02")
}

// Quantity is a decimal with a unit, as produced by FHIRPath quantity
// arithmetic.
type Quantity struct {
	Value float64
	Unit  string
}

func (q Quantity) String() string {
	return fmt.Sprintf("%g '%s'", q.Value, q.Unit)
}

// NFC returns s normalized to Unicode NFC. Applied at the serialization
// boundary so reports from different evaluators compare byte-for-byte even
// when one emits decomposed forms.
func NFC(s string) string {
	return norm.NFC.String(s)
}
