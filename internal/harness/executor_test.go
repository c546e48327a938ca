package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhirbench/fhirbench/internal/evaluator"
	"github.com/fhirbench/fhirbench/internal/suite"
	"github.com/fhirbench/fhirbench/internal/testutil"
)

func TestExecutor_OutcomeClassification(t *testing.T) {
	tests := []struct {
		name       string
		invalid    bool
		eval       *scriptedEval
		wantStatus Status
		wantError  string
		wantActual []any
	}{
		{
			name:       "valid case succeeds",
			eval:       succeedWith(true),
			wantStatus: StatusPassed,
			wantActual: []any{true},
		},
		{
			name:       "valid case faults",
			eval:       failWith("unexpected EOF"),
			wantStatus: StatusError,
			wantError:  "unexpected EOF",
		},
		{
			name:       "invalid case faults as designed",
			invalid:    true,
			eval:       failWith("unexpected EOF"),
			wantStatus: StatusPassed,
		},
		{
			name:       "invalid case unexpectedly succeeds",
			invalid:    true,
			eval:       succeedWith(true),
			wantStatus: StatusFailed,
			wantError:  "Expected error but expression succeeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewExecutor(tt.eval, discardLogger())
			tc := suite.TestCase{
				Name:           "case",
				Description:    "case",
				Expression:     "expr",
				ExpectedOutput: []any{},
				Invalid:        tt.invalid,
			}

			res := x.Execute(tc, patientFixture())

			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantError, res.Error)
			assert.Equal(t, tt.wantActual, res.Actual)
			assert.Equal(t, 1, tt.eval.calls, "exactly one invocation per case")
		})
	}
}

func TestExecutor_PanicClassifiedAsError(t *testing.T) {
	eval := &scriptedEval{fn: func(any, string) ([]any, error) {
		panic("stack blown")
	}}
	x := NewExecutor(eval, discardLogger())

	res := x.Execute(suite.TestCase{Name: "p", Expression: "expr"}, patientFixture())

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "evaluator panic: stack blown", res.Error)
}

func TestExecutor_PanicOnInvalidCasePasses(t *testing.T) {
	eval := &scriptedEval{fn: func(any, string) ([]any, error) {
		panic("parser blew up")
	}}
	x := NewExecutor(eval, discardLogger())

	res := x.Execute(suite.TestCase{Name: "p", Expression: "1/", Invalid: true}, patientFixture())

	assert.Equal(t, StatusPassed, res.Status)
	assert.Empty(t, res.Error)
}

func TestExecutor_MeasuresEvaluatorCallOnly(t *testing.T) {
	clk := testutil.NewStepClock(time.Unix(0, 0), 3*time.Millisecond)
	x := NewExecutor(succeedWith(true), discardLogger())
	x.clock = clk.Now

	res := x.Execute(suite.TestCase{Name: "timed", Expression: "true"}, patientFixture())

	// One reading before the call and one after, three milliseconds apart.
	assert.Equal(t, 3.0, res.ExecutionTimeMs)
}

func TestExecutor_CarriesCaseMetadata(t *testing.T) {
	x := NewExecutor(succeedWith("Peter"), discardLogger())
	tc := suite.TestCase{
		Name:           "name-given",
		Description:    "first given name",
		Expression:     "Patient.name.given",
		ExpectedOutput: []any{"Peter"},
	}

	res := x.Execute(tc, patientFixture())

	assert.Equal(t, "name-given", res.Name)
	assert.Equal(t, "first given name", res.Description)
	assert.Equal(t, "Patient.name.given", res.Expression)
	assert.Equal(t, []any{"Peter"}, res.Expected)
}

func TestExecutor_WorksWithBuiltinEvaluator(t *testing.T) {
	x := NewExecutor(evaluator.NewFieldPath(), discardLogger())

	res := x.Execute(suite.TestCase{Name: "lit", Expression: "true"}, patientFixture())
	require.Equal(t, StatusPassed, res.Status)
	assert.Equal(t, []any{true}, res.Actual)

	res = x.Execute(suite.TestCase{Name: "bad", Expression: "1/"}, patientFixture())
	assert.Equal(t, StatusError, res.Status)
	assert.NotEmpty(t, res.Error)
}
