// Package evaluator defines the expression-evaluator capability the harness
// drives. The evaluator itself is an opaque external component: the harness
// only cares whether an invocation produced a value sequence or a fault.
package evaluator

import "fmt"

// Evaluator evaluates expressions against a structured document.
//
// Evaluate returns the result sequence, or an error carrying a
// human-readable message when the expression faults. The harness never
// inspects the message content, only whether a fault occurred.
type Evaluator interface {
	// Name is the implementation label used in reports (e.g. "go").
	Name() string
	// Version identifies the evaluator build for report system info.
	Version() string
	Evaluate(doc any, expression string) ([]any, error)
}

// Outcome is the tagged result of one evaluator invocation: either
// success-with-values or fault-with-message, never both. Modeling the duality
// explicitly keeps outcome classification a pure mapping with no hidden
// control flow.
type Outcome struct {
	values  []any
	fault   string
	faulted bool
}

// Succeeded builds a success outcome.
func Succeeded(values []any) Outcome {
	return Outcome{values: values}
}

// Faulted builds a fault outcome.
func Faulted(message string) Outcome {
	return Outcome{fault: message, faulted: true}
}

// Fault returns the fault message and whether the invocation faulted.
func (o Outcome) Fault() (string, bool) {
	return o.fault, o.faulted
}

// Values returns the result sequence of a successful invocation, nil after a
// fault.
func (o Outcome) Values() []any {
	if o.faulted {
		return nil
	}
	return o.values
}

// Invoke runs one evaluation and folds both error returns and panics into the
// fault variant. A panicking evaluator must not take the harness down; the
// panic becomes an ordinary fault outcome.
func Invoke(e Evaluator, doc any, expression string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Faulted(fmt.Sprintf("evaluator panic: %v", r))
		}
	}()

	values, err := e.Evaluate(doc, expression)
	if err != nil {
		return Faulted(err.Error())
	}
	return Succeeded(values)
}
