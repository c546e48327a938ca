// Package harness is the conformance-test and micro-benchmark engine.
//
// It drives an evaluator over loaded test cases, classifies each outcome,
// aggregates pass/fail/error statistics, measures per-expression latency over
// repeated invocations, and serializes machine-readable reports meant for
// comparison across independently implemented evaluators of the same
// expression language.
//
// Outcome classification is the central algorithm:
//
//	valid case   + success -> passed
//	valid case   + fault   -> error   (implementation defect)
//	invalid case + success -> failed  (specification violation)
//	invalid case + fault   -> passed
//
// The asymmetry is deliberate: an unexpected fault and an unexpected success
// are different failure modes and stay distinguishable in reports.
//
// A case is scored passed purely on absence of a fault; actual output is not
// compared against the declared expected output. The report carries both
// fields, and downstream comparison tooling performs the value-level diff
// across implementations.
package harness
