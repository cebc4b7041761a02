// Package assertion provides an extensible assertion evaluation
// engine for conformance test vectors. It ships with the two
// comparison modes the vector schema defines and supports custom
// evaluator registration.
package assertion

// DefaultTolerance is the absolute tolerance applied by the
// "approximately" evaluator when a definition does not carry its
// own tolerance.
const DefaultTolerance = 0.001

// Definition describes a single assertion to evaluate against a
// value read from the implementation under test.
type Definition struct {
	// Path is the dot-separated address of the value to check,
	// e.g. "trust" or "metadata.trend".
	Path string `json:"path"`

	// Expected is the value the assertion compares against.
	Expected any `json:"expected"`

	// Type is the evaluator type (e.g., "equals",
	// "approximately").
	Type string `json:"type"`

	// Tolerance overrides DefaultTolerance for "approximately"
	// assertions. Nil means the default applies.
	Tolerance *float64 `json:"tolerance,omitempty"`
}

// ToleranceOrDefault returns the definition's tolerance, or
// DefaultTolerance when none is set.
func (d Definition) ToleranceOrDefault() float64 {
	if d.Tolerance == nil {
		return DefaultTolerance
	}
	return *d.Tolerance
}

// Result captures the outcome of evaluating a single assertion.
type Result struct {
	// Type is the assertion type that was evaluated.
	Type string `json:"type"`

	// Path is the address of the value that was checked.
	Path string `json:"path"`

	// Expected is the value the assertion expected.
	Expected any `json:"expected"`

	// Actual is the value that was observed.
	Actual any `json:"actual"`

	// Passed indicates whether the assertion succeeded.
	Passed bool `json:"passed"`

	// Message is a human-readable description of the outcome.
	Message string `json:"message"`
}
