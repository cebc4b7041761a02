// Package vector defines the declarative test-vector documents a
// conformance run executes, and loads them from JSON or YAML files.
package vector

// ReservedActionPath is the assertion path that addresses the
// value captured by a get_recommended_action step instead of a
// field on the subject.
const ReservedActionPath = "recommended_action"

// Setup and step actions recognized by the step interpreter.
const (
	// SetupInitialize creates a fresh subject and applies the
	// optional initial state.
	SetupInitialize = "initialize"

	// StepProcessEvent delivers an event payload to the subject.
	StepProcessEvent = "process_event"

	// StepAdvanceTime moves the subject's clock forward by a
	// number of seconds.
	StepAdvanceTime = "advance_time"

	// StepGetRecommendedAction queries the subject's recommended
	// action and captures it for later assertions.
	StepGetRecommendedAction = "get_recommended_action"
)

// Suite is a versioned collection of conformance tests targeting
// one specification version.
type Suite struct {
	// Version identifies the test suite itself.
	Version string `json:"version" yaml:"version"`

	// SpecVersion is the specification version the tests
	// exercise.
	SpecVersion string `json:"spec_version" yaml:"spec_version"`

	// Tests are executed in document order.
	Tests []Test `json:"tests" yaml:"tests"`
}

// Test is a single conformance test: a setup phase, an ordered
// list of steps, and the assertions checked once all steps ran.
type Test struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Setup      Setup       `json:"setup" yaml:"setup"`
	Steps      []Step      `json:"steps" yaml:"steps"`
	Assertions []Assertion `json:"assertions" yaml:"assertions"`
}

// Setup describes how the subject is prepared before steps run.
type Setup struct {
	// Action must be SetupInitialize.
	Action string `json:"action" yaml:"action"`

	// InitialState holds field values written to the subject
	// after creation, keyed by field name.
	InitialState map[string]any `json:"initial_state,omitempty" yaml:"initial_state,omitempty"`
}

// Step is a single state transition applied to the subject.
type Step struct {
	// Action selects the transition: StepProcessEvent,
	// StepAdvanceTime or StepGetRecommendedAction.
	Action string `json:"action" yaml:"action"`

	// Event is the payload for StepProcessEvent. Its shape is
	// defined by the specification under test and is opaque to
	// the engine.
	Event map[string]any `json:"event,omitempty" yaml:"event,omitempty"`

	// Seconds is the duration for StepAdvanceTime.
	Seconds float64 `json:"seconds,omitempty" yaml:"seconds,omitempty"`
}

// Assertion is a single check against the subject's state or a
// captured recommended action.
type Assertion struct {
	// Path addresses the value to check. The reserved path
	// "recommended_action" reads the captured action instead of
	// subject state.
	Path string `json:"path" yaml:"path"`

	// Expected is the value to compare against.
	Expected any `json:"expected" yaml:"expected"`

	// Type is the comparison mode, "equals" or "approximately".
	// The reserved action path may omit it, in which case
	// "equals" applies.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Tolerance overrides the default absolute tolerance for
	// "approximately" comparisons.
	Tolerance *float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
}
