// Package subject defines the capability contract an
// implementation under test exposes to the conformance engine,
// and a registry for the implementations a binary can drive.
package subject

import (
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/path"
)

// DecayInterval is the length in seconds of one decay period.
// When a subject cannot advance time natively, the engine applies
// one decay step per full interval contained in the requested
// duration.
const DecayInterval = 300

// Subject is the minimal contract every implementation under
// test fulfills. One subject instance backs exactly one test;
// the engine never reuses an instance across tests.
//
// Subject embeds path.FieldReader so assertions can address
// state fields like "trust" or "metadata.trend" directly.
type Subject interface {
	path.FieldReader

	// SetField writes a named state field during setup. Unknown
	// fields are an error.
	SetField(name string, value any) error

	// ProcessEvent delivers one event payload. The payload shape
	// is owned by the specification under test; the engine
	// passes it through untouched.
	ProcessEvent(event map[string]any) error

	// RecommendedAction returns the action the implementation
	// currently recommends.
	RecommendedAction() (any, error)
}

// TimeAdvancer is implemented by subjects that can move their
// clock forward natively. The engine prefers this over decay
// stepping when both are available.
type TimeAdvancer interface {
	AdvanceTime(seconds float64) error
}

// DecayStepper is implemented by subjects that expose a single
// decay step. It is the fallback used to simulate the passage of
// time for subjects without a TimeAdvancer.
type DecayStepper interface {
	ApplyDecay() error
}

// Info identifies an implementation under test in reports.
type Info struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Language string `json:"language"`
	License  string `json:"license"`
}

// Factory creates one fresh, isolated subject instance. A
// factory is invoked once per test.
type Factory func() (Subject, error)
