package runner

import (
	"time"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/assertion"
)

// Status is the terminal state of one test vector execution.
type Status string

const (
	// StatusPassed means every assertion held.
	StatusPassed Status = "PASSED"

	// StatusFailed means at least one assertion did not hold.
	StatusFailed Status = "FAILED"

	// StatusError means the test could not be scored: the subject
	// faulted, a step used an unknown action, or the run was
	// cancelled. Errors count against conformance like failures.
	StatusError Status = "ERROR"
)

// Result captures the outcome of one test vector execution.
type Result struct {
	TestID     string             `json:"test_id"`
	Name       string             `json:"name"`
	Status     Status             `json:"status"`
	Error      string             `json:"error,omitempty"`
	Assertions []assertion.Result `json:"assertions,omitempty"`
	StartTime  time.Time          `json:"start_time"`
	EndTime    time.Time          `json:"end_time"`
	Duration   time.Duration      `json:"duration"`
}

// Passed reports whether the test passed.
func (r *Result) Passed() bool {
	return r.Status == StatusPassed
}

// FirstFailure returns the message of the first failed assertion,
// or the execution error when the test never reached scoring.
func (r *Result) FirstFailure() string {
	for _, a := range r.Assertions {
		if !a.Passed {
			return a.Message
		}
	}
	return r.Error
}
