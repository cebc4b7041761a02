package metrics

import "time"

// RunMetrics defines the interface for recording conformance run
// metrics.
type RunMetrics interface {
	// RecordTest records one finished test vector execution.
	RecordTest(testID, status string, duration time.Duration)
	// RecordAssertion records an assertion evaluation.
	RecordAssertion(testID, assertionType string, passed bool)
	// RecordDecayFallback records an advance_time step that was
	// served by repeated decay application instead of native
	// time handling.
	RecordDecayFallback(intervals int)
	// IncrementRunTotal increments the total suite run counter.
	IncrementRunTotal()
	// SetActiveTests sets the gauge of tests currently running.
	SetActiveTests(count int)
}

// NoopMetrics is a no-op implementation of RunMetrics
// useful for testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordTest(_, _ string, _ time.Duration) {}
func (NoopMetrics) RecordAssertion(_, _ string, _ bool)     {}
func (NoopMetrics) RecordDecayFallback(_ int)               {}
func (NoopMetrics) IncrementRunTotal()                      {}
func (NoopMetrics) SetActiveTests(_ int)                    {}
