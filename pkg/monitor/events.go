package monitor

import "time"

// EventType represents the type of run event.
type EventType string

const (
	EventSuiteStarted   EventType = "suite_started"
	EventTestStarted    EventType = "test_started"
	EventTestPassed     EventType = "test_passed"
	EventTestFailed     EventType = "test_failed"
	EventTestErrored    EventType = "test_errored"
	EventSuiteCompleted EventType = "suite_completed"
)

// RunEvent represents a lifecycle event during a conformance run.
type RunEvent struct {
	Type      EventType              `json:"type"`
	TestID    string                 `json:"test_id,omitempty"`
	Name      string                 `json:"name,omitempty"`
	Status    string                 `json:"status,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Duration  time.Duration          `json:"duration,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}
