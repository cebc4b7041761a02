package monitor

import (
	"sync"
	"time"
)

// Dashboard tracks the live state of a conformance run so the hub
// can serve point-in-time snapshots to connected clients.
type Dashboard struct {
	mu      sync.RWMutex
	runID   string
	started time.Time
	status  string // running, conformant, non-conformant
	tests   map[string]TestState
	summary Summary
}

// TestState represents the current state of one test vector.
type TestState struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	StartTime *time.Time    `json:"start_time,omitempty"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// Summary holds aggregate stats for the dashboard.
type Summary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Errors   int     `json:"errors"`
	Running  int     `json:"running"`
	Pending  int     `json:"pending"`
	PassRate float64 `json:"pass_rate"`
	Elapsed  string  `json:"elapsed"`
}

// Snapshot is a point-in-time copy of the dashboard state.
type Snapshot struct {
	RunID     string               `json:"run_id"`
	StartTime time.Time            `json:"start_time"`
	Status    string               `json:"status"`
	Tests     map[string]TestState `json:"tests"`
	Summary   Summary              `json:"summary"`
}

// NewDashboard creates a dashboard for the given run.
func NewDashboard(runID string) *Dashboard {
	return &Dashboard{
		runID:   runID,
		started: time.Now(),
		status:  "running",
		tests:   make(map[string]TestState),
	}
}

// UpdateFromEvent updates dashboard state from a run event.
func (d *Dashboard) UpdateFromEvent(event RunEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if event.Type == EventSuiteCompleted {
		if event.Status != "" {
			d.status = event.Status
		}
		d.recalcSummary()
		return
	}
	if event.TestID == "" {
		return
	}

	now := time.Now()
	state, exists := d.tests[event.TestID]
	if !exists {
		state = TestState{
			ID:   event.TestID,
			Name: event.Name,
		}
	}

	switch event.Type {
	case EventTestStarted:
		state.Status = "running"
		state.StartTime = &now
	case EventTestPassed:
		state.Status = "passed"
		state.EndTime = &now
		state.Duration = event.Duration
	case EventTestFailed:
		state.Status = "failed"
		state.EndTime = &now
		state.Message = event.Message
	case EventTestErrored:
		state.Status = "errored"
		state.EndTime = &now
		state.Message = event.Message
	}

	d.tests[event.TestID] = state
	d.recalcSummary()
}

func (d *Dashboard) recalcSummary() {
	s := Summary{}
	for _, ts := range d.tests {
		s.Total++
		switch ts.Status {
		case "passed":
			s.Passed++
		case "failed":
			s.Failed++
		case "errored":
			s.Errors++
		case "running":
			s.Running++
		default:
			s.Pending++
		}
	}
	if completed := s.Passed + s.Failed + s.Errors; completed > 0 {
		s.PassRate = float64(s.Passed) / float64(completed) * 100
	}
	s.Elapsed = time.Since(d.started).Round(time.Millisecond).String()
	d.summary = s
}

// Snapshot returns a copy of the current dashboard state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	tests := make(map[string]TestState, len(d.tests))
	for k, v := range d.tests {
		tests[k] = v
	}
	return Snapshot{
		RunID:     d.runID,
		StartTime: d.started,
		Status:    d.status,
		Tests:     tests,
		Summary:   d.summary,
	}
}

// SetStatus sets the overall run status.
func (d *Dashboard) SetStatus(status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
}

// BuildDashboard creates a Dashboard from a Collector by replaying
// all collected events.
func BuildDashboard(collector *Collector) *Dashboard {
	d := NewDashboard("snapshot")
	for _, event := range collector.Events() {
		d.UpdateFromEvent(event)
	}
	return d
}
