package monitor

import (
	"sync"
	"time"
)

// Collector captures run events and timing data.
type Collector struct {
	mu       sync.RWMutex
	events   []RunEvent
	handlers []func(RunEvent)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Errored   int           `json:"errored"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// NewCollector creates a new event collector.
func NewCollector() *Collector {
	return &Collector{
		events: make([]RunEvent, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *Collector) OnEvent(handler func(RunEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *Collector) Emit(event RunEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	c.stats.Total++
	switch event.Type {
	case EventTestPassed:
		c.stats.Passed++
	case EventTestFailed:
		c.stats.Failed++
	case EventTestErrored:
		c.stats.Errored++
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := make([]func(RunEvent), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// EmitSuiteStarted emits a suite started event.
func (c *Collector) EmitSuiteStarted(implementation string, total int) {
	c.Emit(RunEvent{
		Type:      EventSuiteStarted,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"implementation": implementation,
			"total":          total,
		},
	})
}

// EmitTestStarted emits a test started event.
func (c *Collector) EmitTestStarted(id, name string) {
	c.Emit(RunEvent{
		Type:      EventTestStarted,
		TestID:    id,
		Name:      name,
		Timestamp: time.Now(),
	})
}

// EmitTestPassed emits a test passed event.
func (c *Collector) EmitTestPassed(id, name string, duration time.Duration) {
	c.Emit(RunEvent{
		Type:      EventTestPassed,
		TestID:    id,
		Name:      name,
		Status:    "passed",
		Duration:  duration,
		Timestamp: time.Now(),
	})
}

// EmitTestFailed emits a test failed event.
func (c *Collector) EmitTestFailed(id, name, msg string) {
	c.Emit(RunEvent{
		Type:      EventTestFailed,
		TestID:    id,
		Name:      name,
		Status:    "failed",
		Message:   msg,
		Timestamp: time.Now(),
	})
}

// EmitTestErrored emits a test errored event.
func (c *Collector) EmitTestErrored(id, name, msg string) {
	c.Emit(RunEvent{
		Type:      EventTestErrored,
		TestID:    id,
		Name:      name,
		Status:    "errored",
		Message:   msg,
		Timestamp: time.Now(),
	})
}

// EmitSuiteCompleted emits a suite completed event. The status is
// "conformant" when every test passed.
func (c *Collector) EmitSuiteCompleted(passed, failed, errors int) {
	status := "conformant"
	if failed > 0 || errors > 0 {
		status = "non-conformant"
	}
	c.Emit(RunEvent{
		Type:      EventSuiteCompleted,
		Status:    status,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"passed": passed,
			"failed": failed,
			"errors": errors,
		},
	})
}

// Events returns a copy of all collected events.
func (c *Collector) Events() []RunEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]RunEvent, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *Collector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
