package metrics

import (
	"sync"
	"time"
)

// MemoryMetrics implements RunMetrics using in-memory counters. It
// is safe for concurrent use, so parallel runs can share a single
// instance. Real Prometheus integration is done by the host
// application using prometheus/client_golang.
type MemoryMetrics struct {
	mu             sync.Mutex
	tests          map[string]int
	assertions     map[string]int
	durations      map[string][]time.Duration
	decaySteps     int
	decayIntervals int
	runTotal       int
	active         int
}

// NewMemoryMetrics creates a new MemoryMetrics instance.
func NewMemoryMetrics() *MemoryMetrics {
	return &MemoryMetrics{
		tests:      make(map[string]int),
		assertions: make(map[string]int),
		durations:  make(map[string][]time.Duration),
	}
}

func (m *MemoryMetrics) RecordTest(testID, status string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[testID+":"+status]++
	m.durations[testID] = append(m.durations[testID], duration)
}

func (m *MemoryMetrics) RecordAssertion(testID, assertionType string, passed bool) {
	status := "failed"
	if passed {
		status = "passed"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assertions[testID+":"+assertionType+":"+status]++
}

func (m *MemoryMetrics) RecordDecayFallback(intervals int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decaySteps++
	m.decayIntervals += intervals
}

func (m *MemoryMetrics) IncrementRunTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runTotal++
}

func (m *MemoryMetrics) SetActiveTests(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

// TestCount returns the count for a test+status combination.
func (m *MemoryMetrics) TestCount(testID, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tests[testID+":"+status]
}

// AssertionCount returns the count for a test, assertion type and
// outcome combination.
func (m *MemoryMetrics) AssertionCount(testID, assertionType string, passed bool) int {
	status := "failed"
	if passed {
		status = "passed"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assertions[testID+":"+assertionType+":"+status]
}

// DecayFallbacks returns how many advance_time steps fell back to
// decay application and the total intervals applied across them.
func (m *MemoryMetrics) DecayFallbacks() (steps, intervals int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decaySteps, m.decayIntervals
}

// RunTotal returns the total number of suite runs.
func (m *MemoryMetrics) RunTotal() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runTotal
}

// ActiveTests returns the current active tests gauge.
func (m *MemoryMetrics) ActiveTests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
