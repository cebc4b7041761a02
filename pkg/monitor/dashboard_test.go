package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDashboard(t *testing.T) {
	d := NewDashboard("run-1")

	snap := d.Snapshot()
	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, "running", snap.Status)
	assert.Empty(t, snap.Tests)
}

func TestDashboard_UpdateFromEvent(t *testing.T) {
	d := NewDashboard("run-1")

	d.UpdateFromEvent(RunEvent{
		Type:   EventTestStarted,
		TestID: "basic-001",
		Name:   "Positive event raises trust",
	})

	snap := d.Snapshot()
	state := snap.Tests["basic-001"]
	assert.Equal(t, "running", state.Status)
	require.NotNil(t, state.StartTime)
	assert.Equal(t, 1, snap.Summary.Running)

	d.UpdateFromEvent(RunEvent{
		Type:     EventTestPassed,
		TestID:   "basic-001",
		Duration: 2 * time.Millisecond,
	})

	snap = d.Snapshot()
	state = snap.Tests["basic-001"]
	assert.Equal(t, "passed", state.Status)
	require.NotNil(t, state.EndTime)
	assert.Equal(t, 2*time.Millisecond, state.Duration)
	assert.Equal(t, 0, snap.Summary.Running)
	assert.Equal(t, 1, snap.Summary.Passed)
}

func TestDashboard_FailureAndError(t *testing.T) {
	d := NewDashboard("run-1")

	d.UpdateFromEvent(RunEvent{
		Type:    EventTestFailed,
		TestID:  "decay-001",
		Name:    "Decay after idle",
		Message: "expected 0.6, got 0.5",
	})
	d.UpdateFromEvent(RunEvent{
		Type:    EventTestErrored,
		TestID:  "fault-001",
		Name:    "Panicking subject",
		Message: "boom",
	})

	snap := d.Snapshot()
	assert.Equal(t, "failed", snap.Tests["decay-001"].Status)
	assert.Equal(t, "expected 0.6, got 0.5",
		snap.Tests["decay-001"].Message)
	assert.Equal(t, "errored", snap.Tests["fault-001"].Status)
	assert.Equal(t, 1, snap.Summary.Failed)
	assert.Equal(t, 1, snap.Summary.Errors)
}

func TestDashboard_PassRate(t *testing.T) {
	d := NewDashboard("run-1")

	d.UpdateFromEvent(RunEvent{Type: EventTestPassed, TestID: "a"})
	d.UpdateFromEvent(RunEvent{Type: EventTestFailed, TestID: "b"})

	assert.InDelta(t, 50.0, d.Snapshot().Summary.PassRate, 0.0001)
}

func TestDashboard_SuiteCompleted(t *testing.T) {
	d := NewDashboard("run-1")

	d.UpdateFromEvent(RunEvent{
		Type:   EventSuiteCompleted,
		Status: "conformant",
	})

	assert.Equal(t, "conformant", d.Snapshot().Status)
}

func TestDashboard_SnapshotIsCopy(t *testing.T) {
	d := NewDashboard("run-1")
	d.UpdateFromEvent(RunEvent{
		Type:   EventTestStarted,
		TestID: "basic-001",
	})

	snap := d.Snapshot()
	snap.Tests["basic-001"] = TestState{Status: "mutated"}

	assert.Equal(t, "running",
		d.Snapshot().Tests["basic-001"].Status)
}

func TestDashboard_SetStatus(t *testing.T) {
	d := NewDashboard("run-1")

	d.SetStatus("non-conformant")

	assert.Equal(t, "non-conformant", d.Snapshot().Status)
}

func TestBuildDashboard(t *testing.T) {
	c := NewCollector()
	c.EmitTestStarted("basic-001", "Positive event raises trust")
	c.EmitTestPassed("basic-001", "Positive event raises trust",
		time.Millisecond)
	c.EmitTestFailed("decay-001", "Decay after idle",
		"expected 0.6, got 0.5")

	d := BuildDashboard(c)

	snap := d.Snapshot()
	assert.Equal(t, 2, snap.Summary.Total)
	assert.Equal(t, 1, snap.Summary.Passed)
	assert.Equal(t, 1, snap.Summary.Failed)
}
