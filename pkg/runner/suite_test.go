package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/aifeels"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/metrics"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/monitor"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/vector"
)

func buildSuite(tests ...vector.Test) *vector.Suite {
	return &vector.Suite{
		Version:     "1.0.0",
		SpecVersion: "0.1",
		Tests:       tests,
	}
}

func failingTest(id, name string) vector.Test {
	test := positiveEventTest(id, name)
	test.Assertions = []vector.Assertion{
		{Path: "trust", Expected: 0.99, Type: "equals"},
	}
	return test
}

func erroringTest(id, name string) vector.Test {
	return vector.Test{
		ID:    id,
		Name:  name,
		Steps: []vector.Step{{Action: "teleport"}},
	}
}

func TestSuiteRun_ConformantConsole(t *testing.T) {
	var buf bytes.Buffer
	s := NewSuiteRunner(aifeels.Factory,
		WithOutput(&buf),
		WithImplementationName("aifeels-go"),
	)

	suite := buildSuite(
		positiveEventTest("ok-1", "First positive event"),
		positiveEventTest("ok-2", "Second positive event"),
	)

	results, allPassed := s.Run(context.Background(), suite)

	assert.True(t, allPassed)
	require.Len(t, results, 2)

	want := "Aifeels Conformance Test Suite v1.0.0\n" +
		"Spec version: 0.1\n" +
		"Testing implementation: aifeels-go\n" +
		"============================================================\n" +
		"\nRunning ok-1: First positive event...\n" +
		"✓ ok-1: First positive event - PASSED\n" +
		"\nRunning ok-2: Second positive event...\n" +
		"✓ ok-2: Second positive event - PASSED\n" +
		"\n============================================================\n" +
		"Results: 2 passed, 0 failed out of 2 total\n" +
		"✓ CONFORMANT: Implementation passes all tests!\n"
	assert.Equal(t, want, buf.String())
}

func TestSuiteRun_NonConformant(t *testing.T) {
	var buf bytes.Buffer
	s := NewSuiteRunner(aifeels.Factory,
		WithOutput(&buf),
		WithImplementationName("aifeels-go"),
	)

	suite := buildSuite(
		positiveEventTest("mix-1", "Passes"),
		failingTest("mix-2", "Fails"),
		erroringTest("mix-3", "Errors"),
	)

	results, allPassed := s.Run(context.Background(), suite)

	assert.False(t, allPassed)
	require.Len(t, results, 3)
	assert.Equal(t, StatusPassed, results[0].Status)
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.Equal(t, StatusError, results[2].Status)

	out := buf.String()
	assert.Contains(t, out, "✓ mix-1: Passes - PASSED")
	assert.Contains(t, out, "✗ mix-2: Fails - FAILED")
	assert.Contains(t, out, "✗ mix-3: Errors - ERROR: step 1 (teleport):")
	assert.Contains(t, out, "Results: 1 passed, 2 failed out of 3 total")
	assert.Contains(t, out,
		"✗ NON-CONFORMANT: Implementation failed one or more tests.")
}

func TestSuiteRun_EmptySuiteIsConformant(t *testing.T) {
	var buf bytes.Buffer
	s := NewSuiteRunner(aifeels.Factory, WithOutput(&buf))

	results, allPassed := s.Run(context.Background(), buildSuite())

	assert.True(t, allPassed)
	assert.Empty(t, results)
	assert.Contains(t, buf.String(),
		"Results: 0 passed, 0 failed out of 0 total")
	assert.Contains(t, buf.String(), "✓ CONFORMANT")
}

func TestSuiteRun_EmitsMonitorEvents(t *testing.T) {
	collector := monitor.NewCollector()
	s := NewSuiteRunner(aifeels.Factory,
		WithOutput(io.Discard),
		WithImplementationName("aifeels-go"),
		WithCollector(collector),
	)

	suite := buildSuite(
		positiveEventTest("mon-1", "Passes"),
		failingTest("mon-2", "Fails"),
	)

	_, allPassed := s.Run(context.Background(), suite)
	assert.False(t, allPassed)

	events := collector.Events()
	require.Len(t, events, 6)
	assert.Equal(t, monitor.EventSuiteStarted, events[0].Type)
	assert.Equal(t, "aifeels-go", events[0].Details["implementation"])
	assert.Equal(t, monitor.EventTestStarted, events[1].Type)
	assert.Equal(t, monitor.EventTestPassed, events[2].Type)
	assert.Equal(t, monitor.EventTestStarted, events[3].Type)
	assert.Equal(t, monitor.EventTestFailed, events[4].Type)
	assert.Equal(t, "trust: expected 0.99, got 0.6", events[4].Message)
	assert.Equal(t, monitor.EventSuiteCompleted, events[5].Type)
	assert.Equal(t, "non-conformant", events[5].Status)
	assert.Equal(t, 1, events[5].Details["passed"])
	assert.Equal(t, 1, events[5].Details["failed"])

	stats := collector.Stats()
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 1, stats.Failed)
}

func TestSuiteRun_CancelledScoresRemainingTests(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	s := NewSuiteRunner(aifeels.Factory, WithOutput(&buf))
	suite := buildSuite(
		positiveEventTest("can-1", "One"),
		positiveEventTest("can-2", "Two"),
	)

	results, allPassed := s.Run(ctx, suite)

	assert.False(t, allPassed)
	require.Len(t, results, 2, "cancelled tests still produce results")
	for _, r := range results {
		assert.Equal(t, StatusError, r.Status)
		assert.Equal(t, "cancelled: context canceled", r.Error)
	}
	assert.Contains(t, buf.String(),
		"Results: 0 passed, 2 failed out of 2 total")
}

func TestSuiteRun_PerTestTimeout(t *testing.T) {
	stub := newStubSubject()
	stub.eventDelay = 30 * time.Millisecond
	s := NewSuiteRunner(stubFactory(stub),
		WithOutput(io.Discard),
		WithTestTimeout(10*time.Millisecond),
	)

	test := vector.Test{
		ID:   "slow-001",
		Name: "Two slow steps",
		Steps: []vector.Step{
			{Action: vector.StepProcessEvent},
			{Action: vector.StepProcessEvent},
		},
	}

	results, allPassed := s.Run(context.Background(), buildSuite(test))

	assert.False(t, allPassed)
	require.Len(t, results, 1)
	assert.Equal(t, StatusError, results[0].Status)
	assert.Contains(t, results[0].Error, "cancelled before step 2")
}

func TestSuiteRun_HooksRunPerTest(t *testing.T) {
	var pre, post int
	s := NewSuiteRunner(aifeels.Factory,
		WithOutput(io.Discard),
		WithPreHook(func(ctx context.Context, test vector.Test) error {
			pre++
			return nil
		}),
		WithPostHook(func(ctx context.Context, test vector.Test) error {
			post++
			return nil
		}),
	)

	suite := buildSuite(
		positiveEventTest("h-1", "One"),
		positiveEventTest("h-2", "Two"),
	)
	_, allPassed := s.Run(context.Background(), suite)

	assert.True(t, allPassed)
	assert.Equal(t, 2, pre)
	assert.Equal(t, 2, post)
}

func TestSuiteRunParallel_KeepsOrderAndLeaksNothing(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer
	s := NewSuiteRunner(aifeels.Factory,
		WithOutput(&buf),
		WithImplementationName("aifeels-go"),
	)

	suite := buildSuite(
		positiveEventTest("par-1", "One"),
		positiveEventTest("par-2", "Two"),
		positiveEventTest("par-3", "Three"),
		positiveEventTest("par-4", "Four"),
	)

	results, allPassed := s.RunParallel(context.Background(), suite, 3)

	assert.True(t, allPassed)
	require.Len(t, results, 4)
	for i, id := range []string{"par-1", "par-2", "par-3", "par-4"} {
		assert.Equal(t, id, results[i].TestID)
	}

	out := buf.String()
	assert.Contains(t, out, "Results: 4 passed, 0 failed out of 4 total")
	assert.Less(t,
		strings.Index(out, "Running par-1:"),
		strings.Index(out, "Running par-4:"),
		"buffered consoles replay in suite order",
	)
}

func TestSuiteRunParallel_SingleWorkerMatchesSequential(t *testing.T) {
	suite := buildSuite(
		positiveEventTest("seq-1", "One"),
		failingTest("seq-2", "Two"),
	)

	var seq bytes.Buffer
	_, seqPassed := NewSuiteRunner(aifeels.Factory,
		WithOutput(&seq),
		WithImplementationName("ref"),
	).Run(context.Background(), suite)

	var par bytes.Buffer
	_, parPassed := NewSuiteRunner(aifeels.Factory,
		WithOutput(&par),
		WithImplementationName("ref"),
	).RunParallel(context.Background(), suite, 1)

	assert.Equal(t, seqPassed, parPassed)
	assert.Equal(t, seq.String(), par.String())
}

func TestSuiteRunParallel_Metrics(t *testing.T) {
	mem := metrics.NewMemoryMetrics()
	s := NewSuiteRunner(aifeels.Factory,
		WithOutput(io.Discard),
		WithMetrics(mem),
	)

	suite := buildSuite(
		positiveEventTest("met-1", "One"),
		positiveEventTest("met-2", "Two"),
	)
	_, allPassed := s.RunParallel(context.Background(), suite, 2)

	assert.True(t, allPassed)
	assert.Equal(t, 1, mem.RunTotal())
	assert.Equal(t, 0, mem.ActiveTests(), "gauge returns to zero after the run")
	assert.Equal(t, 1, mem.TestCount("met-1", "PASSED"))
	assert.Equal(t, 1, mem.TestCount("met-2", "PASSED"))
}
