package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/assertion"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/logging"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/metrics"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/monitor"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/vector"
)

const headerRule = "============================================================"

// SuiteRunner executes a whole test suite against one subject
// implementation and reports an overall conformance verdict.
type SuiteRunner struct {
	factory     subject.Factory
	engine      assertion.Engine
	logger      logging.Logger
	out         io.Writer
	metrics     metrics.RunMetrics
	collector   *monitor.Collector
	implName    string
	testTimeout time.Duration
	preHooks    []Hook
	postHooks   []Hook
}

// NewSuiteRunner creates a SuiteRunner for the given subject
// factory. Options override the defaults (stdout console, null
// logger, no-op metrics, no monitor).
func NewSuiteRunner(factory subject.Factory, opts ...RunnerOption) *SuiteRunner {
	s := &SuiteRunner{
		factory:  factory,
		out:      os.Stdout,
		implName: "unknown",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = assertion.NewEngine()
	}
	if s.logger == nil {
		s.logger = logging.NullLogger{}
	}
	if s.metrics == nil {
		s.metrics = metrics.NoopMetrics{}
	}
	return s
}

// Run executes every test in document order and returns all
// results plus whether the implementation passed everything. An
// empty suite is vacuously conformant. Cancellation does not drop
// results: tests that never ran are scored as errors, so the
// returned slice always matches the suite length.
func (s *SuiteRunner) Run(ctx context.Context, suite *vector.Suite) ([]*Result, bool) {
	s.start(suite)

	tr := s.newTestRunner(s.out)
	results := make([]*Result, 0, len(suite.Tests))
	for _, test := range suite.Tests {
		if err := ctx.Err(); err != nil {
			results = append(results, s.cancelled(test, err, s.out))
			continue
		}
		results = append(results, s.runOne(ctx, tr, test))
	}

	return results, s.finish(results)
}

// RunParallel executes tests concurrently, at most maxConcurrency
// at a time. Results keep suite order, and each test's console
// output is buffered and replayed in order so interleaved runs stay
// readable. maxConcurrency <= 1 falls back to sequential Run.
func (s *SuiteRunner) RunParallel(
	ctx context.Context,
	suite *vector.Suite,
	maxConcurrency int,
) ([]*Result, bool) {
	if maxConcurrency <= 1 || len(suite.Tests) <= 1 {
		return s.Run(ctx, suite)
	}

	s.start(suite)

	results := make([]*Result, len(suite.Tests))
	consoles := make([]bytes.Buffer, len(suite.Tests))
	sem := make(chan struct{}, maxConcurrency)

	var wg sync.WaitGroup
	var active int32

	for idx, test := range suite.Tests {
		wg.Add(1)
		go func(idx int, test vector.Test) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[idx] = s.cancelled(test, ctx.Err(), &consoles[idx])
				return
			}
			defer func() { <-sem }()

			s.metrics.SetActiveTests(int(atomic.AddInt32(&active, 1)))
			defer func() {
				s.metrics.SetActiveTests(int(atomic.AddInt32(&active, -1)))
			}()

			tr := s.newTestRunner(&consoles[idx])
			results[idx] = s.runOne(ctx, tr, test)
		}(idx, test)
	}
	wg.Wait()
	s.metrics.SetActiveTests(0)

	for i := range consoles {
		s.out.Write(consoles[i].Bytes())
	}

	return results, s.finish(results)
}

func (s *SuiteRunner) start(suite *vector.Suite) {
	s.printHeader(suite)
	s.metrics.IncrementRunTotal()
	if s.collector != nil {
		s.collector.EmitSuiteStarted(s.implName, len(suite.Tests))
	}
	s.logger.Info("suite started",
		logging.StringField("suite_version", suite.Version),
		logging.StringField("spec_version", suite.SpecVersion),
		logging.StringField("implementation", s.implName),
		logging.IntField("tests", len(suite.Tests)),
	)
}

func (s *SuiteRunner) runOne(ctx context.Context, tr *TestRunner, test vector.Test) *Result {
	if s.collector != nil {
		s.collector.EmitTestStarted(test.ID, test.Name)
	}

	runCtx := ctx
	if s.testTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.testTimeout)
		defer cancel()
	}

	result := tr.RunTest(runCtx, test)

	if s.collector != nil {
		switch result.Status {
		case StatusPassed:
			s.collector.EmitTestPassed(test.ID, test.Name, result.Duration)
		case StatusFailed:
			s.collector.EmitTestFailed(test.ID, test.Name, result.FirstFailure())
		default:
			s.collector.EmitTestErrored(test.ID, test.Name, result.Error)
		}
	}
	return result
}

// cancelled scores a test that never ran because the run context
// was done before its turn.
func (s *SuiteRunner) cancelled(test vector.Test, err error, out io.Writer) *Result {
	now := time.Now()
	result := &Result{
		TestID:    test.ID,
		Name:      test.Name,
		Status:    StatusError,
		Error:     fmt.Sprintf("cancelled: %v", err),
		StartTime: now,
		EndTime:   now,
	}
	fmt.Fprintf(out, "✗ %s: %s - ERROR: %s\n", test.ID, test.Name, result.Error)
	s.metrics.RecordTest(test.ID, string(StatusError), 0)
	if s.collector != nil {
		s.collector.EmitTestErrored(test.ID, test.Name, result.Error)
	}
	return result
}

func (s *SuiteRunner) newTestRunner(out io.Writer) *TestRunner {
	tr := NewTestRunner(s.factory, s.engine, s.logger, out, s.metrics)
	for _, h := range s.preHooks {
		tr.AddPreHook(h)
	}
	for _, h := range s.postHooks {
		tr.AddPostHook(h)
	}
	return tr
}

func (s *SuiteRunner) printHeader(suite *vector.Suite) {
	fmt.Fprintf(s.out, "Aifeels Conformance Test Suite v%s\n", suite.Version)
	fmt.Fprintf(s.out, "Spec version: %s\n", suite.SpecVersion)
	fmt.Fprintf(s.out, "Testing implementation: %s\n", s.implName)
	fmt.Fprintln(s.out, headerRule)
}

// finish prints the summary and verdict. Errored tests count as
// failures for conformance purposes.
func (s *SuiteRunner) finish(results []*Result) bool {
	var passed, failed, errored int
	for _, r := range results {
		switch r.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		default:
			errored++
		}
	}

	total := len(results)
	fmt.Fprintf(s.out, "\n%s\n", headerRule)
	fmt.Fprintf(s.out, "Results: %d passed, %d failed out of %d total\n",
		passed, failed+errored, total)

	allPassed := passed == total
	if allPassed {
		fmt.Fprintln(s.out, "✓ CONFORMANT: Implementation passes all tests!")
	} else {
		fmt.Fprintln(s.out, "✗ NON-CONFORMANT: Implementation failed one or more tests.")
	}

	if s.collector != nil {
		s.collector.EmitSuiteCompleted(passed, failed, errored)
	}
	s.logger.Info("suite finished",
		logging.IntField("passed", passed),
		logging.IntField("failed", failed),
		logging.IntField("errors", errored),
		logging.BoolField("conformant", allPassed),
	)
	return allPassed
}
