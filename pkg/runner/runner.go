// Package runner executes conformance test vectors. It provides
// the step interpreter, the single-test runner with fault
// containment, and the suite runner with sequential and parallel
// execution modes.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/assertion"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/logging"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/metrics"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/path"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/vector"
)

// Hook is a function invoked before or after a test vector
// executes. A failing pre-hook errors the test; failing post-hooks
// are logged and ignored.
type Hook func(ctx context.Context, test vector.Test) error

// TestRunner executes individual test vectors, each against a
// fresh subject instance.
type TestRunner struct {
	factory   subject.Factory
	engine    assertion.Engine
	logger    logging.Logger
	out       io.Writer
	metrics   metrics.RunMetrics
	preHooks  []Hook
	postHooks []Hook
}

// NewTestRunner creates a TestRunner. Nil collaborators fall back
// to defaults: a fresh assertion engine, a null logger, stdout, and
// no-op metrics.
func NewTestRunner(
	factory subject.Factory,
	engine assertion.Engine,
	logger logging.Logger,
	out io.Writer,
	m metrics.RunMetrics,
) *TestRunner {
	if engine == nil {
		engine = assertion.NewEngine()
	}
	if logger == nil {
		logger = logging.NullLogger{}
	}
	if out == nil {
		out = os.Stdout
	}
	if m == nil {
		m = metrics.NoopMetrics{}
	}
	return &TestRunner{
		factory: factory,
		engine:  engine,
		logger:  logger,
		out:     out,
		metrics: m,
	}
}

// AddPreHook appends a hook run before each test.
func (r *TestRunner) AddPreHook(h Hook) {
	r.preHooks = append(r.preHooks, h)
}

// AddPostHook appends a hook run after each test.
func (r *TestRunner) AddPostHook(h Hook) {
	r.postHooks = append(r.postHooks, h)
}

// RunTest executes one test vector through its full lifecycle:
// fresh subject -> initial state -> steps in order -> all
// assertions. Panics from subject code are contained here and
// scored as errors; they never take down the suite.
func (r *TestRunner) RunTest(ctx context.Context, test vector.Test) *Result {
	result := &Result{
		TestID:    test.ID,
		Name:      test.Name,
		StartTime: time.Now(),
	}

	fmt.Fprintf(r.out, "\nRunning %s: %s...\n", test.ID, test.Name)
	r.logger.Debug("test started",
		logging.StringField("test_id", test.ID),
		logging.StringField("name", test.Name),
	)

	defer func() {
		if rec := recover(); rec != nil {
			result.Status = StatusError
			result.Error = fmt.Sprintf("panic: %v", rec)
			r.logger.Error("subject fault contained",
				logging.StringField("test_id", test.ID),
				logging.StringField("panic", fmt.Sprint(rec)),
			)
		}

		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(result.StartTime)
		r.printVerdict(result)
		r.metrics.RecordTest(test.ID, string(result.Status), result.Duration)

		fields := []logging.Field{
			logging.StringField("test_id", result.TestID),
			logging.StringField("status", string(result.Status)),
			logging.DurationField("duration", result.Duration),
		}
		if result.Error != "" {
			fields = append(fields, logging.StringField("error", result.Error))
		}
		r.logger.Info("test finished", fields...)
	}()

	for _, hook := range r.preHooks {
		if err := hook(ctx, test); err != nil {
			result.Status = StatusError
			result.Error = fmt.Sprintf("pre-hook failed: %v", err)
			return result
		}
	}

	r.execute(ctx, test, result)

	for _, hook := range r.postHooks {
		if err := hook(ctx, test); err != nil {
			r.logger.Warn("post-hook failed",
				logging.StringField("test_id", test.ID),
				logging.ErrorField(err),
			)
		}
	}

	return result
}

// execute runs setup, steps, and assertions, mutating result.
// Steps short-circuit on the first failure; assertions never do.
func (r *TestRunner) execute(ctx context.Context, test vector.Test, result *Result) {
	subj, err := r.factory()
	if err != nil {
		result.Status = StatusError
		result.Error = fmt.Sprintf("create subject: %v", err)
		return
	}
	defer func() {
		if closer, ok := subj.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				r.logger.Warn("close subject",
					logging.StringField("test_id", test.ID),
					logging.ErrorField(err),
				)
			}
		}
	}()

	if err := applySetup(subj, test.Setup); err != nil {
		result.Status = StatusError
		result.Error = fmt.Sprintf("setup: %v", err)
		return
	}

	interp := NewInterpreter(subj, r.metrics)
	for idx, step := range test.Steps {
		if err := ctx.Err(); err != nil {
			result.Status = StatusError
			result.Error = fmt.Sprintf("cancelled before step %d: %v", idx+1, err)
			return
		}
		if err := interp.RunStep(step); err != nil {
			result.Status = StatusError
			result.Error = fmt.Sprintf("step %d (%s): %v", idx+1, step.Action, err)
			return
		}
	}

	result.Assertions = r.evaluate(test, subj, interp)

	result.Status = StatusPassed
	for _, a := range result.Assertions {
		if !a.Passed {
			result.Status = StatusFailed
			break
		}
	}

	for _, a := range result.Assertions {
		if !a.Passed {
			fmt.Fprintf(r.out, "  ✗ %s\n", a.Message)
		}
	}
}

// evaluate checks every assertion and returns all outcomes. The
// reserved recommended_action path reads the interpreter's captured
// slot; everything else resolves against subject state.
func (r *TestRunner) evaluate(
	test vector.Test,
	subj subject.Subject,
	interp *Interpreter,
) []assertion.Result {
	results := make([]assertion.Result, 0, len(test.Assertions))

	for _, a := range test.Assertions {
		def := assertion.Definition{
			Path:      a.Path,
			Expected:  a.Expected,
			Type:      a.Type,
			Tolerance: a.Tolerance,
		}

		if a.Path == vector.ReservedActionPath {
			if def.Type == "" {
				def.Type = "equals"
			}
			captured, ok := interp.CapturedAction()
			if !ok {
				results = append(results, assertion.Result{
					Type:     def.Type,
					Path:     def.Path,
					Expected: def.Expected,
					Passed:   false,
					Message:  "recommended_action not captured by any step",
				})
				r.metrics.RecordAssertion(test.ID, def.Type, false)
				continue
			}
			res := r.engine.Evaluate(def, captured)
			results = append(results, res)
			r.metrics.RecordAssertion(test.ID, def.Type, res.Passed)
			continue
		}

		value, err := path.Resolve(subj, a.Path)
		if err != nil {
			results = append(results, assertion.Result{
				Type:     def.Type,
				Path:     def.Path,
				Expected: def.Expected,
				Passed:   false,
				Message:  fmt.Sprintf("Cannot access %s: %v", a.Path, err),
			})
			r.metrics.RecordAssertion(test.ID, def.Type, false)
			continue
		}

		res := r.engine.Evaluate(def, value)
		results = append(results, res)
		r.metrics.RecordAssertion(test.ID, def.Type, res.Passed)
	}

	return results
}

func (r *TestRunner) printVerdict(result *Result) {
	switch result.Status {
	case StatusPassed:
		fmt.Fprintf(r.out, "✓ %s: %s - PASSED\n", result.TestID, result.Name)
	case StatusFailed:
		fmt.Fprintf(r.out, "✗ %s: %s - FAILED\n", result.TestID, result.Name)
	default:
		fmt.Fprintf(r.out, "✗ %s: %s - ERROR: %s\n",
			result.TestID, result.Name, result.Error)
	}
}

// applySetup validates the setup action and writes the initial
// state onto the subject, field by field in stable order.
func applySetup(subj subject.Subject, setup vector.Setup) error {
	if setup.Action != "" && setup.Action != vector.SetupInitialize {
		return &UnknownActionError{Scope: "setup", Action: setup.Action}
	}

	keys := make([]string, 0, len(setup.InitialState))
	for k := range setup.InitialState {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := subj.SetField(k, setup.InitialState[k]); err != nil {
			return fmt.Errorf("set initial state %s: %w", k, err)
		}
	}
	return nil
}
