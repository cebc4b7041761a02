package runner

import (
	"fmt"
	"math"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/metrics"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/vector"
)

// Interpreter executes one test vector's steps against a single
// subject instance. It probes the subject's optional time-handling
// capabilities once, at construction, and holds the action captured
// by the most recent get_recommended_action step.
type Interpreter struct {
	subject  subject.Subject
	advancer subject.TimeAdvancer
	stepper  subject.DecayStepper
	metrics  metrics.RunMetrics

	captured    any
	hasCaptured bool
}

// NewInterpreter creates an interpreter bound to the given subject.
// A nil metrics recorder disables recording.
func NewInterpreter(subj subject.Subject, m metrics.RunMetrics) *Interpreter {
	if m == nil {
		m = metrics.NoopMetrics{}
	}

	i := &Interpreter{subject: subj, metrics: m}
	if advancer, ok := subj.(subject.TimeAdvancer); ok {
		i.advancer = advancer
	}
	if stepper, ok := subj.(subject.DecayStepper); ok {
		i.stepper = stepper
	}
	return i
}

// RunStep executes a single step against the subject.
func (i *Interpreter) RunStep(step vector.Step) error {
	switch step.Action {
	case vector.StepProcessEvent:
		return i.subject.ProcessEvent(step.Event)

	case vector.StepAdvanceTime:
		return i.advanceTime(step.Seconds)

	case vector.StepGetRecommendedAction:
		action, err := i.subject.RecommendedAction()
		if err != nil {
			return err
		}
		i.captured = action
		i.hasCaptured = true
		return nil

	default:
		return &UnknownActionError{Scope: "step", Action: step.Action}
	}
}

// advanceTime moves the subject's clock forward. Subjects with
// native time handling get the exact duration; otherwise the
// elapsed time is converted into whole decay intervals and applied
// one at a time, discarding the partial remainder.
func (i *Interpreter) advanceTime(seconds float64) error {
	if i.advancer != nil {
		return i.advancer.AdvanceTime(seconds)
	}
	if i.stepper == nil {
		return fmt.Errorf(
			"subject supports neither time advancement nor decay application",
		)
	}

	intervals := int(math.Floor(seconds / subject.DecayInterval))
	for n := 0; n < intervals; n++ {
		if err := i.stepper.ApplyDecay(); err != nil {
			return fmt.Errorf(
				"apply decay (interval %d of %d): %w",
				n+1, intervals, err,
			)
		}
	}
	i.metrics.RecordDecayFallback(intervals)
	return nil
}

// CapturedAction returns the action captured by the most recent
// get_recommended_action step. The second return is false when no
// such step ran.
func (i *Interpreter) CapturedAction() (any, bool) {
	return i.captured, i.hasCaptured
}
