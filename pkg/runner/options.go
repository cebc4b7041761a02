package runner

import (
	"io"
	"time"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/assertion"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/logging"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/metrics"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/monitor"
)

// RunnerOption configures a SuiteRunner.
type RunnerOption func(*SuiteRunner)

// WithEngine sets the assertion engine used for all tests.
func WithEngine(e assertion.Engine) RunnerOption {
	return func(s *SuiteRunner) {
		s.engine = e
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) RunnerOption {
	return func(s *SuiteRunner) {
		s.logger = l
	}
}

// WithOutput redirects the operator console. Defaults to stdout.
func WithOutput(w io.Writer) RunnerOption {
	return func(s *SuiteRunner) {
		s.out = w
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m metrics.RunMetrics) RunnerOption {
	return func(s *SuiteRunner) {
		s.metrics = m
	}
}

// WithCollector attaches a monitor collector that receives run
// events as tests start and finish.
func WithCollector(c *monitor.Collector) RunnerOption {
	return func(s *SuiteRunner) {
		s.collector = c
	}
}

// WithTestTimeout bounds each individual test. Zero means no
// per-test deadline.
func WithTestTimeout(d time.Duration) RunnerOption {
	return func(s *SuiteRunner) {
		s.testTimeout = d
	}
}

// WithImplementationName sets the name printed in the console
// header and reported to monitors.
func WithImplementationName(name string) RunnerOption {
	return func(s *SuiteRunner) {
		s.implName = name
	}
}

// WithPreHook registers a hook run before every test.
func WithPreHook(h Hook) RunnerOption {
	return func(s *SuiteRunner) {
		s.preHooks = append(s.preHooks, h)
	}
}

// WithPostHook registers a hook run after every test.
func WithPostHook(h Hook) RunnerOption {
	return func(s *SuiteRunner) {
		s.postHooks = append(s.postHooks, h)
	}
}
