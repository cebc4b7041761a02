// Package report builds the conformance report for a suite run and
// renders it as JSON, Markdown or HTML.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/runner"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/subject"
	"github.com/aifeels-org/aifeels-conformance-suite/pkg/vector"
)

// Report is the conformance verdict document for one suite run.
// Struct order is the JSON key order consumers see.
type Report struct {
	Implementation       subject.Info `json:"implementation"`
	SpecVersion          string       `json:"spec_version"`
	TestSuiteVersion     string       `json:"test_suite_version"`
	TestResults          Totals       `json:"test_results"`
	TestDetails          []Detail     `json:"test_details"`
	ConformanceStatement string       `json:"conformance_statement"`
	RunID                string       `json:"run_id"`
	GeneratedAt          time.Time    `json:"generated_at"`
}

// Totals aggregates the run's verdict counts.
type Totals struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Errors   int     `json:"errors"`
	PassRate float64 `json:"pass_rate"`
}

// Detail is the per-test verdict. Reports carry exactly two status
// values, PASSED and FAILED; errored tests are reported as FAILED
// and keep their diagnostics on the runner result.
type Detail struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Option customizes report generation.
type Option func(*builder)

type builder struct {
	now   func() time.Time
	runID string
}

// WithClock overrides the timestamp source. Tests use this for
// reproducible output.
func WithClock(now func() time.Time) Option {
	return func(b *builder) {
		b.now = now
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(b *builder) {
		b.runID = id
	}
}

// Build assembles the report for one suite run.
func Build(
	impl subject.Info,
	suite *vector.Suite,
	results []*runner.Result,
	opts ...Option,
) *Report {
	b := builder{now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	if b.runID == "" {
		b.runID = uuid.NewString()
	}

	totals := Totals{Total: len(results)}
	details := make([]Detail, 0, len(results))
	for _, r := range results {
		status := "PASSED"
		if r.Status == runner.StatusPassed {
			totals.Passed++
		} else {
			totals.Failed++
			status = "FAILED"
		}
		details = append(details, Detail{
			ID:     r.TestID,
			Name:   r.Name,
			Status: status,
		})
	}

	if totals.Total > 0 {
		totals.PassRate = float64(totals.Passed) /
			float64(totals.Total) * 100
	}

	return &Report{
		Implementation:       impl,
		SpecVersion:          suite.SpecVersion,
		TestSuiteVersion:     suite.Version,
		TestResults:          totals,
		TestDetails:          details,
		ConformanceStatement: statement(totals, suite.SpecVersion),
		RunID:                b.runID,
		GeneratedAt:          b.now().UTC(),
	}
}

// Conformant reports whether every test passed.
func (r *Report) Conformant() bool {
	return r.TestResults.Passed == r.TestResults.Total
}

func statement(totals Totals, specVersion string) string {
	if totals.Passed == totals.Total {
		return fmt.Sprintf(
			"This implementation is fully conformant with the "+
				"Aifeels Specification v%s.",
			specVersion,
		)
	}
	return fmt.Sprintf(
		"This implementation is NOT conformant with the "+
			"Aifeels Specification v%s.",
		specVersion,
	)
}
