package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteMarkdown renders the report as a Markdown document.
func WriteMarkdown(w io.Writer, report *Report) error {
	_, err := io.WriteString(w, markdown(report))
	return err
}

func markdown(report *Report) string {
	var sb strings.Builder

	sb.WriteString("# Aifeels Conformance Report\n\n")
	sb.WriteString(fmt.Sprintf(
		"**Implementation:** %s %s (%s)\n\n",
		report.Implementation.Name,
		report.Implementation.Version,
		report.Implementation.Language,
	))
	sb.WriteString(fmt.Sprintf(
		"**Specification:** v%s\n\n", report.SpecVersion,
	))
	sb.WriteString(fmt.Sprintf(
		"**Test Suite:** v%s\n\n", report.TestSuiteVersion,
	))
	sb.WriteString(fmt.Sprintf("**Run ID:** %s\n\n", report.RunID))
	sb.WriteString(fmt.Sprintf(
		"**Generated:** %s\n\n",
		report.GeneratedAt.Format(time.RFC3339),
	))

	sb.WriteString("## Results\n\n")
	sb.WriteString("| Test | Name | Status |\n")
	sb.WriteString("|------|------|--------|\n")
	for _, d := range report.TestDetails {
		sb.WriteString(fmt.Sprintf(
			"| %s | %s | %s |\n", d.ID, d.Name, d.Status,
		))
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf(
		"| Total Tests | %d |\n", report.TestResults.Total,
	))
	sb.WriteString(fmt.Sprintf(
		"| Passed | %d |\n", report.TestResults.Passed,
	))
	sb.WriteString(fmt.Sprintf(
		"| Failed | %d |\n", report.TestResults.Failed,
	))
	sb.WriteString(fmt.Sprintf(
		"| Pass Rate | %.1f%% |\n", report.TestResults.PassRate,
	))

	sb.WriteString("\n## Verdict\n\n")
	sb.WriteString(fmt.Sprintf(
		"> %s\n", report.ConformanceStatement,
	))

	sb.WriteString("\n---\n\n")
	sb.WriteString("*Generated by the Aifeels Conformance Suite*\n")

	return sb.String()
}

// SaveBundle writes the report to outputDir as a timestamped pair
// of JSON and Markdown files, and points latest_report.{json,md}
// symlinks at them. It returns the JSON file path.
func SaveBundle(outputDir string, report *Report) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	ts := report.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(
		outputDir,
		fmt.Sprintf("conformance_report_%s.json", ts),
	)
	if err := SaveReport(jsonPath, report); err != nil {
		return "", err
	}

	mdPath := filepath.Join(
		outputDir,
		fmt.Sprintf("conformance_report_%s.md", ts),
	)
	if err := os.WriteFile(
		mdPath, []byte(markdown(report)), 0644,
	); err != nil {
		return "", fmt.Errorf("write Markdown report: %w", err)
	}

	latestJSON := filepath.Join(outputDir, "latest_report.json")
	latestMD := filepath.Join(outputDir, "latest_report.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return jsonPath, nil
}
