package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Swappable for failure-path tests.
var jsonMarshal = json.Marshal

// HistoricalEntry is one suite run in the historical log.
type HistoricalEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	RunID          string    `json:"run_id"`
	Implementation string    `json:"implementation"`
	SpecVersion    string    `json:"spec_version"`
	Total          int       `json:"total"`
	Passed         int       `json:"passed"`
	Failed         int       `json:"failed"`
	PassRate       float64   `json:"pass_rate"`
	Conformant     bool      `json:"conformant"`
	ReportPath     string    `json:"report_path,omitempty"`
}

// AppendHistory adds the run to the historical log stored at
// historyPath. Each entry is a single JSON line.
func AppendHistory(
	historyPath string,
	report *Report,
	reportPath string,
) error {
	entry := HistoricalEntry{
		Timestamp:      report.GeneratedAt,
		RunID:          report.RunID,
		Implementation: report.Implementation.Name,
		SpecVersion:    report.SpecVersion,
		Total:          report.TestResults.Total,
		Passed:         report.TestResults.Passed,
		Failed:         report.TestResults.Failed,
		PassRate:       report.TestResults.PassRate,
		Conformant:     report.Conformant(),
		ReportPath:     reportPath,
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}
