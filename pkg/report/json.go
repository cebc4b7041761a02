package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Swappable for failure-path tests.
var jsonMarshalIndent = json.MarshalIndent

// WriteJSON writes the report as indented JSON followed by a
// trailing newline.
func WriteJSON(w io.Writer, report *Report) error {
	data, err := jsonMarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// SaveReport writes the report to path as JSON, creating parent
// directories as needed.
func SaveReport(path string, report *Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, report); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
