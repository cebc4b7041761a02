package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, makeReport()))

	out := buf.String()
	assert.Contains(t, out, "# Aifeels Conformance Report")
	assert.Contains(t, out, "**Implementation:** aifeels-go 1.0.0 (Go)")
	assert.Contains(t, out,
		"**Run ID:** 6e45a6d2-0000-4000-8000-000000000001")
	assert.Contains(t, out,
		"| basic-001 | Positive event raises trust | PASSED |")
	assert.Contains(t, out,
		"| basic-002 | Decay restores balance | FAILED |")
	assert.Contains(t, out, "| Total Tests | 2 |")
	assert.Contains(t, out, "| Pass Rate | 50.0% |")
	assert.Contains(t, out,
		"> This implementation is NOT conformant with the "+
			"Aifeels Specification v0.1.")
	assert.Contains(t, out, "*Generated by the Aifeels Conformance Suite*")
}

func TestSaveBundle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	jsonPath, err := SaveBundle(dir, makeReport())
	require.NoError(t, err)

	assert.Equal(t,
		filepath.Join(dir, "conformance_report_20260115_103000.json"),
		jsonPath,
	)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	mdData, err := os.ReadFile(
		filepath.Join(dir, "conformance_report_20260115_103000.md"),
	)
	require.NoError(t, err)
	assert.Contains(t, string(mdData), "# Aifeels Conformance Report")

	latest, err := os.ReadFile(filepath.Join(dir, "latest_report.json"))
	require.NoError(t, err)
	assert.Equal(t, data, latest)
}

func TestSaveBundle_ReplacesLatestLinks(t *testing.T) {
	dir := t.TempDir()

	_, err := SaveBundle(dir, makeReport())
	require.NoError(t, err)

	later := makeReport()
	later.GeneratedAt = later.GeneratedAt.Add(2 * time.Minute)
	secondPath, err := SaveBundle(dir, later)
	require.NoError(t, err)

	latest, err := os.ReadFile(filepath.Join(dir, "latest_report.json"))
	require.NoError(t, err)
	second, err := os.ReadFile(secondPath)
	require.NoError(t, err)
	assert.Equal(t, second, latest)
}
