package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendHistory(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.jsonl")

	first := makeReport()
	require.NoError(t, AppendHistory(historyPath, first, "/tmp/r1.json"))

	second := makeReport()
	second.RunID = "6e45a6d2-0000-4000-8000-000000000002"
	second.TestResults.Passed = 2
	second.TestResults.Failed = 0
	second.TestResults.PassRate = 100
	require.NoError(t, AppendHistory(historyPath, second, "/tmp/r2.json"))

	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2, "one JSON line per run")

	var e1, e2 HistoricalEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &e1))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &e2))

	assert.Equal(t, first.RunID, e1.RunID)
	assert.False(t, e1.Conformant)
	assert.Equal(t, "/tmp/r1.json", e1.ReportPath)

	assert.Equal(t, second.RunID, e2.RunID)
	assert.True(t, e2.Conformant)
	assert.InDelta(t, 100.0, e2.PassRate, 0.0001)
}

func TestAppendHistory_MarshalError(t *testing.T) {
	original := jsonMarshal
	t.Cleanup(func() { jsonMarshal = original })

	jsonMarshal = func(v any) ([]byte, error) {
		return nil, assert.AnError
	}

	historyPath := filepath.Join(t.TempDir(), "history.jsonl")
	err := AppendHistory(historyPath, makeReport(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal history entry")
}

func TestAppendHistory_OpenError(t *testing.T) {
	// A directory at the history path makes the open fail.
	err := AppendHistory(t.TempDir(), makeReport(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open history file")
}
