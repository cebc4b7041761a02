package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// jsonMarshal is swappable in tests to simulate encoding failures.
var jsonMarshal = json.Marshal

// JSONConfig configures the plain JSON-lines logger.
type JSONConfig struct {
	// Level below which entries are dropped. Verbose lowers the
	// effective level to debug.
	Level   LogLevel
	Verbose bool

	// OutputPath is the main log file. Empty writes to stdout.
	OutputPath string

	// RequestLogPath and ResponseLogPath are dedicated JSON-lines
	// files for remote subject traffic. Empty disables the sink
	// and the corresponding entries are skipped.
	RequestLogPath  string
	ResponseLogPath string

	// Fields are attached to every entry.
	Fields []Field
}

// LogEntry is the line format written by JSONLogger.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// JSONLogger implements Logger as unrotated JSON lines without the
// zap machinery. Hosts embedding the suite use it when they want
// log files they can tail and parse with nothing but a JSON
// decoder.
type JSONLogger struct {
	core   *jsonCore
	fields []Field
}

// jsonCore holds the sinks shared by a logger and everything
// derived from it via WithFields, so Close on any handle stops
// them all.
type jsonCore struct {
	mu          sync.Mutex
	output      io.Writer
	requestOut  io.Writer
	responseOut io.Writer
	closers     []io.Closer
	level       LogLevel
	closed      bool
}

// NewJSONLogger creates a JSON-lines logger from the given
// configuration, creating log directories and opening the files
// in append mode.
func NewJSONLogger(config JSONConfig) (*JSONLogger, error) {
	level := config.Level
	if config.Verbose {
		level = LevelDebug
	}

	core := &jsonCore{level: level}

	out, err := core.openSink(config.OutputPath)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stdout
	}
	core.output = out

	core.requestOut, err = core.openSink(config.RequestLogPath)
	if err != nil {
		_ = core.close()
		return nil, err
	}

	core.responseOut, err = core.openSink(config.ResponseLogPath)
	if err != nil {
		_ = core.close()
		return nil, err
	}

	return &JSONLogger{
		core:   core,
		fields: append([]Field(nil), config.Fields...),
	}, nil
}

// openSink opens path for appending, creating parent directories.
// An empty path yields a nil writer.
func (c *jsonCore) openSink(path string) (io.Writer, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(
		path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644,
	)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	c.closers = append(c.closers, f)
	return f, nil
}

func (c *jsonCore) write(level LogLevel, msg string, defaults, extra []Field) {
	if level < c.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		Fields:    mergeFieldMap(defaults, extra),
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	_, _ = c.output.Write(append(data, '\n'))
}

// writeTo marshals v as one line to a dedicated sink. A nil sink
// means the sink was not configured and the entry is skipped.
func (c *jsonCore) writeTo(w io.Writer, v any) {
	if w == nil {
		return
	}

	data, err := jsonMarshal(v)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	_, _ = w.Write(append(data, '\n'))
}

func (c *jsonCore) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	var firstErr error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Info logs an informational message.
func (j *JSONLogger) Info(msg string, fields ...Field) {
	j.core.write(LevelInfo, msg, j.fields, fields)
}

// Warn logs a warning message.
func (j *JSONLogger) Warn(msg string, fields ...Field) {
	j.core.write(LevelWarn, msg, j.fields, fields)
}

// Error logs an error message.
func (j *JSONLogger) Error(msg string, fields ...Field) {
	j.core.write(LevelError, msg, j.fields, fields)
}

// Debug logs a debug-level message.
func (j *JSONLogger) Debug(msg string, fields ...Field) {
	j.core.write(LevelDebug, msg, j.fields, fields)
}

// WithFields returns a Logger sharing this logger's sinks with
// additional default fields.
func (j *JSONLogger) WithFields(fields ...Field) Logger {
	merged := make([]Field, 0, len(j.fields)+len(fields))
	merged = append(merged, j.fields...)
	merged = append(merged, fields...)
	return &JSONLogger{core: j.core, fields: merged}
}

// LogAPIRequest writes the request to the dedicated request log.
func (j *JSONLogger) LogAPIRequest(request APIRequestLog) {
	j.core.writeTo(j.core.requestOut, request)
}

// LogAPIResponse writes the response to the dedicated response
// log.
func (j *JSONLogger) LogAPIResponse(response APIResponseLog) {
	j.core.writeTo(j.core.responseOut, response)
}

// Close closes the opened log files. Later log calls on this
// logger and anything derived from it are dropped.
func (j *JSONLogger) Close() error {
	return j.core.close()
}

// mergeFieldMap merges default and per-call fields, later keys
// winning. Both empty yields nil so the entry omits the fields
// object.
func mergeFieldMap(defaults, extra []Field) map[string]any {
	if len(defaults) == 0 && len(extra) == 0 {
		return nil
	}
	m := make(map[string]any, len(defaults)+len(extra))
	for _, f := range defaults {
		m[f.Key] = f.Value
	}
	for _, f := range extra {
		m[f.Key] = f.Value
	}
	return m
}
