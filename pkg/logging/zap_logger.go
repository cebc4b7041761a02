package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZapConfig configures the zap-backed logger.
type ZapConfig struct {
	// Level below which entries are dropped. Verbose lowers the
	// effective level to debug.
	Level   LogLevel
	Verbose bool

	// ConsoleOutput mirrors entries to stderr using the console
	// encoder.
	ConsoleOutput bool

	// OutputPath is the rotated JSON log file. Empty disables
	// the file sink.
	OutputPath string

	// Rotation policy for the file sink. Zero values fall back
	// to 10 MB, 5 backups and 28 days.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Name is attached to every entry as the logger name.
	Name string
}

// ZapLogger implements Logger on top of go.uber.org/zap, with
// size-based rotation of the file sink via lumberjack.
type ZapLogger struct {
	l *zap.Logger
}

// NewZapLogger creates a zap-backed logger from the given
// configuration. With neither console output nor a file path the
// logger discards everything.
func NewZapLogger(config ZapConfig) (*ZapLogger, error) {
	level := zapLevel(config.Level)
	if config.Verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	var cores []zapcore.Core

	if config.ConsoleOutput {
		consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
		cores = append(cores, zapcore.NewCore(
			consoleEncoder,
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	if config.OutputPath != "" {
		dir := filepath.Dir(config.OutputPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf(
				"create log directory: %w", err,
			)
		}

		fileSink := &lumberjack.Logger{
			Filename:   config.OutputPath,
			MaxSize:    defaultInt(config.MaxSizeMB, 10),
			MaxBackups: defaultInt(config.MaxBackups, 5),
			MaxAge:     defaultInt(config.MaxAgeDays, 28),
			Compress:   config.Compress,
		}

		jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)
		cores = append(cores, zapcore.NewCore(
			jsonEncoder,
			zapcore.AddSync(fileSink),
			level,
		))
	}

	if len(cores) == 0 {
		return &ZapLogger{l: zap.NewNop()}, nil
	}

	l := zap.New(zapcore.NewTee(cores...))
	if config.Name != "" {
		l = l.Named(config.Name)
	}

	return &ZapLogger{l: l}, nil
}

// Info logs an informational message.
func (z *ZapLogger) Info(msg string, fields ...Field) {
	z.l.Info(msg, zapFields(fields)...)
}

// Warn logs a warning message.
func (z *ZapLogger) Warn(msg string, fields ...Field) {
	z.l.Warn(msg, zapFields(fields)...)
}

// Error logs an error message.
func (z *ZapLogger) Error(msg string, fields ...Field) {
	z.l.Error(msg, zapFields(fields)...)
}

// Debug logs a debug-level message.
func (z *ZapLogger) Debug(msg string, fields ...Field) {
	z.l.Debug(msg, zapFields(fields)...)
}

// WithFields returns a Logger with additional default fields.
func (z *ZapLogger) WithFields(fields ...Field) Logger {
	return &ZapLogger{l: z.l.With(zapFields(fields)...)}
}

// LogAPIRequest logs an outbound request to a remote subject
// service as a structured entry.
func (z *ZapLogger) LogAPIRequest(request APIRequestLog) {
	z.l.Info("iut request",
		zap.String("request_id", request.RequestID),
		zap.String("method", request.Method),
		zap.String("url", request.URL),
		zap.Int("body_length", request.BodyLength),
	)
}

// LogAPIResponse logs the matching response.
func (z *ZapLogger) LogAPIResponse(response APIResponseLog) {
	z.l.Info("iut response",
		zap.String("request_id", response.RequestID),
		zap.Int("status_code", response.StatusCode),
		zap.Int("body_length", response.BodyLength),
		zap.Int64("response_time_ms", response.ResponseTimeMs),
	)
}

// Close flushes buffered entries. Sync failures from terminal
// sinks are dropped.
func (z *ZapLogger) Close() error {
	_ = z.l.Sync()
	return nil
}

// SetupLogging creates the standard suite logger: a rotated JSON
// file under logsDir, debug-level when verbose.
func SetupLogging(
	logsDir string,
	verbose bool,
) (*ZapLogger, error) {
	return NewZapLogger(ZapConfig{
		Level:      LevelInfo,
		Verbose:    verbose,
		OutputPath: filepath.Join(logsDir, "conformance.log"),
		Compress:   true,
		Name:       "conformance",
	})
}

// --- helpers ---

func zapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func defaultInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
