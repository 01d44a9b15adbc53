// Package log provides structured logging with scan-run context.
//
// Two logger variants are available:
//   - Logger: Non-sugared zap.Logger for the scan pipeline (structured fields)
//   - SugaredLogger: Printf-style logging for CLI surfaces (convenience over performance)
//
// Use Logger.Sugar() to obtain a SugaredLogger when needed. Output always
// goes to stderr by default: stdout is reserved for matching paragraphs.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/paragrep-io/paragrep/types"
)

// Logger provides structured logging with scan-run context.
// All entries carry the run identity fields bound at construction.
type Logger struct {
	zap    *zap.Logger
	fields []zap.Field
}

// SugaredLogger provides printf-style logging for CLI surfaces.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a logger bound to the scan's identity.
// Output defaults to os.Stderr.
func NewLogger(meta *types.ScanMeta) *Logger {
	return newLoggerWithWriter(meta, os.Stderr)
}

// WithOutput returns a new logger with a different output writer, keeping
// the run identity fields.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	return &Logger{zap: zap.New(newCore(w)).With(l.fields...), fields: l.fields}
}

func newCore(w io.Writer) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
}

// newLoggerWithWriter creates a logger writing to the specified writer.
func newLoggerWithWriter(meta *types.ScanMeta, w io.Writer) *Logger {
	contextFields := []zap.Field{
		zap.String("run_id", meta.RunID),
		zap.String("file", meta.File),
		zap.Int("workers", meta.Workers),
	}

	zapLogger := zap.New(newCore(w)).With(contextFields...)
	return &Logger{zap: zapLogger, fields: contextFields}
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, zap.Any("fields", fields))
}

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, zap.Any("fields", fields))
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, zap.Any("fields", fields))
}

// Error logs an error message.
func (l *Logger) Error(message string, fields map[string]any) {
	l.zap.Error(message, zap.Any("fields", fields))
}

// Sugar returns a SugaredLogger for printf-style logging.
func (l *Logger) Sugar() *SugaredLogger {
	return &SugaredLogger{sugar: l.zap.Sugar()}
}

// Debugf logs a debug message with printf-style formatting.
func (s *SugaredLogger) Debugf(template string, args ...any) {
	s.sugar.Debugf(template, args...)
}

// Infof logs an info message with printf-style formatting.
func (s *SugaredLogger) Infof(template string, args ...any) {
	s.sugar.Infof(template, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (s *SugaredLogger) Warnf(template string, args ...any) {
	s.sugar.Warnf(template, args...)
}

// Errorf logs an error message with printf-style formatting.
func (s *SugaredLogger) Errorf(template string, args ...any) {
	s.sugar.Errorf(template, args...)
}

// With returns a SugaredLogger with additional context fields.
func (s *SugaredLogger) With(args ...any) *SugaredLogger {
	return &SugaredLogger{sugar: s.sugar.With(args...)}
}
