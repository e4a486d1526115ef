// Package platynuilog provides structured logging, generalizing the
// teacher's hand-rolled Logger/ToolLogger API shape (level, prefix,
// colorized terminal output) onto logrus as the actual backend.
package platynuilog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level mirrors logrus.Level under the teacher's naming (Debug/Info/
// Warn/Error/None) so call sites read the same regardless of backend.
type Level = logrus.Level

const (
	LevelDebug Level = logrus.DebugLevel
	LevelInfo  Level = logrus.InfoLevel
	LevelWarn  Level = logrus.WarnLevel
	LevelError Level = logrus.ErrorLevel
	// LevelNone disables all logging by raising the threshold above Panic.
	LevelNone Level = logrus.PanicLevel + 1
)

// Logger is a prefixed logrus entry, mirroring the teacher's
// Logger.WithPrefix/SetLevel/SetOutput surface.
type Logger struct {
	entry *logrus.Entry
}

var root = logrus.New()

func init() {
	root.SetOutput(os.Stderr)
	root.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	root.SetLevel(logrus.InfoLevel)
}

// New wraps a fresh logrus.Entry at level with output directed to w.
func New(level Level, output io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(output)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	l.SetLevel(level)
	return &Logger{entry: logrus.NewEntry(l)}
}

// SetLevel sets the logger's threshold.
func (l *Logger) SetLevel(level Level) { l.entry.Logger.SetLevel(level) }

// SetOutput redirects the logger's output.
func (l *Logger) SetOutput(w io.Writer) { l.entry.Logger.SetOutput(w) }

// WithPrefix returns a derived logger tagging every entry with prefix
// (spec.md ambient-stack convention: a "component" field per subsystem).
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{entry: l.entry.WithField("component", prefix)}
}

func (l *Logger) Debug(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...any) { l.entry.Errorf(format, args...) }

var defaultLogger = &Logger{entry: logrus.NewEntry(root)}

// SetLevel sets the default logger's level.
func SetLevel(level Level) { defaultLogger.SetLevel(level) }

// SetOutput sets the default logger's output.
func SetOutput(w io.Writer) { defaultLogger.SetOutput(w) }

func Debug(format string, args ...any) { defaultLogger.Debug(format, args...) }
func Info(format string, args ...any)  { defaultLogger.Info(format, args...) }
func Warn(format string, args ...any)  { defaultLogger.Warn(format, args...) }
func Error(format string, args ...any) { defaultLogger.Error(format, args...) }

// WithPrefix returns a derived default logger tagged with prefix.
func WithPrefix(prefix string) *Logger { return defaultLogger.WithPrefix(prefix) }

// ParseLevel parses a case-insensitive level name, defaulting to Info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "none", "off":
		return LevelNone
	default:
		return LevelInfo
	}
}

// ToolLogger is a specialized logger for one tool/engine's operations
// (pointer moves, keyboard sequences, evaluate calls).
type ToolLogger struct {
	*Logger
	toolName string
}

// NewToolLogger creates a logger prefixed with toolName.
func NewToolLogger(toolName string) *ToolLogger {
	return &ToolLogger{Logger: defaultLogger.WithPrefix(toolName), toolName: toolName}
}

// Start logs the start of an operation.
func (t *ToolLogger) Start(operation string, args ...any) {
	t.Debug("start %s(%s)", operation, formatArgs(args))
}

// Success logs a successful operation.
func (t *ToolLogger) Success(operation string, result any) {
	t.Debug("ok %s -> %v", operation, result)
}

// Failure logs a failed operation.
func (t *ToolLogger) Failure(operation string, err error) {
	t.Error("fail %s -> %v", operation, err)
}

func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = toString(a)
	}
	return strings.Join(parts, ", ")
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
