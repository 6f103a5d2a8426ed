// Package logging wraps charmbracelet/log. Output always goes to stderr
// because stdout carries the MCP stream.
package logging

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is a leveled key/value logger.
type Logger struct {
	logger *log.Logger
}

var (
	defaultLogger *Logger
	mu            sync.Mutex
)

// Default returns the process logger, created at warn level on first use.
func Default() *Logger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(os.Stderr, "warn")
	}
	return defaultLogger
}

// SetDefault replaces the process logger.
func SetDefault(l *Logger) {
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// New creates a logger writing to w at the named level (debug, info, warn,
// error). Unknown names fall back to warn. DEBUG in the environment forces
// debug level with caller reporting.
func New(w io.Writer, level string) *Logger {
	debug := os.Getenv("DEBUG") != ""

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    debug,
		TimeFormat:      time.RFC3339,
		Prefix:          "tealium-mcp",
	})

	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.WarnLevel
	}
	if debug {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)

	return &Logger{logger: logger}
}

// NewTestLogger returns a debug-level logger writing to a buffer, without
// timestamps.
func NewTestLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Prefix: "test"})
	logger.SetLevel(log.DebugLevel)
	return &Logger{logger: logger}, &buf
}

// Level reports the active level name.
func (l *Logger) Level() string { return l.logger.GetLevel().String() }

func (l *Logger) Debug(msg string, keyvals ...any) { l.logger.Debug(msg, keyvals...) }
func (l *Logger) Info(msg string, keyvals ...any)  { l.logger.Info(msg, keyvals...) }
func (l *Logger) Warn(msg string, keyvals ...any)  { l.logger.Warn(msg, keyvals...) }
func (l *Logger) Error(msg string, keyvals ...any) { l.logger.Error(msg, keyvals...) }

// With returns a logger that adds keyvals to every entry.
func (l *Logger) With(keyvals ...any) *Logger {
	return &Logger{logger: l.logger.With(keyvals...)}
}

// Timed logs operation at debug level with its duration since start.
func (l *Logger) Timed(operation string, start time.Time, keyvals ...any) {
	l.logger.Debug(operation, append([]any{"duration", time.Since(start)}, keyvals...)...)
}

// Package-level shorthands for the default logger.

func Debug(msg string, keyvals ...any) { Default().Debug(msg, keyvals...) }
func Info(msg string, keyvals ...any)  { Default().Info(msg, keyvals...) }
func Warn(msg string, keyvals ...any)  { Default().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...any) { Default().Error(msg, keyvals...) }
