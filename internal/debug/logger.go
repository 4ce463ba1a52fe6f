// Package debug provides the process-wide structured logger using log/slog
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	// logger is the global logger instance
	logger = newLogger(io.Discard, slog.LevelError+1)
	// enabled indicates if debug logging is enabled
	enabled bool
	// mu protects the logger and enabled flag
	mu sync.RWMutex
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Init configures the logger.
// If enable is true, debug logs are written to os.Stderr.
// If enable is false, only errors are written.
func Init(enable bool) {
	InitWriter(enable, os.Stderr)
}

// InitWriter is Init with an explicit destination.
func InitWriter(enable bool, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable
	if enable {
		logger = newLogger(w, slog.LevelDebug)
	} else {
		logger = newLogger(w, slog.LevelError)
	}
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// Limits on what Statement writes for bound args.
const (
	MaxLoggedArgs   = 16
	MaxLoggedArgLen = 64
)

// Statement logs an SQL statement and its bound args at debug level.
// Only the first MaxLoggedArgs args are written, strings are cut to
// MaxLoggedArgLen bytes and byte slices are logged by length.
func Statement(msg, sql string, args []interface{}) {
	l := current()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug(msg, "sql", sql, "args", summarize(args), "args_total", len(args))
}

func summarize(args []interface{}) []interface{} {
	n := min(len(args), MaxLoggedArgs)
	out := make([]interface{}, 0, n+1)
	for _, arg := range args[:n] {
		switch v := arg.(type) {
		case string:
			if len(v) > MaxLoggedArgLen {
				v = fmt.Sprintf("%s...(%d bytes)", v[:MaxLoggedArgLen], len(v))
			}
			out = append(out, v)
		case []byte:
			out = append(out, fmt.Sprintf("<%d bytes>", len(v)))
		default:
			out = append(out, arg)
		}
	}
	if more := len(args) - n; more > 0 {
		out = append(out, fmt.Sprintf("(+%d more)", more))
	}
	return out
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

// Logger returns the underlying slog.Logger instance
func Logger() *slog.Logger {
	return current()
}
