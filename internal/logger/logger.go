// Package logger provides leveled logging for the annlib CLI.
// Messages are written to stderr through charmbracelet/log. The --verbose
// flag lowers the level to debug so users can follow each processor step.
package logger

import (
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

const prefix = "annlib"

var (
	mu      sync.RWMutex
	verbose bool
	jsonOut bool
	level             = charmlog.WarnLevel
	output  io.Writer = os.Stderr
	base              = build()
)

func build() *charmlog.Logger {
	lvl := level
	if verbose {
		lvl = charmlog.DebugLevel
	}
	l := charmlog.NewWithOptions(output, charmlog.Options{
		ReportTimestamp: jsonOut,
		TimeFormat:      "15:04:05",
		Level:           lvl,
		Prefix:          prefix,
	})
	if jsonOut {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
	}
	return l
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = build()
}

// SetLevel sets the minimum level by name: debug, info, warn or error.
func SetLevel(name string) error {
	lvl, err := charmlog.ParseLevel(name)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	level = lvl
	base = build()
	return nil
}

// SetJSON switches between text and JSON output.
func SetJSON(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOut = enabled
	base = build()
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Debugf(format, args...)
}

// Section logs a section header in verbose mode.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		base.Debugf("=== %s ===", name)
	}
}

// Info logs an informational message.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Infof(format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Warnf(format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Errorf(format, args...)
}
