// Package logger provides verbose logging for the margin CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users understand the sync pipeline.
//
// Independently of verbose mode, every message is appended to a rolling
// developer log file once EnableFile is called. User-visible output stays
// a short status notice; the log file carries the full diagnostic detail.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	logFile io.Writer
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// EnableFile routes all messages to a rolling log file at path,
// regardless of verbose mode.
func EnableFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	logFile = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

// DisableFile stops file logging. Useful for testing.
func DisableFile() {
	mu.Lock()
	defer mu.Unlock()
	logFile = nil
}

func emit(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	msg := fmt.Sprintf(format, args...)
	if verbose {
		fmt.Fprintf(output, "[%s] %s\n", level, msg)
	}
	if logFile != nil {
		fmt.Fprintf(logFile, "%s [%s] %s\n", time.Now().Format(time.RFC3339), level, msg)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	emit("DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	emit("INFO", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	emit("WARN", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
	if logFile != nil {
		fmt.Fprintf(logFile, "%s === %s ===\n", time.Now().Format(time.RFC3339), name)
	}
}
