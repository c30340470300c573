// ABOUTME: Leveled logging with a verbosity gate over the stdlib logger
// ABOUTME: DEBUG output is suppressed unless verbose mode is enabled

package logger

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerbose enables or disables DEBUG logging.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// IsVerbose returns the current verbose setting.
func IsVerbose() bool {
	return verbose.Load()
}

// SetOutput redirects all log output; nil restores stderr. Tests use this to
// capture or silence logs.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	log.SetOutput(w)
}

// Debug logs at DEBUG level, only when verbose is enabled.
func Debug(format string, args ...any) {
	if verbose.Load() {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs at INFO level.
func Info(format string, args ...any) {
	log.Printf("[INFO] "+format, args...)
}

// Warn logs at WARN level.
func Warn(format string, args ...any) {
	log.Printf("[WARN] "+format, args...)
}

// Error logs at ERROR level.
func Error(format string, args ...any) {
	log.Printf("[ERROR] "+format, args...)
}
