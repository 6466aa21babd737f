// Package logger builds the prefixed charmbracelet/log loggers the
// long-running pieces use, layered on the process-global log level.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// Default creates a prefixed logger on stderr that respects the global log
// level set in main.
func Default(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}
