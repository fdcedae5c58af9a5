// Package logger wraps charmbracelet/log so every component gets a prefixed logger
// that follows the process-wide level.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a prefixed logger at the global level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// SetLevel parses name and applies it globally. Unknown names keep the
// current level and return the parse error.
func SetLevel(name string) error {
	if name == "" {
		return nil
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}
