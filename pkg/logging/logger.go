package logging

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is a wrapper around the log.Logger from the charmbracelet/log package.
type Logger struct {
	*log.Logger
}

var (
	logger *Logger
	once   sync.Once
)

// CreateLogger sets up the logger. It must be called before using the logger.
func CreateLogger() {
	once.Do(func() {
		baseLogger := log.New(os.Stderr)

		// DEBUG=1 enables caller reporting and debug-level output.
		if os.Getenv("DEBUG") == "1" {
			baseLogger = log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				Prefix:          "filebridge",
			})

			baseLogger.SetLevel(log.DebugLevel)
		} else {
			baseLogger.SetLevel(log.InfoLevel)
		}

		logger = &Logger{Logger: baseLogger}
	})
}

// With returns a sub-logger carrying the given key/value pairs.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{Logger: l.Logger.With(keyvals...)}
}

// BaseLogger returns the underlying *log.Logger.
func (l *Logger) BaseLogger() *log.Logger {
	return l.Logger
}

// GetLogger returns the Logger instance.
func GetLogger() *Logger {
	ensureInitialized()
	return logger
}

// ensureInitialized ensures the logger is initialized before use.
func ensureInitialized() {
	if logger == nil {
		CreateLogger()
	}
}
