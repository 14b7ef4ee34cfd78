package codika

import "strings"

// Logger provides a simple interface for lifecycle logging.
// Messages use fmt-style formatting.
type Logger interface {
	// Debug logs a message at debug level
	Debug(format string, args ...interface{})

	// Info logs a message at info level
	Info(format string, args ...interface{})

	// Warn logs a message at warning level
	Warn(format string, args ...interface{})

	// Error logs a message at error level
	Error(format string, args ...interface{})
}

// DefaultLogger is a no-op logger implementation
type DefaultLogger struct{}

// Debug implements Logger.Debug
func (l *DefaultLogger) Debug(format string, args ...interface{}) {}

// Info implements Logger.Info
func (l *DefaultLogger) Info(format string, args ...interface{}) {}

// Warn implements Logger.Warn
func (l *DefaultLogger) Warn(format string, args ...interface{}) {}

// Error implements Logger.Error
func (l *DefaultLogger) Error(format string, args ...interface{}) {}

// NewDefaultLogger creates a new default no-op logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// invocationLogger prefixes every message with the action name and the
// short form of the invocation ID so interleaved step logs stay readable.
type invocationLogger struct {
	next   Logger
	prefix string
}

func newInvocationLogger(next Logger, inv Invocation) Logger {
	id := inv.ID
	if len(id) > 8 {
		id = id[:8]
	}
	prefix := "[" + inv.Action
	if inv.Method != "" {
		prefix += "#" + inv.Method
	}
	prefix += " " + id + "] "
	return &invocationLogger{next: next, prefix: strings.ReplaceAll(prefix, "%", "%%")}
}

func (l *invocationLogger) Debug(format string, args ...interface{}) {
	l.next.Debug(l.prefix+format, args...)
}

func (l *invocationLogger) Info(format string, args ...interface{}) {
	l.next.Info(l.prefix+format, args...)
}

func (l *invocationLogger) Warn(format string, args ...interface{}) {
	l.next.Warn(l.prefix+format, args...)
}

func (l *invocationLogger) Error(format string, args ...interface{}) {
	l.next.Error(l.prefix+format, args...)
}
