package adapters

import "strings"

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelNone  LogLevel = "NONE"
)

var levelRank = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
	LogLevelNone:  4,
}

// ParseLogLevel maps a case-insensitive level name to a LogLevel.
// Unknown names fall back to LogLevelWarn.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LogLevelDebug
	case "INFO":
		return LogLevelInfo
	case "ERROR":
		return LogLevelError
	case "NONE", "OFF":
		return LogLevelNone
	default:
		return LogLevelWarn
	}
}

// LoggerAdapter is an interface for logging.
// Implement this interface to use custom loggers.
type LoggerAdapter interface {
	// Debug logs a debug message
	Debug(message string, args ...interface{})
	// Info logs an info message
	Info(message string, args ...interface{})
	// Warn logs a warning message
	Warn(message string, args ...interface{})
	// Error logs an error message
	Error(message string, args ...interface{})
}
