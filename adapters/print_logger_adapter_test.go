package adapters

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintLoggerAdapter(t *testing.T) {
	t.Run("should create logger with debug level", func(t *testing.T) {
		logger := NewPrintLoggerAdapter(LogLevelDebug)
		if logger.level != LogLevelDebug {
			t.Errorf("expected debug level, got %s", logger.level)
		}
	})

	t.Run("should log every level when level is debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewPrintLoggerAdapterTo(&buf, LogLevelDebug)
		logger.Debug("debug message %s", "one")
		logger.Info("info message %s", "two")
		logger.Warn("warn message %s", "three")
		logger.Error("error message %s", "four")

		out := buf.String()
		for _, want := range []string{
			"[DEBUG] [Caliper] debug message one",
			"[INFO] [Caliper] info message two",
			"[WARN] [Caliper] warn message three",
			"[ERROR] [Caliper] error message four",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %q", want, out)
			}
		}
	})

	t.Run("should respect log levels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewPrintLoggerAdapterTo(&buf, LogLevelError)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		out := buf.String()
		if strings.Contains(out, "debug message") || strings.Contains(out, "info message") || strings.Contains(out, "warn message") {
			t.Errorf("lower levels should be suppressed, got %q", out)
		}
		if !strings.Contains(out, "error message") {
			t.Errorf("error message missing: %q", out)
		}
	})

	t.Run("should handle none level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewPrintLoggerAdapterTo(&buf, LogLevelNone)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":  LogLevelDebug,
		" Info ": LogLevelInfo,
		"WARN":   LogLevelWarn,
		"error":  LogLevelError,
		"off":    LogLevelNone,
		"none":   LogLevelNone,
		"bogus":  LogLevelWarn,
		"":       LogLevelWarn,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
