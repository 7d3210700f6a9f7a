package adapters

import (
	"io"
	"log"
	"os"
)

// PrintLoggerAdapter implements LoggerAdapter using standard log package
type PrintLoggerAdapter struct {
	level  LogLevel
	logger *log.Logger
}

// NewPrintLoggerAdapter creates a new print logger with the specified level
func NewPrintLoggerAdapter(level LogLevel) *PrintLoggerAdapter {
	return NewPrintLoggerAdapterTo(os.Stderr, level)
}

// NewPrintLoggerAdapterTo creates a print logger writing to w.
func NewPrintLoggerAdapterTo(w io.Writer, level LogLevel) *PrintLoggerAdapter {
	return &PrintLoggerAdapter{level: level, logger: log.New(w, "", log.LstdFlags)}
}

func (p *PrintLoggerAdapter) shouldLog(level LogLevel) bool {
	return levelRank[level] >= levelRank[p.level]
}

func (p *PrintLoggerAdapter) print(level LogLevel, message string, args []interface{}) {
	if p.shouldLog(level) {
		p.logger.Printf("["+string(level)+"] [Caliper] "+message, args...)
	}
}

func (p *PrintLoggerAdapter) Debug(message string, args ...interface{}) {
	p.print(LogLevelDebug, message, args)
}

func (p *PrintLoggerAdapter) Info(message string, args ...interface{}) {
	p.print(LogLevelInfo, message, args)
}

func (p *PrintLoggerAdapter) Warn(message string, args ...interface{}) {
	p.print(LogLevelWarn, message, args)
}

func (p *PrintLoggerAdapter) Error(message string, args ...interface{}) {
	p.print(LogLevelError, message, args)
}
