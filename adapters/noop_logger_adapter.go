package adapters

// NoOpLoggerAdapter discards every message. Sensors in tests and batch jobs
// that report through their own channels use it.
type NoOpLoggerAdapter struct{}

var _ LoggerAdapter = (*NoOpLoggerAdapter)(nil)

// NewNoOpLoggerAdapter creates a new no-op logger
func NewNoOpLoggerAdapter() *NoOpLoggerAdapter {
	return &NoOpLoggerAdapter{}
}

func (*NoOpLoggerAdapter) Debug(string, ...any) {}
func (*NoOpLoggerAdapter) Info(string, ...any)  {}
func (*NoOpLoggerAdapter) Warn(string, ...any)  {}
func (*NoOpLoggerAdapter) Error(string, ...any) {}
