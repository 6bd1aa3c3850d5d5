package logging

// NoopLogger discards everything. Useful as a default when a component
// is constructed without a logger, and in tests.
type NoopLogger struct{}

// NewNoop creates a logger that discards all output.
func NewNoop() Logger { return &NoopLogger{} }

func (n *NoopLogger) Debug(string, ...interface{}) {}
func (n *NoopLogger) Info(string, ...interface{})  {}
func (n *NoopLogger) Warn(string, ...interface{})  {}
func (n *NoopLogger) Error(string, ...interface{}) {}

// WithComponent returns the same discarding logger.
func (n *NoopLogger) WithComponent(string) Logger { return n }
