package log

// Discard is a Logger that writes nothing. It is the default for library
// clients that do not configure logging.
var Discard Logger = NoopLogger{}

// NoopLogger drops every message.
type NoopLogger struct{}

// NewNoopLogger returns a NoopLogger.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (NoopLogger) Debug(string, ...Field) {}
func (NoopLogger) Info(string, ...Field)  {}
func (NoopLogger) Warn(string, ...Field)  {}
func (NoopLogger) Error(string, ...Field) {}

// With returns Discard; there is nothing to bind fields to.
func (NoopLogger) With(...Field) Logger { return Discard }
