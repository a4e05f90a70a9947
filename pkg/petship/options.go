package petship

import (
	"io"
	"os"

	"github.com/bft-labs/petship/pkg/log"
)

// Option configures optional behavior of a Client.
type Option func(*options)

// options holds the optional configuration for a Client.
type options struct {
	logger       Logger
	bus          Bus
	source       ProgramSource
	notifier     ChangeNotifier
	eventHandler EventHandler
	dumpOutput   io.Writer
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger:     log.Discard,
		dumpOutput: os.Stdout,
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBus replaces the transport selected by Config.Transport.
func WithBus(bus Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithProgramSource replaces the file system as the source of program files.
func WithProgramSource(source ProgramSource) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithChangeNotifier replaces the fsnotify watcher used by Watch.
func WithChangeNotifier(notifier ChangeNotifier) Option {
	return func(o *options) {
		o.notifier = notifier
	}
}

// WithEventHandler sets a handler for petship events.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithDumpOutput sets where the dump transport writes. Default is stdout.
func WithDumpOutput(w io.Writer) Option {
	return func(o *options) {
		o.dumpOutput = w
	}
}
