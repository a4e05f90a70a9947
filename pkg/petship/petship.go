package petship

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/petship/internal/adapters/dump"
	"github.com/bft-labs/petship/internal/adapters/fs"
	"github.com/bft-labs/petship/internal/adapters/prologix"
	"github.com/bft-labs/petship/internal/app"
	"github.com/bft-labs/petship/internal/domain"
	"github.com/bft-labs/petship/internal/ports"
	"github.com/bft-labs/petship/internal/protocol"
)

// Transport names.
const (
	TransportPrologix = "prologix"
	TransportDump     = "dump"
)

// Config holds the transport and protocol settings of a Client.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// Transport is TransportPrologix or TransportDump. Ignored when a bus
	// is injected with WithBus.
	Transport string

	// Port is the serial device of the Prologix controller
	Port string

	// Baud is the serial baud rate
	Baud int

	// Channel is the secondary address the loader listens on
	Channel int

	// HeaderFormat selects the load header layout
	HeaderFormat HeaderFormat

	// ReadTimeout bounds controller replies
	ReadTimeout time.Duration

	// WriteTimeout bounds each frame write
	WriteTimeout time.Duration

	// DebounceDelay is the quiet period after a file change in Watch
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible default values.
// Port must be set before using the Prologix transport.
func DefaultConfig() Config {
	return Config{
		Transport:     TransportPrologix,
		Baud:          prologix.DefaultBaud,
		Channel:       prologix.DefaultChannel,
		HeaderFormat:  protocol.DefaultHeaderFormat,
		ReadTimeout:   prologix.DefaultReadTimeout,
		WriteTimeout:  prologix.DefaultWriteTimeout,
		DebounceDelay: app.DefaultDebounceDelay,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportPrologix, TransportDump:
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportPrologix, TransportDump)
	}
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	if c.Channel < 0 || c.Channel > domain.MaxDevice {
		return fmt.Errorf("channel must be between 0 and %d, got %d", domain.MaxDevice, c.Channel)
	}
	if c.HeaderFormat != HeaderExplicitSize && c.HeaderFormat != HeaderImplicitSize {
		return fmt.Errorf("unknown header format %d", c.HeaderFormat)
	}
	return nil
}

// Client sends loader commands to devices on one bus.
// Use New() to create an instance and Close() to release the bus.
type Client struct {
	config   Config
	bus      ports.Bus
	encoder  *protocol.Encoder
	sender   *app.Sender
	source   ports.ProgramSource
	notifier ports.ChangeNotifier
	logger   ports.Logger
}

// New creates a Client. The bus is not touched until the first send.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger

	bus := o.bus
	if bus == nil {
		switch cfg.Transport {
		case TransportPrologix:
			if cfg.Port == "" {
				return nil, errors.New("port is required for the prologix transport")
			}
			bus = prologix.New(prologix.Config{
				Port:         cfg.Port,
				Baud:         cfg.Baud,
				Channel:      cfg.Channel,
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
			}, nil, logger)
		case TransportDump:
			bus = dump.New(o.dumpOutput)
		}
	}

	source := o.source
	if source == nil {
		source = fs.NewProgramFile()
	}
	notifier := o.notifier
	if notifier == nil {
		notifier = fs.NewFileWatcher(logger)
	}

	var emitter app.SendEventEmitter
	if o.eventHandler != nil {
		emitter = &eventEmitterWrapper{handler: o.eventHandler}
	}

	encoder := protocol.NewEncoder(cfg.HeaderFormat)
	return &Client{
		config:   cfg,
		bus:      bus,
		encoder:  encoder,
		sender:   app.NewSender(bus, encoder, logger, emitter),
		source:   source,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Resolve validates req and reads the load file from disk without a
// Client, so command errors can be reported before any transport is set up.
func Resolve(req Request) (DeviceAddress, Operation, error) {
	return req.Resolve(fs.NewProgramFile().Read)
}

// Resolve validates req and reads the load file if there is one.
// Nothing is sent.
func (c *Client) Resolve(req Request) (DeviceAddress, Operation, error) {
	return req.Resolve(c.source.Read)
}

// Encode returns the frames op would be sent as.
func (c *Client) Encode(op Operation) ([]Frame, error) {
	return c.encoder.Encode(op)
}

// Send writes op to device in one bus session.
func (c *Client) Send(ctx context.Context, device DeviceAddress, op Operation) error {
	return c.sender.Send(ctx, device, op)
}

// Do resolves req and sends the resulting operation.
func (c *Client) Do(ctx context.Context, req Request) error {
	device, op, err := c.Resolve(req)
	if err != nil {
		return err
	}
	return c.Send(ctx, device, op)
}

// Watch sends load's file and re-sends it every time it changes, until ctx
// is done. The file is re-read after the change subscription starts, so
// load.Data may be stale.
func (c *Client) Watch(ctx context.Context, device DeviceAddress, load Load) error {
	w := app.NewWatcher(app.WatchConfig{
		DebounceDelay:  c.config.DebounceDelay,
		BackoffInitial: app.DefaultBackoffInitial,
		BackoffMax:     app.DefaultBackoffMax,
	}, c.sender, c.source, c.notifier, c.logger)
	return w.Run(ctx, device, load)
}

// Close releases the bus.
func (c *Client) Close() error {
	return c.bus.Close()
}
