package prologix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/bft-labs/petship/internal/domain"
	"github.com/bft-labs/petship/internal/ports"
)

// Default controller settings.
const (
	DefaultBaud         = 115200
	DefaultChannel      = 15
	DefaultReadTimeout  = 500 * time.Millisecond
	DefaultWriteTimeout = 5 * time.Second

	// secondaryBase is added to a channel number to form a GPIB secondary
	// address.
	secondaryBase = 96

	// chunkSize bounds a single serial write so timeouts are checked often.
	chunkSize = 512
)

var (
	// ErrNoVersion is returned when the controller does not answer ++ver.
	ErrNoVersion = errors.New("controller did not report a version")

	// ErrNotOpen is returned when the port is used before Initialize.
	ErrNotOpen = errors.New("serial port not open")

	// ErrWriteTimeout is returned when a frame could not be written in time.
	ErrWriteTimeout = errors.New("write timeout")
)

// Port is the part of serial.Port the bus uses.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Drain() error
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Opener opens a serial port.
type Opener func(name string, mode *serial.Mode) (Port, error)

// OpenSerial opens a real serial port with go.bug.st/serial.
func OpenSerial(name string, mode *serial.Mode) (Port, error) {
	return serial.Open(name, mode)
}

// Config holds the serial and GPIB settings of the controller.
type Config struct {
	// Port is the serial device, e.g. /dev/ttyUSB0 or COM3
	Port string

	// Baud is the serial baud rate
	Baud int

	// Channel is the secondary address (0-30) the loader listens on
	Channel int

	// ReadTimeout bounds each controller reply
	ReadTimeout time.Duration

	// WriteTimeout bounds each frame write
	WriteTimeout time.Duration
}

// Bus implements ports.Bus over a Prologix controller.
type Bus struct {
	mu      sync.Mutex
	cfg     Config
	open    Opener
	port    Port
	version string
	logger  ports.Logger
}

// New creates a bus. The serial port is opened by Initialize.
// A nil opener uses OpenSerial.
func New(cfg Config, open Opener, logger ports.Logger) *Bus {
	if cfg.Baud <= 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if open == nil {
		open = OpenSerial
	}
	return &Bus{cfg: cfg, open: open, logger: logger}
}

// Version returns the controller version reported during Initialize.
func (b *Bus) Version() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Initialize opens the serial port if needed and puts the controller in
// controller mode.
func (b *Bus) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.port == nil {
		if err := b.openPort(); err != nil {
			return err
		}
	}

	for _, cmd := range []string{"++mode 1", "++auto 0", "++eoi 1", "++eos 3"} {
		if err := b.command(ctx, cmd); err != nil {
			return err
		}
	}

	if err := b.command(ctx, "++ver"); err != nil {
		return err
	}
	version, err := b.readLine(ctx)
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if version == "" {
		return ErrNoVersion
	}
	b.version = version

	b.logger.Debug("controller ready",
		ports.String("port", b.cfg.Port),
		ports.String("version", version),
	)
	return nil
}

func (b *Bus) openPort() error {
	mode := &serial.Mode{
		BaudRate: b.cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := b.open(b.cfg.Port, mode)
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", b.cfg.Port, err)
	}

	if err := port.SetReadTimeout(b.cfg.ReadTimeout); err != nil {
		port.Close()
		return fmt.Errorf("set read timeout: %w", err)
	}

	b.port = port
	b.logger.Debug("serial port open",
		ports.String("port", b.cfg.Port),
		ports.Int("baud", b.cfg.Baud),
	)
	return nil
}

// Listen addresses device with the configured secondary address.
func (b *Bus) Listen(ctx context.Context, device domain.DeviceAddress) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.command(ctx, fmt.Sprintf("++addr %d %d", device, secondaryBase+b.cfg.Channel))
}

// Write sends frame as one escaped data line. An empty frame sends nothing.
func (b *Bus) Write(ctx context.Context, frame []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(frame) == 0 {
		return nil
	}
	return b.write(ctx, escape(frame))
}

// Unlisten waits for buffered output to reach the controller. With
// ++eoi 1 the controller asserts EOI on the last byte of every write, which
// ends the loader's receive. Nothing else is sent: the PET does not read the
// IFC line, so ++ifc would not unaddress it.
func (b *Bus) Unlisten(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.port == nil {
		return ErrNotOpen
	}
	if err := b.port.Drain(); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	return nil
}

// Close closes the serial port. Closing a closed bus is a no-op.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.port == nil {
		return nil
	}
	err := b.port.Close()
	b.port = nil
	return err
}

// command sends one controller command line. Callers must hold b.mu.
func (b *Bus) command(ctx context.Context, cmd string) error {
	b.logger.Debug("controller command", ports.String("cmd", cmd))
	return b.write(ctx, []byte(cmd+"\n"))
}

// write sends p in chunks, checking ctx and the write timeout between
// chunks. Callers must hold b.mu.
func (b *Bus) write(ctx context.Context, p []byte) error {
	if b.port == nil {
		return ErrNotOpen
	}

	deadline := time.Now().Add(b.cfg.WriteTimeout)
	for len(p) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if time.Now().After(deadline) {
			return ErrWriteTimeout
		}

		n := len(p)
		if n > chunkSize {
			n = chunkSize
		}
		written, err := b.port.Write(p[:n])
		if err != nil {
			return fmt.Errorf("serial write: %w", err)
		}
		p = p[written:]
	}
	return nil
}

// readLine reads one reply line a byte at a time. It returns what was read
// so far when the read timeout expires. Callers must hold b.mu.
func (b *Bus) readLine(ctx context.Context) (string, error) {
	var line bytes.Buffer
	buf := make([]byte, 1)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := b.port.Read(buf)
		if err != nil {
			return "", fmt.Errorf("serial read: %w", err)
		}
		if n == 0 {
			// Read timeout.
			return strings.TrimSpace(line.String()), nil
		}
		if buf[0] == lf {
			return strings.TrimSpace(line.String()), nil
		}
		line.WriteByte(buf[0])
	}
}
