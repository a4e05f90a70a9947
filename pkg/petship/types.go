package petship

import (
	"github.com/bft-labs/petship/internal/domain"
	"github.com/bft-labs/petship/internal/ports"
	"github.com/bft-labs/petship/internal/protocol"
	"github.com/bft-labs/petship/pkg/log"
)

// Re-export types from internal packages for convenient access.
type (
	// Request is raw user input: device id, operation selectors, address
	// and file path.
	Request = domain.Request

	// DeviceAddress is an IEEE-488 device id in [0,30].
	DeviceAddress = domain.DeviceAddress

	// Operation is one of Execute, Run or Load.
	Operation = domain.Operation

	// Execute calls machine code at an address.
	Execute = domain.Execute

	// Run starts the BASIC program in memory.
	Run = domain.Run

	// Load transfers bytes into memory.
	Load = domain.Load

	// AddressSource selects where a load takes its address from.
	AddressSource = domain.AddressSource

	// Error is the typed error returned by every operation.
	Error = domain.Error

	// HeaderFormat selects the 5-byte or 3-byte load header.
	HeaderFormat = protocol.HeaderFormat

	// Frame is one transport write.
	Frame = protocol.Frame

	// Bus is an IEEE-488 bus controller.
	Bus = ports.Bus

	// ProgramSource reads program files.
	ProgramSource = ports.ProgramSource

	// ChangeNotifier reports file changes in watch mode.
	ChangeNotifier = ports.ChangeNotifier

	// Logger is the structured logging interface.
	Logger = log.Logger

	// LogField is a structured log field.
	LogField = log.Field
)

// Load header formats.
const (
	HeaderExplicitSize = protocol.HeaderExplicitSize
	HeaderImplicitSize = protocol.HeaderImplicitSize
)

// Protocol limits.
const (
	MaxPayloadSize = protocol.MaxPayloadSize
	DefaultDevice  = domain.DefaultDevice
)

// Error sentinels. Match them with errors.Is.
var (
	ErrInvalidDevice  = domain.ErrInvalidDevice
	ErrInvalidAddress = domain.ErrInvalidAddress
	ErrFileNotFound   = domain.ErrFileNotFound
	ErrFileReadError  = domain.ErrFileReadError
	ErrCommand        = domain.ErrCommand
	ErrTransport      = domain.ErrTransport
)

// ExplicitAddress loads a whole file at addr.
func ExplicitAddress(addr uint16) AddressSource { return domain.ExplicitAddress(addr) }

// FromFileHeader takes the load address from the first two file bytes.
func FromFileHeader() AddressSource { return domain.FromFileHeader() }

// ParseDevice parses a decimal device id.
func ParseDevice(s string) (DeviceAddress, error) { return domain.ParseDevice(s) }

// ParseAddress parses 1 to 4 hex digits.
func ParseAddress(s string) (uint16, error) { return domain.ParseAddress(s) }

// CommandError returns an error matching ErrCommand.
func CommandError(format string, args ...any) error { return domain.CommandError(format, args...) }

// ParseHeaderFormat parses "explicit"/"5" or "implicit"/"3".
func ParseHeaderFormat(s string) (HeaderFormat, error) { return protocol.ParseHeaderFormat(s) }
