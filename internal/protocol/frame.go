package protocol

import (
	"fmt"
	"strings"
)

// Frame is one bus write. Frames are built fresh for each command and must
// not be modified after they are handed to a transport.
type Frame []byte

// Opcode returns the leading byte of a command frame, or 0 for an empty frame.
func (f Frame) Opcode() byte {
	if len(f) == 0 {
		return 0
	}
	return f[0]
}

// Len returns the frame length in bytes.
func (f Frame) Len() int { return len(f) }

// String renders the frame as space separated upper-case hex.
func (f Frame) String() string {
	return fmt.Sprintf("% X", []byte(f))
}

// HeaderFormat selects the load header layout.
type HeaderFormat int

const (
	// HeaderExplicitSize sends [0x40, ADDR_L, ADDR_H, SIZE_L, SIZE_H]
	HeaderExplicitSize HeaderFormat = iota

	// HeaderImplicitSize sends [0x40, ADDR_L, ADDR_H]; the loader takes the
	// size from the data write
	HeaderImplicitSize
)

// DefaultHeaderFormat is the canonical protocol version.
const DefaultHeaderFormat = HeaderExplicitSize

func (h HeaderFormat) String() string {
	switch h {
	case HeaderExplicitSize:
		return "explicit"
	case HeaderImplicitSize:
		return "implicit"
	default:
		return fmt.Sprintf("HeaderFormat(%d)", int(h))
	}
}

// HeaderSize returns the load header length for the format.
func (h HeaderFormat) HeaderSize() int {
	if h == HeaderImplicitSize {
		return ImplicitHeaderSize
	}
	return ExplicitHeaderSize
}

// ParseHeaderFormat parses "explicit" / "5" or "implicit" / "3".
func ParseHeaderFormat(s string) (HeaderFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "explicit", "5", "":
		return HeaderExplicitSize, nil
	case "implicit", "3":
		return HeaderImplicitSize, nil
	default:
		return 0, fmt.Errorf("unknown header format %q (want explicit or implicit)", s)
	}
}
