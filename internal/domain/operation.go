package domain

// AddressSource selects where a load takes its target address from.
// Build one with ExplicitAddress or FromFileHeader; the zero value is invalid.
type AddressSource struct {
	kind    sourceKind
	address uint16
}

type sourceKind uint8

const (
	sourceUnset sourceKind = iota
	sourceExplicit
	sourceFileHeader
)

// ExplicitAddress loads the whole file at addr.
func ExplicitAddress(addr uint16) AddressSource {
	return AddressSource{kind: sourceExplicit, address: addr}
}

// FromFileHeader takes the load address from the first two file bytes
// (little-endian) and strips them from the payload, as in a PRG file.
func FromFileHeader() AddressSource {
	return AddressSource{kind: sourceFileHeader}
}

// Explicit returns the caller-supplied address and true for an explicit source.
func (s AddressSource) Explicit() (uint16, bool) {
	return s.address, s.kind == sourceExplicit
}

// IsFileHeader reports whether the address comes from the file header.
func (s AddressSource) IsFileHeader() bool {
	return s.kind == sourceFileHeader
}

// Valid reports whether the source was built by one of the constructors.
func (s AddressSource) Valid() bool {
	return s.kind == sourceExplicit || s.kind == sourceFileHeader
}

func (s AddressSource) String() string {
	switch s.kind {
	case sourceExplicit:
		return "$" + FormatAddress(s.address)
	case sourceFileHeader:
		return "file header"
	default:
		return "unset"
	}
}

// Operation is one of Execute, Run or Load.
type Operation interface {
	// Name returns the lower-case operation name used in logs.
	Name() string

	isOperation()
}

// Execute calls a machine code routine (JSR) at Address.
type Execute struct {
	Address uint16
}

// Run starts the BASIC program currently in memory.
type Run struct{}

// Load transfers Data into memory at the address selected by Source.
// Path is informational only.
type Load struct {
	Source AddressSource
	Data   []byte
	Path   string
}

func (Execute) Name() string { return "execute" }
func (Run) Name() string     { return "run" }
func (Load) Name() string    { return "load" }

func (Execute) isOperation() {}
func (Run) isOperation()     {}
func (Load) isOperation()    {}
