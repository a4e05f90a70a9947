package protocol

// Command opcodes understood by the PET loader.
const (
	// OpLoad receives data into memory
	OpLoad = 0x40

	// OpExecute calls a machine code routine with JSR
	OpExecute = 0x80

	// OpRun runs the BASIC program in memory
	OpRun = 0x81
)

// Frame sizes in bytes.
const (
	ExecuteFrameSize = 3
	RunFrameSize     = 1

	// ImplicitHeaderSize is OPCODE(1) + ADDR(2)
	ImplicitHeaderSize = 3

	// ExplicitHeaderSize is OPCODE(1) + ADDR(2) + SIZE(2)
	ExplicitHeaderSize = 5

	// FileHeaderSize is the little-endian load address at the start of a PRG file
	FileHeaderSize = 2
)

// Size limits.
const (
	// TransportBlockLimit is the largest single write the bus adapters accept
	TransportBlockLimit = 32768

	// MaxPayloadSize is the largest load payload: the block limit minus the
	// explicit header
	MaxPayloadSize = TransportBlockLimit - ExplicitHeaderSize

	// NominalSizeLimit is the ceiling of the 16-bit size field
	NominalSizeLimit = 0xFFFF
)
