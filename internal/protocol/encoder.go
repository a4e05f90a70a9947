package protocol

import (
	"encoding/binary"

	"github.com/bft-labs/petship/internal/domain"
)

// Encoder turns validated operations into frames.
// It holds no state beyond its header format and is safe for concurrent use.
type Encoder struct {
	format HeaderFormat
}

// NewEncoder creates an encoder bound to one header format.
func NewEncoder(format HeaderFormat) *Encoder {
	return &Encoder{format: format}
}

// Format returns the load header format the encoder emits.
func (e *Encoder) Format() HeaderFormat {
	return e.format
}

// EncodeExecute builds an Execute frame.
//
// Frame structure:
//
//	[0x80][ADDR_L][ADDR_H]
func (e *Encoder) EncodeExecute(addr uint16) Frame {
	frame := make(Frame, ExecuteFrameSize)
	frame[0] = OpExecute
	binary.LittleEndian.PutUint16(frame[1:3], addr)
	return frame
}

// EncodeRun builds a Run frame.
//
// Frame structure:
//
//	[0x81]
func (e *Encoder) EncodeRun() Frame {
	return Frame{OpRun}
}

// LoadPlan is the result of preparing a load: the target address, the payload
// and the two frames that carry them.
type LoadPlan struct {
	// Address is the memory address the payload is loaded to
	Address uint16

	// Payload is a private copy of the bytes sent in the data frame
	Payload []byte

	// FileSize is the size of the file before the header bytes were stripped
	FileSize int

	// Stripped is true when the address came from the file header
	Stripped bool

	// Header is the load header frame
	Header Frame

	// Data is the data frame, equal to Payload
	Data Frame
}

// Size returns the payload length.
func (p LoadPlan) Size() int { return len(p.Payload) }

// End returns the address one past the last loaded byte, wrapping at 64K.
func (p LoadPlan) End() uint16 { return p.Address + uint16(len(p.Payload)) }

// Frames returns the header and data frames in transmission order.
func (p LoadPlan) Frames() []Frame { return []Frame{p.Header, p.Data} }

// PlanLoad selects the load address and payload, enforces the payload limit
// and builds the header and data frames.
//
// Frame structure:
//
//	[0x40][ADDR_L][ADDR_H][SIZE_L][SIZE_H]   explicit size
//	[0x40][ADDR_L][ADDR_H]                   implicit size
//	[PAYLOAD...]
func (e *Encoder) PlanLoad(load domain.Load) (LoadPlan, error) {
	if !load.Source.Valid() {
		return LoadPlan{}, domain.CommandError("load address source not set")
	}

	// Snapshot first so later changes to the caller's buffer cannot reach
	// the frames.
	data := append([]byte(nil), load.Data...)

	plan := LoadPlan{FileSize: len(data)}
	if addr, ok := load.Source.Explicit(); ok {
		plan.Address = addr
		plan.Payload = data
	} else {
		if len(data) < FileHeaderSize {
			return LoadPlan{}, domain.CommandError(
				"file too short to contain a load address: %d bytes (need at least %d)",
				len(data), FileHeaderSize)
		}
		plan.Address = binary.LittleEndian.Uint16(data[:FileHeaderSize])
		plan.Payload = data[FileHeaderSize:]
		plan.Stripped = true
	}

	size := len(plan.Payload)
	if size > MaxPayloadSize {
		return LoadPlan{}, domain.CommandError(
			"file size too large: %d bytes (maximum is %d, transport limit is %d bytes of data)",
			plan.FileSize, NominalSizeLimit, MaxPayloadSize)
	}

	plan.Header = e.loadHeader(plan.Address, uint16(size))
	plan.Data = Frame(plan.Payload)
	return plan, nil
}

func (e *Encoder) loadHeader(addr, size uint16) Frame {
	header := make(Frame, e.format.HeaderSize())
	header[0] = OpLoad
	binary.LittleEndian.PutUint16(header[1:3], addr)
	if e.format == HeaderExplicitSize {
		binary.LittleEndian.PutUint16(header[3:5], size)
	}
	return header
}

// Encode builds the frames for op in transmission order.
func (e *Encoder) Encode(op domain.Operation) ([]Frame, error) {
	switch op := op.(type) {
	case domain.Execute:
		return []Frame{e.EncodeExecute(op.Address)}, nil
	case domain.Run:
		return []Frame{e.EncodeRun()}, nil
	case domain.Load:
		plan, err := e.PlanLoad(op)
		if err != nil {
			return nil, err
		}
		return plan.Frames(), nil
	case nil:
		return nil, domain.CommandError("no operation")
	default:
		return nil, domain.CommandError("unsupported operation %T", op)
	}
}
