// Package protocol encodes the PET IEEE loader command protocol.
//
// Every command is sent as one or more frames while the loader is addressed
// as a listener. A frame is one bus write. All 16-bit fields are
// little-endian.
//
//	Execute:      [0x80][ADDR_L][ADDR_H]
//	Run:          [0x81]
//	Load header:  [0x40][ADDR_L][ADDR_H][SIZE_L][SIZE_H]   (HeaderExplicitSize)
//	              [0x40][ADDR_L][ADDR_H]                   (HeaderImplicitSize)
//	Load data:    [PAYLOAD...]
//
// Two loader builds exist in the wild. Newer builds read an explicit size
// field after the address; older builds take the size from the length of the
// data write. An [Encoder] is bound to one [HeaderFormat] for its lifetime.
//
// # Load addressing
//
// A load either uses an explicit address for the whole file, or takes the
// address from the first two bytes of the file (the PRG convention) and
// strips them from the payload.
//
// # Limits
//
// The USB bus adapters move at most 32768 bytes per write. Five of those are
// reserved for the header, so a payload may be at most [MaxPayloadSize]
// (32763) bytes.
package protocol
