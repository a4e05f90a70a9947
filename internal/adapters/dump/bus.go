// Package dump implements ports.Bus as a dry run that prints every bus call
// and frame to a writer instead of touching hardware.
package dump

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/bft-labs/petship/internal/domain"
)

// Bus writes a line per bus call and a hex dump per frame.
type Bus struct {
	mu     sync.Mutex
	out    io.Writer
	frames int
}

// New creates a dump bus writing to out.
func New(out io.Writer) *Bus {
	return &Bus{out: out}
}

func (b *Bus) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = 0
	_, err := fmt.Fprintln(b.out, "initialize")
	return err
}

func (b *Bus) Listen(ctx context.Context, device domain.DeviceAddress) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := fmt.Fprintf(b.out, "listen %d\n", device)
	return err
}

func (b *Bus) Write(ctx context.Context, frame []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames++
	if _, err := fmt.Fprintf(b.out, "write frame %d: %d bytes\n", b.frames, len(frame)); err != nil {
		return err
	}
	if len(frame) == 0 {
		return nil
	}
	d := hex.Dumper(b.out)
	if _, err := d.Write(frame); err != nil {
		return err
	}
	return d.Close()
}

func (b *Bus) Unlisten(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := fmt.Fprintln(b.out, "unlisten")
	return err
}

func (b *Bus) Close() error { return nil }
