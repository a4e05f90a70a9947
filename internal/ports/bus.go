package ports

import (
	"context"

	"github.com/bft-labs/petship/internal/domain"
)

// Bus is an IEEE-488 bus controller.
// Calls are made in the order Initialize, Listen, Write..., Unlisten, and a
// Bus is used by one session at a time.
type Bus interface {
	// Initialize prepares the controller for use.
	Initialize(ctx context.Context) error

	// Listen addresses device as a listener.
	Listen(ctx context.Context, device domain.DeviceAddress) error

	// Write sends one frame to the addressed listener.
	Write(ctx context.Context, frame []byte) error

	// Unlisten releases the addressed listener.
	Unlisten(ctx context.Context) error

	// Close releases all resources held by the bus.
	Close() error
}
