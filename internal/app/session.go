package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bft-labs/petship/internal/domain"
	"github.com/bft-labs/petship/internal/ports"
)

// ErrInvalidTransition is returned when a session call is made in a state
// that does not allow it.
var ErrInvalidTransition = errors.New("invalid session state transition")

// State represents the state of a bus session.
type State int

const (
	StateIdle State = iota
	StateInitialized
	StateListening
	StateReleased
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateInitialized:
		return "Initialized"
	case StateListening:
		return "Listening"
	case StateReleased:
		return "Released"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// EventEmitter is called when session state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// Session is one initialize, listen, write..., unlisten exchange with a
// single device. A Session is not reusable once released.
type Session struct {
	mu      sync.Mutex
	id      string
	bus     ports.Bus
	device  domain.DeviceAddress
	state   State
	claimed bool // bus initialized, so unlisten is owed
	frames  int
	bytes   int
	pending []stateChange // reported by unlock

	logger       ports.Logger
	eventEmitter EventEmitter
}

type stateChange struct {
	previous, current State
	reason            string
}

// NewSession creates an idle session for device on bus.
func NewSession(bus ports.Bus, device domain.DeviceAddress, logger ports.Logger, emitter EventEmitter) *Session {
	id := uuid.NewString()
	return &Session{
		id:           id,
		bus:          bus,
		device:       device,
		state:        StateIdle,
		logger:       ports.With(logger, ports.String("session", id)),
		eventEmitter: emitter,
	}
}

// ID returns the session identifier used in log fields.
func (s *Session) ID() string { return s.id }

// Device returns the addressed device.
func (s *Session) Device() domain.DeviceAddress { return s.device }

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Written returns the number of frames and bytes written so far.
func (s *Session) Written() (frames, bytes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames, s.bytes
}

// unlock releases s.mu, then reports the transitions made while it was held.
func (s *Session) unlock() {
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if s.eventEmitter == nil {
		return
	}
	for _, c := range pending {
		s.eventEmitter.OnStateChange(c.previous, c.current, c.reason)
	}
}

// transitionTo moves to newState if the transition is allowed.
// Callers must hold s.mu and release it with unlock.
func (s *Session) transitionTo(newState State, reason string) error {
	oldState := s.state

	switch oldState {
	case StateIdle:
		if newState != StateInitialized && newState != StateFailed && newState != StateReleased {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, oldState, newState)
		}
	case StateInitialized:
		if newState != StateListening && newState != StateFailed && newState != StateReleased {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, oldState, newState)
		}
	case StateListening:
		if newState != StateReleased && newState != StateFailed {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, oldState, newState)
		}
	case StateFailed:
		if newState != StateReleased {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, oldState, newState)
		}
	case StateReleased:
		return fmt.Errorf("%w: session already released", ErrInvalidTransition)
	}

	s.state = newState
	s.pending = append(s.pending, stateChange{oldState, newState, reason})

	s.logger.Debug("session state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}

// Open initializes the bus and addresses the device as listener.
// If initialize succeeded, Release must be called even when Open fails.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlock()

	if s.state != StateIdle {
		return fmt.Errorf("%w: open in state %s", ErrInvalidTransition, s.state)
	}

	s.logger.Debug("initializing bus")
	if err := s.bus.Initialize(ctx); err != nil {
		_ = s.transitionTo(StateFailed, "initialize failed")
		return domain.TransportError("initialize", err)
	}
	s.claimed = true
	if err := s.transitionTo(StateInitialized, "bus initialized"); err != nil {
		return err
	}

	s.logger.Debug("listening",
		ports.Int("device", int(s.device)),
	)
	if err := s.bus.Listen(ctx, s.device); err != nil {
		_ = s.transitionTo(StateFailed, "listen failed")
		return domain.TransportError(fmt.Sprintf("listen device %d", s.device), err)
	}
	return s.transitionTo(StateListening, "device addressed")
}

// Write sends one frame. It is only valid while listening; a failed write
// moves the session to Failed.
func (s *Session) Write(ctx context.Context, frame []byte) error {
	s.mu.Lock()
	defer s.unlock()

	if s.state != StateListening {
		return fmt.Errorf("%w: write in state %s", ErrInvalidTransition, s.state)
	}

	if err := s.bus.Write(ctx, frame); err != nil {
		_ = s.transitionTo(StateFailed, "write failed")
		return domain.TransportError(fmt.Sprintf("write frame %d (%d bytes)", s.frames+1, len(frame)), err)
	}
	s.frames++
	s.bytes += len(frame)

	s.logger.Debug("frame written",
		ports.Int("frame", s.frames),
		ports.Int("size", len(frame)),
	)
	return nil
}

// Release unlistens the device if the bus was initialized. It is safe to
// call more than once; only the first call reaches the bus.
func (s *Session) Release(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlock()

	if s.state == StateReleased {
		return nil
	}
	if !s.claimed {
		return s.transitionTo(StateReleased, "nothing to release")
	}
	s.claimed = false

	s.logger.Debug("unlistening")
	err := s.bus.Unlisten(ctx)
	if terr := s.transitionTo(StateReleased, "unlisten"); terr != nil && err == nil {
		return terr
	}
	if err != nil {
		return domain.TransportError("unlisten", err)
	}
	return nil
}

// WithSession opens a session for device, runs fn and releases the session
// on every exit path, including a failed open, a failed write and a panic.
// An unlisten failure is returned on its own after a successful fn and
// joined to fn's error otherwise.
func WithSession(ctx context.Context, bus ports.Bus, device domain.DeviceAddress, logger ports.Logger, fn func(*Session) error) error {
	return withSession(ctx, bus, device, logger, nil, fn)
}

func withSession(ctx context.Context, bus ports.Bus, device domain.DeviceAddress, logger ports.Logger, emitter EventEmitter, fn func(*Session) error) (err error) {
	s := NewSession(bus, device, logger, emitter)

	defer func() {
		// Unlisten must reach the bus even if ctx was cancelled mid-session.
		rerr := s.Release(context.WithoutCancel(ctx))
		if rerr == nil {
			return
		}
		if err == nil {
			err = rerr
			return
		}
		err = errors.Join(err, rerr)
	}()

	if err := s.Open(ctx); err != nil {
		return err
	}
	return fn(s)
}
