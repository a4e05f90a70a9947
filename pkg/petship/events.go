package petship

import (
	"time"

	"github.com/bft-labs/petship/internal/app"
)

// SessionState is the state of a bus session.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionInitialized
	SessionListening
	SessionReleased
	SessionFailed
)

// String returns a human-readable representation of the state.
func (s SessionState) String() string {
	return app.State(s).String()
}

// SessionEvent reports a session state change.
type SessionEvent struct {
	Previous SessionState
	Current  SessionState
	Reason   string
}

// SendSuccessEvent reports a completed send.
type SendSuccessEvent struct {
	Operation  string
	FrameCount int
	BytesSent  int
	Duration   time.Duration
}

// SendErrorEvent reports a failed send.
type SendErrorEvent struct {
	Operation string
	Error     error
}

// EventHandler receives petship events. Methods are called synchronously
// from the sending goroutine.
type EventHandler interface {
	OnSessionStateChange(SessionEvent)
	OnSendSuccess(SendSuccessEvent)
	OnSendError(SendErrorEvent)
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnSessionStateChange(SessionEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnSendSuccess(op string, frameCount, bytesSent int, duration time.Duration) {
	if e.handler == nil {
		return
	}
	e.handler.OnSendSuccess(SendSuccessEvent{
		Operation:  op,
		FrameCount: frameCount,
		BytesSent:  bytesSent,
		Duration:   duration,
	})
}

func (e *eventEmitterWrapper) OnSendError(op string, err error) {
	if e.handler == nil {
		return
	}
	e.handler.OnSendError(SendErrorEvent{
		Operation: op,
		Error:     err,
	})
}

func convertState(s app.State) SessionState {
	switch s {
	case app.StateIdle:
		return SessionIdle
	case app.StateInitialized:
		return SessionInitialized
	case app.StateListening:
		return SessionListening
	case app.StateReleased:
		return SessionReleased
	case app.StateFailed:
		return SessionFailed
	default:
		return SessionIdle
	}
}
