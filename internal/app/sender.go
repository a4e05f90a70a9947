package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/petship/internal/domain"
	"github.com/bft-labs/petship/internal/ports"
	"github.com/bft-labs/petship/internal/protocol"
)

// SendEventEmitter is called after every Send. If it also implements
// EventEmitter it receives the state changes of every session.
type SendEventEmitter interface {
	OnSendSuccess(op string, frameCount, bytesSent int, duration time.Duration)
	OnSendError(op string, err error)
}

// Sender encodes operations and transmits them to a device in one bus
// session per call. Concurrent calls are serialized so sessions never
// interleave on the bus.
type Sender struct {
	mu      sync.Mutex
	bus     ports.Bus
	encoder *protocol.Encoder
	logger  ports.Logger
	emitter SendEventEmitter
}

// NewSender creates a sender writing to bus with frames built by encoder.
// emitter may be nil.
func NewSender(bus ports.Bus, encoder *protocol.Encoder, logger ports.Logger, emitter SendEventEmitter) *Sender {
	return &Sender{
		bus:     bus,
		encoder: encoder,
		logger:  logger,
		emitter: emitter,
	}
}

// Send encodes op and writes its frames to device in order.
// Nothing reaches the bus if encoding fails.
func (s *Sender) Send(ctx context.Context, device domain.DeviceAddress, op domain.Operation) error {
	if op == nil {
		return domain.CommandError("no operation")
	}

	frames, err := s.encode(op)
	if err != nil {
		s.emitError(op.Name(), err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	var frameCount, byteCount int
	var sessionEmitter EventEmitter
	if e, ok := s.emitter.(EventEmitter); ok {
		sessionEmitter = e
	}

	err = withSession(ctx, s.bus, device, s.logger, sessionEmitter, func(sess *Session) error {
		s.logger.Debug("session opened",
			ports.String("session", sess.ID()),
			ports.Int("device", int(device)),
			ports.String("op", op.Name()),
		)
		for _, f := range frames {
			if err := sess.Write(ctx, f); err != nil {
				return err
			}
		}
		frameCount, byteCount = sess.Written()
		return nil
	})
	if err != nil {
		s.logger.Error("send failed",
			ports.String("op", op.Name()),
			ports.Int("device", int(device)),
			ports.Err(err),
		)
		s.emitError(op.Name(), err)
		return err
	}

	elapsed := time.Since(start)
	s.logger.Info("sent",
		ports.String("op", op.Name()),
		ports.Int("device", int(device)),
		ports.Int("frames", frameCount),
		ports.Int("bytes", byteCount),
		ports.Duration("elapsed", elapsed),
	)
	if s.emitter != nil {
		s.emitter.OnSendSuccess(op.Name(), frameCount, byteCount, elapsed)
	}
	return nil
}

// encode builds the frames for op and narrates what they carry.
func (s *Sender) encode(op domain.Operation) ([]protocol.Frame, error) {
	switch o := op.(type) {
	case domain.Execute:
		s.logger.Debug("execute", ports.Hex16("addr", o.Address))
	case domain.Run:
		s.logger.Debug("run")
	case domain.Load:
		plan, err := s.encoder.PlanLoad(o)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("load",
			ports.String("file", o.Path),
			ports.Int("file_size", plan.FileSize),
			ports.Bool("header_stripped", plan.Stripped),
			ports.Hex16("addr", plan.Address),
			ports.Hex16("end", plan.End()),
			ports.Int("size", plan.Size()),
			ports.String("header", s.encoder.Format().String()),
		)
		return plan.Frames(), nil
	}
	return s.encoder.Encode(op)
}

func (s *Sender) emitError(op string, err error) {
	if s.emitter != nil {
		s.emitter.OnSendError(op, err)
	}
}
