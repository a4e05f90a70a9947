package app

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/petship/internal/domain"
	"github.com/bft-labs/petship/internal/protocol"
)

func newTestSender(bus *fakeBus, format protocol.HeaderFormat, emitter SendEventEmitter) *Sender {
	return NewSender(bus, protocol.NewEncoder(format), &mockLogger{}, emitter)
}

func TestSender_Execute(t *testing.T) {
	bus := &fakeBus{}
	s := newTestSender(bus, protocol.HeaderExplicitSize, nil)

	require.NoError(t, s.Send(context.Background(), 30, domain.Execute{Address: 0x0400}))

	assert.Equal(t, []string{"initialize", "listen 30", "write 3", "unlisten"}, bus.Calls())
	assert.Equal(t, [][]byte{{0x80, 0x00, 0x04}}, bus.Writes())
}

func TestSender_Run(t *testing.T) {
	bus := &fakeBus{}
	s := newTestSender(bus, protocol.HeaderExplicitSize, nil)

	require.NoError(t, s.Send(context.Background(), 8, domain.Run{}))

	assert.Equal(t, [][]byte{{0x81}}, bus.Writes())
}

func TestSender_LoadFromHeader(t *testing.T) {
	tests := []struct {
		name       string
		format     protocol.HeaderFormat
		wantHeader []byte
	}{
		{"explicit", protocol.HeaderExplicitSize, []byte{0x40, 0x01, 0x04, 0x03, 0x00}},
		{"implicit", protocol.HeaderImplicitSize, []byte{0x40, 0x01, 0x04}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &fakeBus{}
			s := newTestSender(bus, tt.format, nil)
			load := domain.Load{
				Source: domain.FromFileHeader(),
				Data:   []byte{0x01, 0x04, 0xA9, 0x00, 0x60},
				Path:   "prog.prg",
			}

			require.NoError(t, s.Send(context.Background(), 30, load))

			writes := bus.Writes()
			require.Len(t, writes, 2)
			assert.Equal(t, tt.wantHeader, writes[0])
			assert.Equal(t, []byte{0xA9, 0x00, 0x60}, writes[1])
		})
	}
}

func TestSender_LoadTooLargeTouchesNoBus(t *testing.T) {
	bus := &fakeBus{}
	emitter := &recordingSendEmitter{}
	s := newTestSender(bus, protocol.HeaderExplicitSize, emitter)
	load := domain.Load{
		Source: domain.ExplicitAddress(0x1000),
		Data:   make([]byte, protocol.MaxPayloadSize+1),
	}

	err := s.Send(context.Background(), 30, load)

	require.ErrorIs(t, err, domain.ErrCommand)
	assert.Empty(t, bus.Calls())
	assert.Len(t, emitter.failures, 1)
}

func TestSender_FailedWriteStillUnlistens(t *testing.T) {
	bus := &fakeBus{failOn: "write", failAfter: 2}
	emitter := &recordingSendEmitter{}
	s := newTestSender(bus, protocol.HeaderExplicitSize, emitter)
	load := domain.Load{Source: domain.ExplicitAddress(0x0400), Data: []byte{1, 2, 3}}

	err := s.Send(context.Background(), 30, load)

	require.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, errBus)
	assert.Equal(t, []string{"initialize", "listen 30", "write 5", "write 3", "unlisten"}, bus.Calls())
	assert.Empty(t, emitter.successes)
	assert.Len(t, emitter.failures, 1)
}

func TestSender_EmitsSuccess(t *testing.T) {
	bus := &fakeBus{}
	emitter := &recordingSendEmitter{}
	s := newTestSender(bus, protocol.HeaderExplicitSize, emitter)

	require.NoError(t, s.Send(context.Background(), 30, domain.Load{
		Source: domain.ExplicitAddress(0x0400),
		Data:   []byte{1, 2, 3},
	}))

	assert.Equal(t, []string{"load"}, emitter.successes)
	assert.Equal(t, 8, emitter.bytes)
}

func TestSender_NilOperation(t *testing.T) {
	bus := &fakeBus{}
	s := newTestSender(bus, protocol.HeaderExplicitSize, nil)

	err := s.Send(context.Background(), 30, nil)

	assert.ErrorIs(t, err, domain.ErrCommand)
	assert.Empty(t, bus.Calls())
}

func TestSender_ConcurrentSendsDoNotInterleave(t *testing.T) {
	bus := &fakeBus{}
	s := newTestSender(bus, protocol.HeaderExplicitSize, nil)
	load := domain.Load{Source: domain.ExplicitAddress(0x0400), Data: []byte{1, 2, 3}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Send(context.Background(), 30, load))
		}()
	}
	wg.Wait()

	calls := bus.Calls()
	require.Len(t, calls, 8*5)
	for i := 0; i < len(calls); i += 5 {
		assert.Equal(t, []string{"initialize", "listen 30", "write 5", "write 3", "unlisten"}, calls[i:i+5])
	}
}

type sessionRecordingEmitter struct {
	recordingSendEmitter
	mockEmitter
}

func TestSender_ForwardsSessionEvents(t *testing.T) {
	bus := &fakeBus{}
	emitter := &sessionRecordingEmitter{}
	s := newTestSender(bus, protocol.HeaderExplicitSize, emitter)

	require.NoError(t, s.Send(context.Background(), 30, domain.Run{}))

	var states []State
	for _, ev := range emitter.Events() {
		states = append(states, ev.current)
	}
	assert.Equal(t, []State{StateInitialized, StateListening, StateReleased}, states)
}
