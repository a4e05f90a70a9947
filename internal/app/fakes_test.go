package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/bft-labs/petship/internal/domain"
	"github.com/bft-labs/petship/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// fakeBus records every bus call. failOn names a call that returns errBus;
// for "write" failAfter selects which write (1-based) fails.
type fakeBus struct {
	mu        sync.Mutex
	calls     []string
	writes    [][]byte
	failOn    string
	failAfter int
	failCount int // number of failures left, 0 means unlimited
	onWrite   func(n int) // called with the 1-based write number
}

var errBus = errors.New("bus stall")

func (b *fakeBus) fail(call string) bool {
	if b.failOn != call {
		return false
	}
	if call == "write" && b.failAfter > 0 && len(b.writes)+1 != b.failAfter {
		return false
	}
	if b.failCount > 0 {
		b.failCount--
		if b.failCount == 0 {
			b.failOn = ""
		}
	}
	return true
}

func (b *fakeBus) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, "initialize")
	if b.fail("initialize") {
		return errBus
	}
	return nil
}

func (b *fakeBus) Listen(ctx context.Context, device domain.DeviceAddress) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, fmt.Sprintf("listen %d", device))
	if b.fail("listen") {
		return errBus
	}
	return nil
}

func (b *fakeBus) Write(ctx context.Context, frame []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, fmt.Sprintf("write %d", len(frame)))
	if b.fail("write") {
		return errBus
	}
	b.writes = append(b.writes, append([]byte(nil), frame...))
	if b.onWrite != nil {
		b.onWrite(len(b.writes))
	}
	return nil
}

func (b *fakeBus) Unlisten(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, "unlisten")
	if b.fail("unlisten") {
		return errBus
	}
	return nil
}

func (b *fakeBus) Close() error { return nil }

// failNext makes the next count calls named call fail.
func (b *fakeBus) failNext(call string, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failOn, b.failAfter, b.failCount = call, 0, count
}

func (b *fakeBus) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBus) Writes() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte(nil), b.writes...)
}

func (b *fakeBus) countCalls(name string) int {
	n := 0
	for _, c := range b.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

// mockEmitter tracks state change events for testing.
type mockEmitter struct {
	mu     sync.Mutex
	events []stateChangeEvent
}

type stateChangeEvent struct {
	previous State
	current  State
	reason   string
}

func (m *mockEmitter) OnStateChange(previous, current State, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, stateChangeEvent{previous, current, reason})
}

func (m *mockEmitter) Events() []stateChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stateChangeEvent{}, m.events...)
}

// recordingSendEmitter records send outcomes.
type recordingSendEmitter struct {
	mu        sync.Mutex
	successes []string
	failures  []error
	bytes     int
}

func (r *recordingSendEmitter) OnSendSuccess(op string, frameCount, bytesSent int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, op)
	r.bytes += bytesSent
}

func (r *recordingSendEmitter) OnSendError(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, err)
}

// memSource is an in-memory ports.ProgramSource.
type memSource struct {
	mu    sync.Mutex
	files map[string][]byte
	reads int
}

func (m *memSource) Read(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	data, ok := m.files[path]
	if !ok {
		return nil, domain.ClassifyReadError(path, fmt.Errorf("open %s: %w", path, fs.ErrNotExist))
	}
	return append([]byte(nil), data...), nil
}

func (m *memSource) set(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
}

func (m *memSource) remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

func (m *memSource) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// chanNotifier is a ports.ChangeNotifier driven by the test.
type chanNotifier struct {
	ch      chan struct{}
	err     error
	onWatch func()
}

func (c *chanNotifier) Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	if c.onWatch != nil {
		c.onWatch()
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.ch, nil
}
