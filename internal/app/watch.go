package app

import (
	"context"
	"errors"
	"time"

	"github.com/bft-labs/petship/internal/domain"
	"github.com/bft-labs/petship/internal/ports"
)

// DefaultDebounceDelay is the quiet period after a file change before a
// re-send starts.
const DefaultDebounceDelay = 100 * time.Millisecond

// errWatchClosed is returned when the change notifier stops before ctx is done.
var errWatchClosed = errors.New("file watch stopped")

// WatchConfig configures a Watcher.
type WatchConfig struct {
	DebounceDelay  time.Duration
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// DefaultWatchConfig returns a WatchConfig with default values.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		DebounceDelay:  DefaultDebounceDelay,
		BackoffInitial: DefaultBackoffInitial,
		BackoffMax:     DefaultBackoffMax,
	}
}

// Watcher re-sends a load every time its file changes.
type Watcher struct {
	config   WatchConfig
	sender   *Sender
	source   ports.ProgramSource
	notifier ports.ChangeNotifier
	logger   ports.Logger
}

// NewWatcher creates a watcher. Zero config values fall back to defaults.
func NewWatcher(cfg WatchConfig, sender *Sender, source ports.ProgramSource, notifier ports.ChangeNotifier, logger ports.Logger) *Watcher {
	def := DefaultWatchConfig()
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = def.DebounceDelay
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = def.BackoffInitial
	}
	if cfg.BackoffMax < cfg.BackoffInitial {
		cfg.BackoffMax = def.BackoffMax
		if cfg.BackoffMax < cfg.BackoffInitial {
			cfg.BackoffMax = cfg.BackoffInitial
		}
	}
	return &Watcher{
		config:   cfg,
		sender:   sender,
		source:   source,
		notifier: notifier,
		logger:   logger,
	}
}

// Run subscribes to changes of load.Path, sends the file as it is now and
// then re-reads and re-sends it after every change. The file is read only
// after the subscription is in place, so no save is lost between the two.
// An error from the first send ends Run. A failed re-send is retried with
// exponential backoff until it succeeds, the file changes again or ctx is
// done. Run returns nil when ctx is done.
func (w *Watcher) Run(ctx context.Context, device domain.DeviceAddress, load domain.Load) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes, err := w.notifier.Watch(ctx, load.Path)
	if err != nil {
		return domain.ClassifyReadError(load.Path, err)
	}

	if err := w.send(ctx, device, load, "sending"); err != nil {
		return err
	}

	w.logger.Info("watching for changes",
		ports.String("file", load.Path),
		ports.Int("device", int(device)),
	)

	b := newBackoff(w.config.BackoffInitial, w.config.BackoffMax)

	var debounce, retry *time.Timer
	var debounceC, retryC <-chan time.Time
	defer func() {
		stopTimer(debounce)
		stopTimer(retry)
	}()

	attempt := func() {
		if err := w.send(ctx, device, load, "file changed, re-sending"); err != nil {
			if ctx.Err() != nil {
				return
			}
			delay := b.next()
			w.logger.Warn("re-send failed, retrying",
				ports.String("file", load.Path),
				ports.Duration("backoff", delay),
				ports.Err(err),
			)
			retry = time.NewTimer(delay)
			retryC = retry.C
			return
		}
		b.Reset()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case _, ok := <-changes:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errWatchClosed
			}
			// A new change supersedes any pending retry.
			stopTimer(retry)
			retry, retryC = nil, nil
			b.Reset()

			stopTimer(debounce)
			debounce = time.NewTimer(w.config.DebounceDelay)
			debounceC = debounce.C

		case <-debounceC:
			debounce, debounceC = nil, nil
			attempt()

		case <-retryC:
			retry, retryC = nil, nil
			attempt()
		}
	}
}

// send reads load.Path afresh and sends it.
func (w *Watcher) send(ctx context.Context, device domain.DeviceAddress, load domain.Load, msg string) error {
	data, err := w.source.Read(load.Path)
	if err != nil {
		return domain.ClassifyReadError(load.Path, err)
	}
	w.logger.Info(msg,
		ports.String("file", load.Path),
		ports.Int("size", len(data)),
	)
	load.Data = data
	return w.sender.Send(ctx, device, load)
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
