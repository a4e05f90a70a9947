package fs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/petship/internal/ports"
)

// FileWatcher implements ports.ChangeNotifier with fsnotify.
//
// The parent directory is watched and events are filtered by file name, so a
// file replaced by rename is still tracked.
type FileWatcher struct {
	logger ports.Logger
}

// NewFileWatcher creates a new FileWatcher.
func NewFileWatcher(logger ports.Logger) *FileWatcher {
	return &FileWatcher{logger: logger}
}

// Watch reports Write and Create events for path. The returned channel is
// closed when ctx is done or the underlying watcher fails.
func (w *FileWatcher) Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	changes := make(chan struct{}, 1)
	go w.loop(ctx, watcher, abs, changes)
	return changes, nil
}

func (w *FileWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher, path string, changes chan<- struct{}) {
	defer close(changes)
	defer watcher.Close()

	name := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("file event",
				ports.String("file", event.Name),
				ports.String("op", event.Op.String()),
			)
			// Coalesce: one pending notification is enough.
			select {
			case changes <- struct{}{}:
			default:
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", ports.Err(err))
		}
	}
}
