package ports

import "context"

// ProgramSource reads a program file into memory in one piece.
type ProgramSource interface {
	// Read returns the whole file. Failures are classified as
	// domain.ErrFileNotFound or domain.ErrFileReadError.
	Read(path string) ([]byte, error)
}

// ChangeNotifier reports changes to a single file.
type ChangeNotifier interface {
	// Watch starts watching path. The returned channel receives a value each
	// time the file is written or re-created and is closed when ctx is done
	// or the watch fails.
	Watch(ctx context.Context, path string) (<-chan struct{}, error)
}
