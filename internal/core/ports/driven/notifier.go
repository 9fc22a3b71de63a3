package driven

import "github.com/custodia-labs/docsync/internal/core/domain"

// FileWatcher delivers raw filesystem change notifications for a watched
// root. Implementations translate OS-level events into FileChange values;
// debouncing and coalescing happen in the watch service, not here.
type FileWatcher interface {
	// Watch registers a directory tree for change notification.
	// Subdirectories created later must be picked up automatically.
	Watch(root string) error

	// Events returns the channel raw changes are delivered on.
	// The channel is closed by Close.
	Events() <-chan domain.FileChange

	// Errors returns the channel watch-layer failures are delivered on.
	Errors() <-chan error

	// Close stops watching and releases resources.
	Close() error
}
