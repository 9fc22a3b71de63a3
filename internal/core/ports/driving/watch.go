package driving

import "context"

// WatchService runs the live file-change watcher for a watched root.
type WatchService interface {
	// Start begins watching. It returns once the watch layer is
	// registered; change handling runs in the background until Stop
	// or context cancellation. Returns domain.ErrWatchActive when
	// already running.
	Start(ctx context.Context) error

	// Stop halts watching and flushes nothing; pending changes are
	// dropped and left for reconciliation. Stopping an inactive
	// watcher is a no-op.
	Stop() error

	// Active reports whether the watcher is running.
	Active() bool

	// Flush forces immediate dispatch of the pending change set
	// without waiting for the debounce interval.
	Flush(ctx context.Context)

	// Status returns a snapshot of the watcher state.
	Status() WatchStatus
}

// WatchStatus is a point-in-time view of the watcher.
type WatchStatus struct {
	// Root is the watched directory.
	Root string

	// Active indicates the watch layer is running.
	Active bool

	// Pending is the number of coalesced changes awaiting dispatch.
	Pending int
}
