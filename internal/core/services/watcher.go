package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// WatcherFactory builds a fresh watch layer. A new instance is created
// on every start and on the automatic post-error restart.
type WatcherFactory func() (driven.FileWatcher, error)

// WatchService owns one watched root. OS callbacks only mutate the
// pending map and reset the debounce timer; indexing happens when the
// timer fires, in one batch, under the shared dispatch gate.
type WatchService struct {
	root       string
	filter     *pathFilter
	debounce   time.Duration
	newWatcher WatcherFactory
	indexer    driving.IndexService
	gate       *Gate

	mu        sync.Mutex
	active    bool
	restarted bool
	watcher   driven.FileWatcher
	pending   map[string]domain.FileChange
	timer     *time.Timer
	runCtx    context.Context
	cancel    context.CancelFunc
}

// NewWatchService creates a watch engine. The gate must be the same
// instance the reconciler runs through.
func NewWatchService(
	settings domain.WatchSettings,
	newWatcher WatcherFactory,
	indexer driving.IndexService,
	gate *Gate,
) *WatchService {
	debounce := settings.Debounce
	if debounce <= 0 {
		debounce = domain.DefaultDebounceInterval
	}
	return &WatchService{
		root:       settings.Root,
		filter:     newPathFilter(settings.Include, settings.Exclude),
		debounce:   debounce,
		newWatcher: newWatcher,
		indexer:    indexer,
		gate:       gate,
		pending:    make(map[string]domain.FileChange),
	}
}

// Start begins watching. Change handling runs in the background until
// Stop or context cancellation.
func (s *WatchService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return domain.ErrWatchActive
	}

	w, err := s.newWatcher()
	if err != nil {
		return fmt.Errorf("create watch layer: %w", err)
	}
	if err := w.Watch(s.root); err != nil {
		return fmt.Errorf("watch %s: %w", s.root, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.active = true
	s.restarted = false
	s.watcher = w
	s.runCtx = runCtx
	s.cancel = cancel
	s.pending = make(map[string]domain.FileChange)

	go s.loop(runCtx, w)

	logger.Info("Watching %s (debounce %s)", s.root, s.debounce)
	return nil
}

// Stop halts watching. Pending changes are dropped; reconciliation
// picks them up. Stopping an inactive watcher is a no-op.
func (s *WatchService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil
	}
	return s.deactivateLocked()
}

// Active reports whether the watcher is running.
func (s *WatchService) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Flush forces immediate dispatch of the pending change set without
// waiting for the debounce interval.
func (s *WatchService) Flush(ctx context.Context) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.dispatch(ctx)
}

// Status returns a snapshot of the watcher state.
func (s *WatchService) Status() driving.WatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return driving.WatchStatus{
		Root:    s.root,
		Active:  s.active,
		Pending: len(s.pending),
	}
}

// loop pumps one watch layer instance until it errors, its channels
// close, or the run context ends.
func (s *WatchService) loop(ctx context.Context, w driven.FileWatcher) {
	for {
		select {
		case <-ctx.Done():
			return

		case change, ok := <-w.Events():
			if !ok {
				return
			}
			s.handleEvent(change)

		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			logger.Warn("Watch layer error: %v", err)
			s.restart(ctx, w)
			return
		}
	}
}

// restart replaces a failed watch layer. One automatic attempt is made
// per session; a second failure, or a failed attempt, leaves watching
// stopped until explicitly restarted.
func (s *WatchService) restart(ctx context.Context, old driven.FileWatcher) {
	_ = old.Close()

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	if s.restarted {
		_ = s.deactivateLocked()
		s.mu.Unlock()
		logger.Error("Watch layer failed again; watching stopped")
		return
	}
	s.restarted = true

	w, err := s.newWatcher()
	if err == nil {
		err = w.Watch(s.root)
	}
	if err != nil {
		_ = s.deactivateLocked()
		s.mu.Unlock()
		logger.Error("Watch restart failed: %v; watching stopped", err)
		return
	}

	s.watcher = w
	s.mu.Unlock()

	logger.Info("Watch layer restarted on %s", s.root)
	go s.loop(ctx, w)
}

// deactivateLocked tears the session down. Callers hold s.mu.
func (s *WatchService) deactivateLocked() error {
	s.active = false
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = make(map[string]domain.FileChange)
	if s.cancel != nil {
		s.cancel()
	}
	var err error
	if s.watcher != nil {
		err = s.watcher.Close()
		s.watcher = nil
	}
	return err
}

// handleEvent filters one raw change and inserts it into the pending
// set. Rename events expand per the include/exclude state of both ends.
func (s *WatchService) handleEvent(change domain.FileChange) {
	if change.Type == domain.ChangeRenamed {
		s.handleRename(change)
		return
	}

	rel, err := canonicalPath(s.root, change.Path)
	if err != nil || !s.filter.Match(rel) {
		return
	}
	s.enqueue(change)
}

// handleRename reduces a rename to the change the filter admits: a
// rename when both ends match, a delete of the old path when only it
// matched, a create of the new path when only it matched, nothing when
// neither did. A rename with no old path means the platform only
// reported the vacated name; the new location arrives as its own
// create, so the vacated path is treated as deleted.
func (s *WatchService) handleRename(change domain.FileChange) {
	if change.OldPath == "" {
		s.handleEvent(domain.FileChange{
			Path: change.Path,
			Type: domain.ChangeDeleted,
			At:   change.At,
		})
		return
	}

	oldRel, oldErr := canonicalPath(s.root, change.OldPath)
	newRel, newErr := canonicalPath(s.root, change.Path)
	oldMatch := oldErr == nil && s.filter.Match(oldRel)
	newMatch := newErr == nil && s.filter.Match(newRel)

	switch {
	case oldMatch && newMatch:
		s.enqueue(change)
	case oldMatch:
		s.enqueue(domain.FileChange{
			Path: change.OldPath,
			Type: domain.ChangeDeleted,
			At:   change.At,
		})
	case newMatch:
		s.enqueue(domain.FileChange{
			Path: change.Path,
			Type: domain.ChangeCreated,
			At:   change.At,
		})
	}
}

// enqueue coalesces a change into the pending set and resets the
// debounce timer.
func (s *WatchService) enqueue(change domain.FileChange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}

	if existing, ok := s.pending[change.Path]; ok {
		change = domain.Coalesce(existing, change)
	}
	s.pending[change.Path] = change
	s.resetTimerLocked()
}

// resetTimerLocked (re)arms the debounce timer. Callers hold s.mu.
func (s *WatchService) resetTimerLocked() {
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.onTimer)
		return
	}
	s.timer.Reset(s.debounce)
}

// onTimer fires when the quiet period elapses.
func (s *WatchService) onTimer() {
	s.dispatch(s.currentCtx())
}

// currentCtx returns the run context, or a background context when the
// session already ended.
func (s *WatchService) currentCtx() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runCtx != nil {
		return s.runCtx
	}
	return context.Background()
}

// dispatch drains the pending set in one atomic swap and processes it
// as a batch under the dispatch gate. A batch arriving while the gate
// is held is dropped, not queued; reconciliation converges on whatever
// the drop skipped.
func (s *WatchService) dispatch(ctx context.Context) {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[string]domain.FileChange)
	s.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	if !s.gate.TryAcquire() {
		logger.Debug("Dropped batch of %d change(s): batch in progress", len(batch))
		return
	}
	defer s.gate.Release()

	s.processBatch(ctx, batch)
}

// processBatch runs the pending changes through the indexing pipeline
// in path order.
func (s *WatchService) processBatch(ctx context.Context, batch map[string]domain.FileChange) {
	logger.Section("Change Batch")
	logger.Info("Processing %d change(s)", len(batch))

	paths := make([]string, 0, len(batch))
	for p := range batch {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if ctx.Err() != nil {
			return
		}

		change := batch[p]
		switch change.Type {
		case domain.ChangeCreated, domain.ChangeModified:
			s.indexChange(ctx, change.Path)
		case domain.ChangeDeleted:
			s.removeChange(ctx, change.Path)
		case domain.ChangeRenamed:
			s.removeChange(ctx, change.OldPath)
			s.indexChange(ctx, change.Path)
		}
	}
}

func (s *WatchService) indexChange(ctx context.Context, path string) {
	result, err := s.indexer.IndexFile(ctx, path)
	if err != nil {
		logger.Warn("Index %s: %v", path, err)
		return
	}
	if !result.Success {
		logger.Warn("Index %s failed: %v", result.Path, result.Errors)
	}
}

func (s *WatchService) removeChange(ctx context.Context, path string) {
	result, err := s.indexer.RemoveFile(ctx, path)
	if err != nil {
		logger.Warn("Remove %s: %v", path, err)
		return
	}
	if !result.Success {
		logger.Warn("Remove %s failed: %v", result.Path, result.Errors)
	}
}
