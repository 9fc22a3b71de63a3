package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// defaultHistoryLimit caps History results when the caller passes no limit.
const defaultHistoryLimit = 10

// Scheduler triggers a reconciliation run on a fixed interval.
// It is a pure core service with no external control API.
type Scheduler struct {
	interval   time.Duration
	tenantKey  string
	reconciler driving.ReconcileOrchestrator
	history    driven.ReconcileHistoryStore

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. A non-positive interval falls back
// to the default reconcile interval.
func NewScheduler(
	interval time.Duration,
	tenantKey string,
	reconciler driving.ReconcileOrchestrator,
	history driven.ReconcileHistoryStore,
) *Scheduler {
	if interval <= 0 {
		interval = domain.DefaultReconcileInterval
	}
	return &Scheduler{
		interval:   interval,
		tenantKey:  tenantKey,
		reconciler: reconciler,
		history:    history,
	}
}

// Start begins the scheduler loop. A catch-up run fires immediately so
// drift accumulated while the process was down is repaired without
// waiting a full interval. This method blocks until Stop is called or
// the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.runReconcile(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.runReconcile(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for an in-flight run to complete
	s.wg.Wait()

	return nil
}

// History returns recent reconciliation runs, most recent first.
func (s *Scheduler) History(ctx context.Context, limit int) ([]domain.ReconcileRun, error) {
	if s.history == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.history.RecentRuns(ctx, s.tenantKey, limit)
}

// runReconcile executes a single reconciliation run. A run that lands
// while an indexing batch holds the gate is skipped; the next tick
// tries again.
func (s *Scheduler) runReconcile(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		report, err := s.reconciler.Run(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrIndexBusy) {
				return // Another batch is indexing; nothing lost
			}
			log.Printf("scheduler: reconcile failed: %v", err)
			return
		}
		if !report.InSync() {
			log.Printf("scheduler: reconciled %d drifted file(s) in %s",
				len(report.Actions), report.Duration.Round(time.Millisecond))
		}
	}()
}
