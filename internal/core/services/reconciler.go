package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure Reconciler implements the interface.
var _ driving.ReconcileOrchestrator = (*Reconciler)(nil)

// timestampDrift is how far a file's last-write time may sit from the
// stored record before the file counts as modified. Filesystems round
// mtimes differently, so exact comparison would reindex constantly.
const timestampDrift = time.Second

// historyRetention is how many reconcile runs are kept per tenant.
const historyRetention = 100

// Reconciler heals drift between the filesystem and the repository.
// It is the crash-recovery path: no change queue is persisted anywhere,
// so a restart converges purely by scanning and diffing.
type Reconciler struct {
	root      string
	tenantKey string
	filter    *pathFilter
	indexer   driving.IndexService
	docStore  driven.DocumentStore
	history   driven.ReconcileHistoryStore
	gate      *Gate
}

// NewReconciler creates a reconciler for documents under root.
// The gate must be the same instance the watch engine dispatches
// through; reconciliation and batch indexing are mutually exclusive.
func NewReconciler(
	root string,
	tenantKey string,
	include, exclude []string,
	indexer driving.IndexService,
	docStore driven.DocumentStore,
	history driven.ReconcileHistoryStore,
	gate *Gate,
) *Reconciler {
	return &Reconciler{
		root:      root,
		tenantKey: tenantKey,
		filter:    newPathFilter(include, exclude),
		indexer:   indexer,
		docStore:  docStore,
		history:   history,
		gate:      gate,
	}
}

// Plan scans the root and diffs it against stored state. It performs
// no writes; callers apply the returned actions.
func (s *Reconciler) Plan(ctx context.Context) (*domain.ReconcileReport, error) {
	start := time.Now()
	report := &domain.ReconcileReport{Root: s.root, StartedAt: start}

	logger.Section("Reconcile Plan")
	logger.Debug("Scanning %s", s.root)

	onDisk, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	report.ScannedFiles = len(onDisk)

	records, err := s.docStore.GetAllForTenant(ctx, s.tenantKey)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	stored := make(map[string]domain.Document, len(records))
	for _, rec := range records {
		stored[rec.Path] = rec
	}

	for _, rel := range sortedPaths(onDisk) {
		rec, ok := stored[rel]
		switch {
		case !ok:
			report.NewCount++
			report.Actions = append(report.Actions, domain.ReconcileAction{
				Path: absPath(s.root, rel),
				Op:   domain.ReconcileIndex,
			})
		case drifted(onDisk[rel], rec.ModifiedAt):
			report.ModifiedCount++
			report.Actions = append(report.Actions, domain.ReconcileAction{
				Path: absPath(s.root, rel),
				Op:   domain.ReconcileReindex,
			})
		}
	}

	deleted := make([]string, 0)
	for rel := range stored {
		if _, ok := onDisk[rel]; !ok {
			deleted = append(deleted, rel)
		}
	}
	sort.Strings(deleted)
	for _, rel := range deleted {
		report.DeletedCount++
		report.Actions = append(report.Actions, domain.ReconcileAction{
			Path: absPath(s.root, rel),
			Op:   domain.ReconcileRemove,
		})
	}

	report.Duration = time.Since(start)
	logger.Info("Drift: %d new, %d modified, %d deleted (%d files scanned)",
		report.NewCount, report.ModifiedCount, report.DeletedCount, report.ScannedFiles)

	return report, nil
}

// scan enumerates on-disk files passing the filter with their
// last-write timestamps. An unreadable entry is logged and skipped so
// one bad file never blocks detection of all other drift.
func (s *Reconciler) scan(ctx context.Context) (map[string]time.Time, error) {
	onDisk := make(map[string]time.Time)

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logger.Warn("Scan skipping %s: %v", p, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, relErr := canonicalPath(s.root, p)
		if relErr != nil || !s.filter.Match(rel) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			logger.Warn("Scan skipping %s: %v", p, infoErr)
			return nil
		}
		onDisk[rel] = info.ModTime()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}

	return onDisk, nil
}

// Apply executes a plan's actions through the indexing pipeline.
// Per-file failures are recorded in their results; cancellation is
// honoured between documents.
func (s *Reconciler) Apply(ctx context.Context, report *domain.ReconcileReport) ([]domain.IndexResult, error) {
	results := make([]domain.IndexResult, 0, len(report.Actions))

	for _, action := range report.Actions {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		switch action.Op {
		case domain.ReconcileIndex, domain.ReconcileReindex:
			result, err := s.indexer.IndexFile(ctx, action.Path)
			if result != nil {
				results = append(results, *result)
			}
			if err != nil && !errors.Is(err, domain.ErrVetoed) {
				return results, err
			}

		case domain.ReconcileRemove:
			result, err := s.indexer.RemoveFile(ctx, action.Path)
			if result != nil {
				results = append(results, toIndexResult(result))
			}
			if err != nil && !errors.Is(err, domain.ErrVetoed) {
				return results, err
			}
		}
	}

	return results, nil
}

// Run plans, applies, and records the run in history. It claims the
// dispatch gate; domain.ErrIndexBusy is returned when another batch
// holds it.
func (s *Reconciler) Run(ctx context.Context) (*domain.ReconcileReport, error) {
	if !s.gate.TryAcquire() {
		return nil, domain.ErrIndexBusy
	}
	defer s.gate.Release()

	return s.run(ctx)
}

// RunAsync triggers a run in the background when the gate is free.
// A false return means the trigger was dropped, not queued; the next
// scheduled run picks up whatever this one would have done.
func (s *Reconciler) RunAsync(ctx context.Context) bool {
	if !s.gate.TryAcquire() {
		logger.Debug("Reconcile trigger dropped: batch in progress")
		return false
	}

	go func() {
		defer s.gate.Release()
		if _, err := s.run(ctx); err != nil {
			logger.Warn("Background reconcile: %v", err)
		}
	}()

	return true
}

// run executes one gate-held reconcile pass.
func (s *Reconciler) run(ctx context.Context) (*domain.ReconcileReport, error) {
	run := &domain.ReconcileRun{
		ID:        uuid.NewString(),
		TenantKey: s.tenantKey,
		StartedAt: time.Now(),
		Success:   true,
	}

	report, err := s.Plan(ctx)
	if err != nil {
		run.Success = false
		run.Error = err.Error()
		run.EndedAt = time.Now()
		s.record(ctx, run)
		return nil, err
	}

	run.NewCount = report.NewCount
	run.ModifiedCount = report.ModifiedCount
	run.DeletedCount = report.DeletedCount

	results, applyErr := s.Apply(ctx, report)
	run.ActionsApplied = len(results)
	if applyErr != nil {
		run.Success = false
		run.Error = applyErr.Error()
	}
	run.EndedAt = time.Now()

	s.record(ctx, run)
	return report, applyErr
}

// record persists the run, tolerating history-store failures.
func (s *Reconciler) record(ctx context.Context, run *domain.ReconcileRun) {
	if s.history == nil {
		return
	}
	if err := s.history.RecordRun(ctx, run); err != nil {
		logger.Warn("Record reconcile run: %v", err)
		return
	}
	if err := s.history.PruneRuns(ctx, historyRetention); err != nil {
		logger.Warn("Prune reconcile history: %v", err)
	}
}

// drifted reports whether two timestamps differ beyond the tolerance.
func drifted(onDisk, stored time.Time) bool {
	delta := onDisk.Sub(stored)
	if delta < 0 {
		delta = -delta
	}
	return delta > timestampDrift
}

// toIndexResult folds a removal outcome into the batch result shape.
func toIndexResult(r *domain.RemoveResult) domain.IndexResult {
	return domain.IndexResult{
		Path:     r.Path,
		Success:  r.Success,
		Errors:   r.Errors,
		Warnings: r.Warnings,
	}
}

// sortedPaths returns map keys in deterministic order.
func sortedPaths(m map[string]time.Time) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
