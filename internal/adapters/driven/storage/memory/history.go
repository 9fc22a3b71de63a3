package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.ReconcileHistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.ReconcileHistoryStore.
type HistoryStore struct {
	mu   sync.RWMutex
	runs map[string][]domain.ReconcileRun
}

// NewHistoryStore creates a new in-memory reconcile history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		runs: make(map[string][]domain.ReconcileRun),
	}
}

// RecordRun logs a completed reconciliation run.
func (s *HistoryStore) RecordRun(_ context.Context, run *domain.ReconcileRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.TenantKey] = append(s.runs[run.TenantKey], *run)
	return nil
}

// LastRun returns the most recent run for a tenant.
func (s *HistoryStore) LastRun(_ context.Context, tenantKey string) (*domain.ReconcileRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := s.runs[tenantKey]
	if len(runs) == 0 {
		return nil, nil
	}
	latest := runs[0]
	for _, run := range runs[1:] {
		if run.StartedAt.After(latest.StartedAt) {
			latest = run
		}
	}
	return &latest, nil
}

// RecentRuns returns recent runs for a tenant, most recent first.
func (s *HistoryStore) RecentRuns(_ context.Context, tenantKey string, limit int) ([]domain.ReconcileRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.runs[tenantKey]
	runs := make([]domain.ReconcileRun, len(stored))
	copy(runs, stored)
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// PruneRuns keeps the most recent 'keep' runs per tenant.
func (s *HistoryStore) PruneRuns(_ context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for tenant, runs := range s.runs {
		if len(runs) <= keep {
			continue
		}
		sort.Slice(runs, func(i, j int) bool {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		})
		s.runs[tenant] = runs[:keep]
	}
	return nil
}
