package driven

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// ReconcileHistoryStore persists reconciliation run history for crash
// recovery diagnostics and scheduling decisions.
type ReconcileHistoryStore interface {
	// RecordRun logs a completed reconciliation run.
	RecordRun(ctx context.Context, run *domain.ReconcileRun) error

	// LastRun returns the most recent run for a tenant.
	// Returns nil and no error when no run was recorded yet.
	LastRun(ctx context.Context, tenantKey string) (*domain.ReconcileRun, error)

	// RecentRuns returns recent runs for a tenant, ordered by start time
	// descending (most recent first).
	RecentRuns(ctx context.Context, tenantKey string, limit int) ([]domain.ReconcileRun, error)

	// PruneRuns removes old runs beyond the retention limit.
	// Keeps the most recent 'keep' runs per tenant.
	PruneRuns(ctx context.Context, keep int) error
}
