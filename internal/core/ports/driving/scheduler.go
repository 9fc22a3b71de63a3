package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// Scheduler manages periodic background reconciliation.
type Scheduler interface {
	// Start begins the periodic reconcile loop.
	// Blocks until context is cancelled or an error occurs.
	Start(ctx context.Context) error

	// Stop gracefully stops the loop.
	Stop() error

	// History returns recent reconciliation runs, most recent first.
	History(ctx context.Context, limit int) ([]domain.ReconcileRun, error)
}
