package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// ReconcileOrchestrator detects and repairs drift between the filesystem
// and the document repository.
type ReconcileOrchestrator interface {
	// Plan scans the watched root and diffs it against stored state.
	// It performs no writes; a single unreadable file becomes a report
	// entry rather than a failure.
	Plan(ctx context.Context) (*domain.ReconcileReport, error)

	// Apply executes a plan's actions through the indexing pipeline.
	Apply(ctx context.Context, report *domain.ReconcileReport) ([]domain.IndexResult, error)

	// Run plans, applies, and records the run in history.
	Run(ctx context.Context) (*domain.ReconcileReport, error)

	// RunAsync triggers Run in the background when the indexing gate is
	// free. It reports whether a run was started; a false return means
	// another batch holds the gate and this trigger was dropped.
	RunAsync(ctx context.Context) bool
}
