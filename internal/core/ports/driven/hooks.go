package driven

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// HookDecision is a lifecycle hook's verdict on a pending operation.
type HookDecision struct {
	// Allow permits the operation to continue. A false value vetoes it.
	Allow bool

	// Reason explains a veto for logging and the index result.
	Reason string

	// Warnings are attached to the operation's result without
	// affecting the verdict.
	Warnings []string
}

// Accept returns a decision that lets the operation proceed.
func Accept(warnings ...string) HookDecision {
	return HookDecision{Allow: true, Warnings: warnings}
}

// Veto returns a decision that blocks the operation.
func Veto(reason string) HookDecision {
	return HookDecision{Allow: false, Reason: reason}
}

// LifecycleHooks observes and can veto document lifecycle operations.
// This is an optional port - when nil, all operations proceed.
type LifecycleHooks interface {
	// BeforeIndex runs after parsing and before persistence. A veto
	// aborts the index operation with domain.ErrVetoed.
	BeforeIndex(ctx context.Context, doc *domain.Document) (HookDecision, error)

	// AfterIndex runs after a document and its chunks were stored.
	AfterIndex(ctx context.Context, result *domain.IndexResult)

	// BeforeRemove runs before a document is deleted. A veto keeps the
	// stored document.
	BeforeRemove(ctx context.Context, doc *domain.Document) (HookDecision, error)

	// AfterRemove runs after a document was deleted.
	AfterRemove(ctx context.Context, result *domain.RemoveResult)
}
