// Package hooks provides lifecycle hook composition. The indexer takes a
// single driven.LifecycleHooks; Chain lets deployments stack several.
package hooks

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure both implementations satisfy the interface.
var (
	_ driven.LifecycleHooks = (*Chain)(nil)
	_ driven.LifecycleHooks = (*Noop)(nil)
)

// Chain runs hooks in registration order. The first veto stops the chain
// and wins; warnings from hooks that ran are kept either way. After-hooks
// always run on every link.
type Chain struct {
	links []driven.LifecycleHooks
}

// NewChain composes hooks into one. Nil links are skipped.
func NewChain(links ...driven.LifecycleHooks) *Chain {
	chain := &Chain{links: make([]driven.LifecycleHooks, 0, len(links))}
	for _, link := range links {
		if link != nil {
			chain.links = append(chain.links, link)
		}
	}
	return chain
}

// BeforeIndex asks each hook in order; a veto or error short-circuits.
func (c *Chain) BeforeIndex(ctx context.Context, doc *domain.Document) (driven.HookDecision, error) {
	return c.runBefore(ctx, doc, driven.LifecycleHooks.BeforeIndex)
}

// AfterIndex notifies every hook.
func (c *Chain) AfterIndex(ctx context.Context, result *domain.IndexResult) {
	for _, link := range c.links {
		link.AfterIndex(ctx, result)
	}
}

// BeforeRemove asks each hook in order; a veto or error short-circuits.
func (c *Chain) BeforeRemove(ctx context.Context, doc *domain.Document) (driven.HookDecision, error) {
	return c.runBefore(ctx, doc, driven.LifecycleHooks.BeforeRemove)
}

// AfterRemove notifies every hook.
func (c *Chain) AfterRemove(ctx context.Context, result *domain.RemoveResult) {
	for _, link := range c.links {
		link.AfterRemove(ctx, result)
	}
}

func (c *Chain) runBefore(
	ctx context.Context,
	doc *domain.Document,
	ask func(driven.LifecycleHooks, context.Context, *domain.Document) (driven.HookDecision, error),
) (driven.HookDecision, error) {
	var warnings []string
	for _, link := range c.links {
		decision, err := ask(link, ctx, doc)
		if err != nil {
			return driven.HookDecision{}, err
		}
		warnings = append(warnings, decision.Warnings...)
		if !decision.Allow {
			decision.Warnings = warnings
			return decision, nil
		}
	}
	return driven.Accept(warnings...), nil
}

// Noop allows every operation and observes nothing.
type Noop struct{}

// NewNoop creates a hook set that never vetoes.
func NewNoop() *Noop {
	return &Noop{}
}

// BeforeIndex allows the operation.
func (*Noop) BeforeIndex(context.Context, *domain.Document) (driven.HookDecision, error) {
	return driven.Accept(), nil
}

// AfterIndex does nothing.
func (*Noop) AfterIndex(context.Context, *domain.IndexResult) {}

// BeforeRemove allows the operation.
func (*Noop) BeforeRemove(context.Context, *domain.Document) (driven.HookDecision, error) {
	return driven.Accept(), nil
}

// AfterRemove does nothing.
func (*Noop) AfterRemove(context.Context, *domain.RemoveResult) {}
