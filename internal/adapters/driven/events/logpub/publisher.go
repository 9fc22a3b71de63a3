// Package logpub publishes lifecycle events to the verbose log. It is the
// default publisher wiring; deployments that need real fan-out swap in
// their own driven.EventPublisher.
package logpub

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure Publisher implements the interface.
var _ driven.EventPublisher = (*Publisher)(nil)

// Publisher logs lifecycle events via the engine logger.
type Publisher struct{}

// NewPublisher creates a log-backed event publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishSuperseded logs a supersession event.
func (p *Publisher) PublishSuperseded(_ context.Context, event domain.SupersededEvent) error {
	logger.Info("document superseded: %s -> %s (tenant %s)",
		event.Path, event.SupersededBy, event.TenantKey)
	return nil
}

// PublishPromotionChanged logs a promotion level change.
func (p *Publisher) PublishPromotionChanged(_ context.Context, event domain.PromotionChangedEvent) error {
	logger.Info("promotion changed: %s %s -> %s (tenant %s)",
		event.Path, event.Before, event.After, event.TenantKey)
	return nil
}
