package driven

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// EventPublisher fans out lifecycle events to interested consumers.
// This is an optional port - when nil, events are silently dropped.
type EventPublisher interface {
	// PublishSuperseded announces that a document became superseded.
	PublishSuperseded(ctx context.Context, event domain.SupersededEvent) error

	// PublishPromotionChanged announces a promotion level change.
	PublishPromotionChanged(ctx context.Context, event domain.PromotionChangedEvent) error
}
