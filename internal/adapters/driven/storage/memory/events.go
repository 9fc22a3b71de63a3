package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure EventRecorder implements the interface.
var _ driven.EventPublisher = (*EventRecorder)(nil)

// EventRecorder is an in-memory implementation of driven.EventPublisher
// that records every published event for inspection in tests.
type EventRecorder struct {
	mu         sync.Mutex
	Superseded []domain.SupersededEvent
	Promotions []domain.PromotionChangedEvent
}

// NewEventRecorder creates a new in-memory event recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// PublishSuperseded records a supersession event.
func (r *EventRecorder) PublishSuperseded(_ context.Context, event domain.SupersededEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Superseded = append(r.Superseded, event)
	return nil
}

// PublishPromotionChanged records a promotion change event.
func (r *EventRecorder) PublishPromotionChanged(_ context.Context, event domain.PromotionChangedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Promotions = append(r.Promotions, event)
	return nil
}

// SupersededEvents returns a copy of recorded supersession events.
func (r *EventRecorder) SupersededEvents() []domain.SupersededEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]domain.SupersededEvent, len(r.Superseded))
	copy(events, r.Superseded)
	return events
}

// PromotionEvents returns a copy of recorded promotion change events.
func (r *EventRecorder) PromotionEvents() []domain.PromotionChangedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]domain.PromotionChangedEvent, len(r.Promotions))
	copy(events, r.Promotions)
	return events
}
