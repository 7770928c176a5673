// Package messaging provides the in-process event bus. Domain events
// published after each edit are fanned out to subscribers and appended
// to the event store.
package messaging

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/ports"
	"github.com/shalles/web-mind/domain/events"
)

// InProcEventBus is a synchronous, in-process ports.EventBus.
// Subscriber errors are logged, not propagated; publishing is
// best-effort by contract.
type InProcEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]ports.EventHandler
	store    ports.EventStore
	logger   *zap.Logger
}

// NewInProcEventBus creates a new in-process event bus. A nil store
// disables event persistence.
func NewInProcEventBus(store ports.EventStore, logger *zap.Logger) *InProcEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InProcEventBus{
		handlers: make(map[string][]ports.EventHandler),
		store:    store,
		logger:   logger,
	}
}

var _ ports.EventBus = (*InProcEventBus)(nil)

// Publish sends a single event
func (b *InProcEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	return b.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends multiple events
func (b *InProcEventBus) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	if b.store != nil {
		if err := b.store.SaveEvents(ctx, evts); err != nil {
			return err
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, evt := range evts {
		for _, handler := range b.handlers[evt.GetEventType()] {
			if !handler.CanHandle(evt.GetEventType()) {
				continue
			}
			if err := handler.Handle(ctx, evt); err != nil {
				b.logger.Warn("Event handler failed",
					zap.String("eventType", evt.GetEventType()),
					zap.String("aggregateID", evt.GetAggregateID()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler for an event type
func (b *InProcEventBus) Subscribe(eventType string, handler ports.EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Unsubscribe removes a handler
func (b *InProcEventBus) Unsubscribe(eventType string, handler ports.EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.handlers[eventType][:0]
	for _, h := range b.handlers[eventType] {
		if h != handler {
			kept = append(kept, h)
		}
	}
	b.handlers[eventType] = kept
	return nil
}
