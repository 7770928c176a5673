package memory

import (
	"context"
	"sync"

	"github.com/shalles/web-mind/application/ports"
	"github.com/shalles/web-mind/domain/events"
)

// EventStore is an in-memory, append-only ports.EventStore. Events are
// kept per aggregate in arrival order.
type EventStore struct {
	mu      sync.RWMutex
	byMap   map[string][]events.DomainEvent
	ordered []events.DomainEvent
}

// NewEventStore creates a new in-memory event store
func NewEventStore() *EventStore {
	return &EventStore{
		byMap: make(map[string][]events.DomainEvent),
	}
}

var _ ports.EventStore = (*EventStore)(nil)

// SaveEvents appends domain events to the store
func (s *EventStore) SaveEvents(ctx context.Context, evts []events.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, evt := range evts {
		s.byMap[evt.GetAggregateID()] = append(s.byMap[evt.GetAggregateID()], evt)
		s.ordered = append(s.ordered, evt)
	}
	return nil
}

// GetEvents retrieves all events recorded for an aggregate, oldest
// first.
func (s *EventStore) GetEvents(ctx context.Context, aggregateID string) ([]events.DomainEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.byMap[aggregateID]
	result := make([]events.DomainEvent, len(stored))
	copy(result, stored)
	return result, nil
}

// GetEventsByType retrieves the most recent events of one type.
func (s *EventStore) GetEventsByType(ctx context.Context, eventType string, limit int) ([]events.DomainEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []events.DomainEvent
	for i := len(s.ordered) - 1; i >= 0; i-- {
		if s.ordered[i].GetEventType() != eventType {
			continue
		}
		result = append(result, s.ordered[i])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// DeleteEvents removes all events for an aggregate
func (s *EventStore) DeleteEvents(ctx context.Context, aggregateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byMap, aggregateID)

	kept := s.ordered[:0]
	for _, evt := range s.ordered {
		if evt.GetAggregateID() != aggregateID {
			kept = append(kept, evt)
		}
	}
	s.ordered = kept
	return nil
}
