package ports

import (
	"context"

	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/domain/events"
)

// MindMapRepository defines the interface for mind map persistence.
// This is a port in hexagonal architecture - the application layer does
// not know which backend sits behind it.
type MindMapRepository interface {
	// Save persists a mind map (create or update)
	Save(ctx context.Context, m *aggregates.MindMap) error

	// GetByID retrieves a mind map by its ID
	GetByID(ctx context.Context, id aggregates.MapID) (*aggregates.MindMap, error)

	// GetByUserID retrieves all mind maps owned by a user
	GetByUserID(ctx context.Context, userID string) ([]*aggregates.MindMap, error)

	// Delete removes a mind map and everything in it
	Delete(ctx context.Context, id aggregates.MapID) error

	// Version reports the persisted version of a map without handing out
	// the aggregate. Read caches key their entries on it.
	Version(ctx context.Context, mapID string) (int64, error)
}

// EventStore defines the interface for domain event persistence
type EventStore interface {
	// SaveEvents appends domain events to the store
	SaveEvents(ctx context.Context, evts []events.DomainEvent) error

	// GetEvents retrieves all events recorded for an aggregate, oldest first
	GetEvents(ctx context.Context, aggregateID string) ([]events.DomainEvent, error)

	// GetEventsByType retrieves the most recent events of one type
	GetEventsByType(ctx context.Context, eventType string, limit int) ([]events.DomainEvent, error)

	// DeleteEvents removes all events for an aggregate
	DeleteEvents(ctx context.Context, aggregateID string) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, evts []events.DomainEvent) error
}

// EventBus extends EventPublisher with subscription management
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for an event type
	Subscribe(eventType string, handler EventHandler) error

	// Unsubscribe removes a handler
	Unsubscribe(eventType string, handler EventHandler) error
}

// EventHandler defines the interface for handling domain events
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event events.DomainEvent) error

	// CanHandle checks if this handler can process the event
	CanHandle(eventType string) bool
}

// Cache defines the interface for caching query results
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
