// Package events defines the domain events raised by mind map
// aggregates. Events record something that has already happened; the
// application layer collects them after each command for observers.
package events

import (
	"time"

	"github.com/shalles/web-mind/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Map Events

// MapCreated is raised when a new mind map is created.
type MapCreated struct {
	BaseEvent
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	RootID string `json:"root_id"`
}

// NewMapCreated creates a MapCreated event.
func NewMapCreated(mapID, userID, name, rootID string, timestamp time.Time) MapCreated {
	return MapCreated{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "map.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID: userID,
		Name:   name,
		RootID: rootID,
	}
}

// MapRestored is raised when a map's whole state is replaced, by undo,
// redo, or snapshot import.
type MapRestored struct {
	BaseEvent
	Reason string `json:"reason"`
}

// NewMapRestored creates a MapRestored event.
func NewMapRestored(mapID, reason string, timestamp time.Time) MapRestored {
	return MapRestored{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "map.restored",
			Timestamp:   timestamp,
			Version:     1,
		},
		Reason: reason,
	}
}

// Node Events

// NodeAdded is raised when a node joins the tree.
type NodeAdded struct {
	BaseEvent
	NodeID    valueobjects.NodeID    `json:"node_id"`
	ParentID  valueobjects.NodeID    `json:"parent_id"`
	Direction valueobjects.Direction `json:"direction"`
}

// NewNodeAdded creates a NodeAdded event.
func NewNodeAdded(mapID string, nodeID, parentID valueobjects.NodeID, direction valueobjects.Direction, timestamp time.Time) NodeAdded {
	return NodeAdded{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "node.added",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:    nodeID,
		ParentID:  parentID,
		Direction: direction,
	}
}

// NodeDeleted is raised when a node and its subtree are removed.
type NodeDeleted struct {
	BaseEvent
	NodeID               valueobjects.NodeID `json:"node_id"`
	RemovedNodes         int                 `json:"removed_nodes"`
	RemovedRelationships int                 `json:"removed_relationships"`
}

// NewNodeDeleted creates a NodeDeleted event.
func NewNodeDeleted(mapID string, nodeID valueobjects.NodeID, removedNodes, removedRelationships int, timestamp time.Time) NodeDeleted {
	return NodeDeleted{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "node.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:               nodeID,
		RemovedNodes:         removedNodes,
		RemovedRelationships: removedRelationships,
	}
}

// NodeContentUpdated is raised when a node's content changes.
type NodeContentUpdated struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
}

// NewNodeContentUpdated creates a NodeContentUpdated event.
func NewNodeContentUpdated(mapID string, nodeID valueobjects.NodeID, timestamp time.Time) NodeContentUpdated {
	return NodeContentUpdated{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "node.content_updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID: nodeID,
	}
}

// NodeStyleUpdated is raised when a style patch is merged into a node.
type NodeStyleUpdated struct {
	BaseEvent
	NodeID valueobjects.NodeID `json:"node_id"`
}

// NewNodeStyleUpdated creates a NodeStyleUpdated event.
func NewNodeStyleUpdated(mapID string, nodeID valueobjects.NodeID, timestamp time.Time) NodeStyleUpdated {
	return NodeStyleUpdated{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "node.style_updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID: nodeID,
	}
}

// NodeMoved is raised when a node is moved to a new canvas position.
type NodeMoved struct {
	BaseEvent
	NodeID      valueobjects.NodeID   `json:"node_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewNodeMoved creates a NodeMoved event.
func NewNodeMoved(mapID string, nodeID valueobjects.NodeID, oldPos, newPos valueobjects.Position, timestamp time.Time) NodeMoved {
	return NodeMoved{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "node.moved",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:      nodeID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// NodeExpansionToggled is raised when a subtree is collapsed or expanded.
type NodeExpansionToggled struct {
	BaseEvent
	NodeID   valueobjects.NodeID `json:"node_id"`
	Expanded bool                `json:"expanded"`
}

// NewNodeExpansionToggled creates a NodeExpansionToggled event.
func NewNodeExpansionToggled(mapID string, nodeID valueobjects.NodeID, expanded bool, timestamp time.Time) NodeExpansionToggled {
	return NodeExpansionToggled{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "node.expansion_toggled",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:   nodeID,
		Expanded: expanded,
	}
}

// NodeReparented is raised when a node moves to a new parent.
type NodeReparented struct {
	BaseEvent
	NodeID      valueobjects.NodeID `json:"node_id"`
	OldParentID valueobjects.NodeID `json:"old_parent_id"`
	NewParentID valueobjects.NodeID `json:"new_parent_id"`
}

// NewNodeReparented creates a NodeReparented event.
func NewNodeReparented(mapID string, nodeID, oldParentID, newParentID valueobjects.NodeID, timestamp time.Time) NodeReparented {
	return NodeReparented{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "node.reparented",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:      nodeID,
		OldParentID: oldParentID,
		NewParentID: newParentID,
	}
}

// SiblingReordered is raised when a node changes position among its
// siblings.
type SiblingReordered struct {
	BaseEvent
	NodeID   valueobjects.NodeID `json:"node_id"`
	ParentID valueobjects.NodeID `json:"parent_id"`
	OldIndex int                 `json:"old_index"`
	NewIndex int                 `json:"new_index"`
}

// NewSiblingReordered creates a SiblingReordered event.
func NewSiblingReordered(mapID string, nodeID, parentID valueobjects.NodeID, oldIndex, newIndex int, timestamp time.Time) SiblingReordered {
	return SiblingReordered{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "node.sibling_reordered",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:   nodeID,
		ParentID: parentID,
		OldIndex: oldIndex,
		NewIndex: newIndex,
	}
}

// Relationship Events

// NodesConnected is raised when a cross-branch relationship is created.
type NodesConnected struct {
	BaseEvent
	RelationshipID valueobjects.RelationshipID `json:"relationship_id"`
	SourceID       valueobjects.NodeID         `json:"source_id"`
	TargetID       valueobjects.NodeID         `json:"target_id"`
	Label          string                      `json:"label"`
}

// NewNodesConnected creates a NodesConnected event.
func NewNodesConnected(mapID string, relID valueobjects.RelationshipID, sourceID, targetID valueobjects.NodeID, label string, timestamp time.Time) NodesConnected {
	return NodesConnected{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "nodes.connected",
			Timestamp:   timestamp,
			Version:     1,
		},
		RelationshipID: relID,
		SourceID:       sourceID,
		TargetID:       targetID,
		Label:          label,
	}
}

// NodesDisconnected is raised when a cross-branch relationship is removed.
type NodesDisconnected struct {
	BaseEvent
	RelationshipID valueobjects.RelationshipID `json:"relationship_id"`
	SourceID       valueobjects.NodeID         `json:"source_id"`
	TargetID       valueobjects.NodeID         `json:"target_id"`
}

// NewNodesDisconnected creates a NodesDisconnected event.
func NewNodesDisconnected(mapID string, relID valueobjects.RelationshipID, sourceID, targetID valueobjects.NodeID, timestamp time.Time) NodesDisconnected {
	return NodesDisconnected{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "nodes.disconnected",
			Timestamp:   timestamp,
			Version:     1,
		},
		RelationshipID: relID,
		SourceID:       sourceID,
		TargetID:       targetID,
	}
}

// RelationshipUpdated is raised when a relationship's label or style
// changes.
type RelationshipUpdated struct {
	BaseEvent
	RelationshipID valueobjects.RelationshipID `json:"relationship_id"`
}

// NewRelationshipUpdated creates a RelationshipUpdated event.
func NewRelationshipUpdated(mapID string, relID valueobjects.RelationshipID, timestamp time.Time) RelationshipUpdated {
	return RelationshipUpdated{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "relationship.updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		RelationshipID: relID,
	}
}
