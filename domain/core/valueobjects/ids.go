package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// NodeID is a value object identifying a node within a map.
// Value objects are immutable and have no identity beyond their value.
type NodeID struct {
	value string
}

// NewNodeID creates a new random NodeID.
func NewNodeID() NodeID {
	return NodeID{value: uuid.New().String()}
}

// NewNodeIDFromString creates a NodeID from an existing string. IDs from
// imported snapshots are opaque, so any non-empty string is accepted.
func NewNodeIDFromString(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	return NodeID{value: id}, nil
}

// String returns the string representation of the NodeID.
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal.
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value.
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler.
func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("NodeID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// RelationshipID is a value object identifying a cross-branch
// relationship within a map.
type RelationshipID struct {
	value string
}

// NewRelationshipID creates a new random RelationshipID.
func NewRelationshipID() RelationshipID {
	return RelationshipID{value: uuid.New().String()}
}

// NewRelationshipIDFromString creates a RelationshipID from an existing string.
func NewRelationshipIDFromString(id string) (RelationshipID, error) {
	if id == "" {
		return RelationshipID{}, errors.New("relationship ID cannot be empty")
	}
	return RelationshipID{value: id}, nil
}

// String returns the string representation of the RelationshipID.
func (id RelationshipID) String() string {
	return id.value
}

// Equals checks if two RelationshipIDs are equal.
func (id RelationshipID) Equals(other RelationshipID) bool {
	return id.value == other.value
}

// IsZero checks if the RelationshipID is the zero value.
func (id RelationshipID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler.
func (id RelationshipID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *RelationshipID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("RelationshipID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
