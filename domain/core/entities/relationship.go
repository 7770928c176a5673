package entities

import (
	"github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/domain/core/valueobjects"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// Relationship is a labeled cross-branch connection between two nodes.
// It lives outside the tree structure: deleting it never moves a node,
// and deleting either endpoint removes it.
type Relationship struct {
	id       valueobjects.RelationshipID
	sourceID valueobjects.NodeID
	targetID valueobjects.NodeID
	label    string
	style    valueobjects.Style
}

// NewRelationship creates a relationship validated against the default
// configuration.
func NewRelationship(sourceID, targetID valueobjects.NodeID, label string) (*Relationship, error) {
	return NewRelationshipWithConfig(sourceID, targetID, label, config.DefaultDomainConfig())
}

// NewRelationshipWithConfig creates a relationship validated against cfg.
func NewRelationshipWithConfig(sourceID, targetID valueobjects.NodeID, label string, cfg *config.DomainConfig) (*Relationship, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if sourceID.IsZero() || targetID.IsZero() {
		return nil, pkgerrors.NewValidationError("relationship endpoints cannot be empty")
	}

	if !cfg.AllowSelfRelationships && sourceID.Equals(targetID) {
		return nil, pkgerrors.ErrSelfRelationship(sourceID.String())
	}

	return &Relationship{
		id:       valueobjects.NewRelationshipID(),
		sourceID: sourceID,
		targetID: targetID,
		label:    label,
		style:    valueobjects.NewStyle(),
	}, nil
}

// ReconstructRelationship rebuilds a relationship from stored data.
func ReconstructRelationship(
	id valueobjects.RelationshipID,
	sourceID, targetID valueobjects.NodeID,
	label string,
	style valueobjects.Style,
) (*Relationship, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("relationship ID cannot be empty")
	}
	if sourceID.IsZero() || targetID.IsZero() {
		return nil, pkgerrors.NewValidationError("relationship endpoints cannot be empty")
	}

	return &Relationship{
		id:       id,
		sourceID: sourceID,
		targetID: targetID,
		label:    label,
		style:    style.Clone(),
	}, nil
}

// ID returns the relationship's unique identifier.
func (r *Relationship) ID() valueobjects.RelationshipID {
	return r.id
}

// SourceID returns the source endpoint.
func (r *Relationship) SourceID() valueobjects.NodeID {
	return r.sourceID
}

// TargetID returns the target endpoint.
func (r *Relationship) TargetID() valueobjects.NodeID {
	return r.targetID
}

// Label returns the relationship's label.
func (r *Relationship) Label() string {
	return r.label
}

// Style returns a copy of the relationship's style.
func (r *Relationship) Style() valueobjects.Style {
	return r.style.Clone()
}

// UpdateLabel replaces the relationship's label.
func (r *Relationship) UpdateLabel(label string) {
	r.label = label
}

// MergeStyle shallow-merges a patch into the relationship's style.
func (r *Relationship) MergeStyle(patch valueobjects.Style) {
	r.style = r.style.Merge(patch)
}

// Touches reports whether either endpoint is the given node.
func (r *Relationship) Touches(nodeID valueobjects.NodeID) bool {
	return r.sourceID.Equals(nodeID) || r.targetID.Equals(nodeID)
}

// Connects reports whether the relationship runs from source to target.
func (r *Relationship) Connects(sourceID, targetID valueobjects.NodeID) bool {
	return r.sourceID.Equals(sourceID) && r.targetID.Equals(targetID)
}

// Clone returns a deep copy of the relationship.
func (r *Relationship) Clone() *Relationship {
	return &Relationship{
		id:       r.id,
		sourceID: r.sourceID,
		targetID: r.targetID,
		label:    r.label,
		style:    r.style.Clone(),
	}
}
