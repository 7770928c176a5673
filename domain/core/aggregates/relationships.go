package aggregates

import (
	"sort"

	"github.com/shalles/web-mind/domain/core/entities"
	"github.com/shalles/web-mind/domain/core/valueobjects"
	"github.com/shalles/web-mind/domain/events"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// ConnectNodes creates a labeled cross-branch relationship between two
// existing nodes. Duplicates over the same directed pair are rejected
// unless the configuration allows them.
func (m *MindMap) ConnectNodes(sourceID, targetID valueobjects.NodeID, label string) (*entities.Relationship, error) {
	if !m.HasNode(sourceID) {
		return nil, pkgerrors.ErrNodeNotFound(sourceID.String())
	}
	if !m.HasNode(targetID) {
		return nil, pkgerrors.ErrNodeNotFound(targetID.String())
	}

	if !m.cfg.AllowDuplicateRelationships {
		for _, rel := range m.relationships {
			if rel.Connects(sourceID, targetID) {
				return nil, pkgerrors.ErrDuplicateRelationship(sourceID.String(), targetID.String())
			}
		}
	}

	if len(m.relationships) >= m.cfg.MaxRelationshipsPerMap {
		return nil, pkgerrors.ErrRelationshipLimit(m.cfg.MaxRelationshipsPerMap)
	}

	rel, err := entities.NewRelationshipWithConfig(sourceID, targetID, label, m.cfg)
	if err != nil {
		return nil, err
	}

	m.relationships[rel.ID()] = rel
	m.metadata.RelationshipCount++
	m.touch()

	m.addEvent(events.NewNodesConnected(m.id.String(), rel.ID(), sourceID, targetID, label, m.updatedAt))

	return rel, nil
}

// GetRelationship retrieves a relationship by ID.
func (m *MindMap) GetRelationship(relID valueobjects.RelationshipID) (*entities.Relationship, error) {
	rel, exists := m.relationships[relID]
	if !exists {
		return nil, pkgerrors.ErrRelationshipNotFound(relID.String())
	}
	return rel, nil
}

// HasRelationship checks whether a relationship exists.
func (m *MindMap) HasRelationship(relID valueobjects.RelationshipID) bool {
	_, exists := m.relationships[relID]
	return exists
}

// RelationshipCount returns the number of relationships.
func (m *MindMap) RelationshipCount() int {
	return len(m.relationships)
}

// Relationships returns all relationships ordered by ID. The order is
// deterministic.
func (m *MindMap) Relationships() []*entities.Relationship {
	rels := make([]*entities.Relationship, 0, len(m.relationships))
	for _, rel := range m.relationships {
		rels = append(rels, rel)
	}
	sort.Slice(rels, func(i, j int) bool {
		return rels[i].ID().String() < rels[j].ID().String()
	})
	return rels
}

// RelationshipsTouching returns the relationships with either endpoint
// at the given node, ordered by ID.
func (m *MindMap) RelationshipsTouching(nodeID valueobjects.NodeID) []*entities.Relationship {
	touching := []*entities.Relationship{}
	for _, rel := range m.relationships {
		if rel.Touches(nodeID) {
			touching = append(touching, rel)
		}
	}
	sort.Slice(touching, func(i, j int) bool {
		return touching[i].ID().String() < touching[j].ID().String()
	})
	return touching
}

// UpdateRelationship changes a relationship's label and/or merges a
// style patch. A nil label leaves it unchanged.
func (m *MindMap) UpdateRelationship(relID valueobjects.RelationshipID, label *string, stylePatch valueobjects.Style) error {
	rel, err := m.GetRelationship(relID)
	if err != nil {
		return err
	}
	if label == nil && len(stylePatch) == 0 {
		return nil
	}

	if label != nil {
		rel.UpdateLabel(*label)
	}
	if len(stylePatch) > 0 {
		rel.MergeStyle(stylePatch)
	}

	m.touch()
	m.addEvent(events.NewRelationshipUpdated(m.id.String(), relID, m.updatedAt))
	return nil
}

// DisconnectNodes removes a relationship. The nodes themselves are
// untouched.
func (m *MindMap) DisconnectNodes(relID valueobjects.RelationshipID) error {
	rel, err := m.GetRelationship(relID)
	if err != nil {
		return err
	}

	delete(m.relationships, relID)
	m.metadata.RelationshipCount--
	m.touch()

	m.addEvent(events.NewNodesDisconnected(m.id.String(), relID, rel.SourceID(), rel.TargetID(), m.updatedAt))
	return nil
}
