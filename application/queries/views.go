// Package queries defines the read-side operations of the editor and
// the view DTOs they return.
package queries

import (
	"time"

	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/domain/core/entities"
)

// PositionView is a node position in the rendered plane.
type PositionView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ContentView is a node's displayable content.
type ContentView struct {
	Text  string `json:"text"`
	Note  string `json:"note,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Image string `json:"image,omitempty"`
}

// NodeView is the read model for one node.
type NodeView struct {
	ID          string                 `json:"id"`
	Content     ContentView            `json:"content"`
	ParentID    string                 `json:"parent_id,omitempty"`
	Children    []string               `json:"children"`
	Style       map[string]interface{} `json:"style,omitempty"`
	Position    PositionView           `json:"position"`
	Expanded    bool                   `json:"expanded"`
	Level       int                    `json:"level"`
	Direction   string                 `json:"direction"`
	RefID       string                 `json:"ref_id,omitempty"`
	IsReference bool                   `json:"is_reference,omitempty"`
}

// RelationshipView is the read model for one cross-branch
// relationship.
type RelationshipView struct {
	ID       string                 `json:"id"`
	SourceID string                 `json:"source_id"`
	TargetID string                 `json:"target_id"`
	Label    string                 `json:"label,omitempty"`
	Style    map[string]interface{} `json:"style,omitempty"`
}

// BuildNodeView maps a node entity onto its read model.
func BuildNodeView(node *entities.Node) NodeView {
	children := make([]string, 0, node.ChildCount())
	for _, childID := range node.Children() {
		children = append(children, childID.String())
	}

	view := NodeView{
		ID: node.ID().String(),
		Content: ContentView{
			Text:  node.Content().Text(),
			Note:  node.Content().Note(),
			Icon:  node.Content().Icon(),
			Image: node.Content().Image(),
		},
		Children:    children,
		Style:       node.Style(),
		Position:    PositionView{X: node.Position().X(), Y: node.Position().Y()},
		Expanded:    node.Expanded(),
		Level:       node.Level(),
		Direction:   node.Direction().String(),
		RefID:       node.RefID(),
		IsReference: node.IsReference(),
	}
	if !node.IsRoot() {
		view.ParentID = node.ParentID().String()
	}
	return view
}

// BuildRelationshipView maps a relationship entity onto its read
// model.
func BuildRelationshipView(rel *entities.Relationship) RelationshipView {
	return RelationshipView{
		ID:       rel.ID().String(),
		SourceID: rel.SourceID().String(),
		TargetID: rel.TargetID().String(),
		Label:    rel.Label(),
		Style:    rel.Style(),
	}
}

// MapSummary is the read model for one map in a listing.
type MapSummary struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	NodeCount int    `json:"node_count"`
	Version   int64  `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// BuildMapSummary maps an aggregate onto its listing read model.
func BuildMapSummary(m *aggregates.MindMap) MapSummary {
	return MapSummary{
		ID:        m.ID().String(),
		UserID:    m.UserID(),
		Name:      m.Name(),
		NodeCount: m.NodeCount(),
		Version:   m.Version(),
		CreatedAt: m.CreatedAt().Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt().Format(time.RFC3339),
	}
}
