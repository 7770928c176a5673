package aggregates

import (
	"sort"

	"github.com/shalles/web-mind/domain/core/entities"
	"github.com/shalles/web-mind/domain/core/valueobjects"
	"github.com/shalles/web-mind/domain/events"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// PositionSnapshot is the serialized form of a canvas position.
type PositionSnapshot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeSnapshot is the serialized form of one node. The flat node list
// plus ordered children arrays carry the whole tree losslessly.
type NodeSnapshot struct {
	ID          string             `json:"id"`
	Content     string             `json:"content"`
	Note        string             `json:"note,omitempty"`
	Icon        string             `json:"icon,omitempty"`
	Image       string             `json:"image,omitempty"`
	ParentID    string             `json:"parentId,omitempty"`
	Children    []string           `json:"children"`
	Style       valueobjects.Style `json:"style,omitempty"`
	Position    PositionSnapshot   `json:"position"`
	Expanded    bool               `json:"expanded"`
	Level       int                `json:"level"`
	Direction   string             `json:"direction,omitempty"`
	RefID       string             `json:"refId,omitempty"`
	IsReference bool               `json:"isReference,omitempty"`
}

// RelationshipSnapshot is the serialized form of one relationship.
type RelationshipSnapshot struct {
	ID       string             `json:"id"`
	SourceID string             `json:"sourceId"`
	TargetID string             `json:"targetId"`
	Label    string             `json:"label,omitempty"`
	Style    valueobjects.Style `json:"style,omitempty"`
}

// MapSnapshot is the plain serializable state of a whole map: a flat
// node list and a flat relationship list. Nodes appear in depth-first
// pre-order from the root, relationships ordered by ID, so two
// snapshots of equal state are byte-for-byte identical once encoded.
type MapSnapshot struct {
	Nodes         []NodeSnapshot         `json:"nodes"`
	Relationships []RelationshipSnapshot `json:"relationships"`
}

// Snapshot captures the map's current state as a deep copy. Mutating
// the returned snapshot never affects the live map, which makes it safe
// to park on history stacks.
func (m *MindMap) Snapshot() *MapSnapshot {
	nodes := make([]NodeSnapshot, 0, len(m.nodes))
	for _, node := range m.NodesInTreeOrder() {
		content := node.Content()

		children := node.Children()
		childIDs := make([]string, len(children))
		for i, id := range children {
			childIDs[i] = id.String()
		}

		parentID := ""
		if !node.IsRoot() {
			parentID = node.ParentID().String()
		}

		nodes = append(nodes, NodeSnapshot{
			ID:          node.ID().String(),
			Content:     content.Text(),
			Note:        content.Note(),
			Icon:        content.Icon(),
			Image:       content.Image(),
			ParentID:    parentID,
			Children:    childIDs,
			Style:       node.Style(),
			Position:    PositionSnapshot{X: node.Position().X(), Y: node.Position().Y()},
			Expanded:    node.Expanded(),
			Level:       node.Level(),
			Direction:   node.Direction().String(),
			RefID:       node.RefID(),
			IsReference: node.IsReference(),
		})
	}

	rels := make([]RelationshipSnapshot, 0, len(m.relationships))
	for _, rel := range m.Relationships() {
		rels = append(rels, RelationshipSnapshot{
			ID:       rel.ID().String(),
			SourceID: rel.SourceID().String(),
			TargetID: rel.TargetID().String(),
			Label:    rel.Label(),
			Style:    rel.Style(),
		})
	}

	return &MapSnapshot{Nodes: nodes, Relationships: rels}
}

// RestoreSnapshot replaces the map's whole state with a snapshot. The
// snapshot is checked structurally first; on any failure the live state
// is left untouched. Reason tags the raised event ("undo", "redo",
// "import").
func (m *MindMap) RestoreSnapshot(snap *MapSnapshot, reason string) error {
	if err := m.applySnapshot(snap); err != nil {
		return err
	}
	if reason == "" {
		reason = "restore"
	}

	m.touch()
	m.addEvent(events.NewMapRestored(m.id.String(), reason, m.updatedAt))
	return nil
}

// applySnapshot validates a snapshot and swaps it in. State is built on
// the side and only assigned once every check passed.
func (m *MindMap) applySnapshot(snap *MapSnapshot) error {
	if snap == nil || len(snap.Nodes) == 0 {
		return pkgerrors.NewValidationError("snapshot must contain at least a root node")
	}

	byID := make(map[string]*NodeSnapshot, len(snap.Nodes))
	rootIdx := -1
	for i := range snap.Nodes {
		ns := &snap.Nodes[i]
		if ns.ID == "" {
			return pkgerrors.NewValidationError("snapshot node without ID")
		}
		if _, dup := byID[ns.ID]; dup {
			return pkgerrors.NewValidationError("duplicate node ID in snapshot").
				WithDetail("node_id", ns.ID)
		}
		byID[ns.ID] = ns
		if ns.ParentID == "" {
			if rootIdx >= 0 {
				return pkgerrors.NewValidationError("snapshot has more than one root")
			}
			rootIdx = i
		}
	}
	if rootIdx < 0 {
		return pkgerrors.NewValidationError("snapshot has no root node")
	}

	for i := range snap.Nodes {
		ns := &snap.Nodes[i]
		if ns.ParentID != "" {
			parent, ok := byID[ns.ParentID]
			if !ok {
				return pkgerrors.NewValidationError("snapshot node references missing parent").
					WithDetail("node_id", ns.ID).WithDetail("parent_id", ns.ParentID)
			}
			if !containsID(parent.Children, ns.ID) {
				return pkgerrors.NewValidationError("snapshot parent does not list node as child").
					WithDetail("node_id", ns.ID).WithDetail("parent_id", ns.ParentID)
			}
		}
		seen := make(map[string]bool, len(ns.Children))
		for _, childID := range ns.Children {
			child, ok := byID[childID]
			if !ok {
				return pkgerrors.NewValidationError("snapshot node references missing child").
					WithDetail("node_id", ns.ID).WithDetail("child_id", childID)
			}
			if child.ParentID != ns.ID {
				return pkgerrors.NewValidationError("snapshot child points to a different parent").
					WithDetail("node_id", ns.ID).WithDetail("child_id", childID)
			}
			if seen[childID] {
				return pkgerrors.NewValidationError("snapshot lists a child twice").
					WithDetail("node_id", ns.ID).WithDetail("child_id", childID)
			}
			seen[childID] = true
		}
	}

	// Reachability from the root covers every node exactly once in a
	// well-formed tree; a shortfall means a cycle or an orphan island.
	reachable := 0
	visited := make(map[string]bool, len(snap.Nodes))
	var walk func(id string)
	walk = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		reachable++
		for _, childID := range byID[id].Children {
			walk(childID)
		}
	}
	walk(snap.Nodes[rootIdx].ID)
	if reachable != len(snap.Nodes) {
		return pkgerrors.NewValidationError("snapshot nodes are not a single tree").
			WithDetail("reachable", reachable).WithDetail("total", len(snap.Nodes))
	}

	for i := range snap.Relationships {
		rs := &snap.Relationships[i]
		if rs.ID == "" {
			return pkgerrors.NewValidationError("snapshot relationship without ID")
		}
		if _, ok := byID[rs.SourceID]; !ok {
			return pkgerrors.NewValidationError("snapshot relationship references missing source").
				WithDetail("relationship_id", rs.ID).WithDetail("source_id", rs.SourceID)
		}
		if _, ok := byID[rs.TargetID]; !ok {
			return pkgerrors.NewValidationError("snapshot relationship references missing target").
				WithDetail("relationship_id", rs.ID).WithDetail("target_id", rs.TargetID)
		}
	}

	nodes := make(map[valueobjects.NodeID]*entities.Node, len(snap.Nodes))
	var rootID valueobjects.NodeID
	for i := range snap.Nodes {
		node, err := reconstructFromSnapshot(&snap.Nodes[i])
		if err != nil {
			return err
		}
		nodes[node.ID()] = node
		if node.IsRoot() {
			rootID = node.ID()
		}
	}

	// Levels are derived from the tree shape; recompute so the
	// level(child) = level(parent)+1 invariant holds even for hand-made
	// imports.
	normalizeLevels(nodes, rootID)

	rels := make(map[valueobjects.RelationshipID]*entities.Relationship, len(snap.Relationships))
	for i := range snap.Relationships {
		rel, err := reconstructRelationshipFromSnapshot(&snap.Relationships[i])
		if err != nil {
			return err
		}
		if _, dup := rels[rel.ID()]; dup {
			return pkgerrors.NewValidationError("duplicate relationship ID in snapshot").
				WithDetail("relationship_id", rel.ID().String())
		}
		rels[rel.ID()] = rel
	}

	m.rootID = rootID
	m.nodes = nodes
	m.relationships = rels
	m.metadata = MapMetadata{
		NodeCount:         len(nodes),
		RelationshipCount: len(rels),
	}

	return nil
}

func reconstructFromSnapshot(ns *NodeSnapshot) (*entities.Node, error) {
	id, err := valueobjects.NewNodeIDFromString(ns.ID)
	if err != nil {
		return nil, err
	}

	var parentID valueobjects.NodeID
	if ns.ParentID != "" {
		parentID, err = valueobjects.NewNodeIDFromString(ns.ParentID)
		if err != nil {
			return nil, err
		}
	}

	children := make([]valueobjects.NodeID, len(ns.Children))
	for i, childID := range ns.Children {
		children[i], err = valueobjects.NewNodeIDFromString(childID)
		if err != nil {
			return nil, err
		}
	}

	content, err := valueobjects.NewNodeContent(ns.Content)
	if err != nil {
		return nil, err
	}
	content = content.WithNote(ns.Note).WithIcon(ns.Icon).WithImage(ns.Image)

	position, err := valueobjects.NewPosition(ns.Position.X, ns.Position.Y)
	if err != nil {
		return nil, err
	}

	return entities.ReconstructNode(
		id,
		content,
		parentID,
		children,
		ns.Style,
		position,
		ns.Expanded,
		ns.Level,
		valueobjects.Direction(ns.Direction),
		ns.RefID,
		ns.IsReference,
	)
}

func reconstructRelationshipFromSnapshot(rs *RelationshipSnapshot) (*entities.Relationship, error) {
	id, err := valueobjects.NewRelationshipIDFromString(rs.ID)
	if err != nil {
		return nil, err
	}
	sourceID, err := valueobjects.NewNodeIDFromString(rs.SourceID)
	if err != nil {
		return nil, err
	}
	targetID, err := valueobjects.NewNodeIDFromString(rs.TargetID)
	if err != nil {
		return nil, err
	}

	return entities.ReconstructRelationship(id, sourceID, targetID, rs.Label, rs.Style)
}

func normalizeLevels(nodes map[valueobjects.NodeID]*entities.Node, rootID valueobjects.NodeID) {
	visited := make(map[valueobjects.NodeID]bool, len(nodes))

	var walk func(id valueobjects.NodeID, level int)
	walk = func(id valueobjects.NodeID, level int) {
		node, exists := nodes[id]
		if !exists || visited[id] {
			return
		}
		visited[id] = true
		node.SetLevel(level)
		for _, childID := range node.Children() {
			walk(childID, level+1)
		}
	}
	walk(rootID, 0)
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Mutating the copy never affects the
// original, so clones are safe to park on history stacks.
func (s *MapSnapshot) Clone() *MapSnapshot {
	if s == nil {
		return nil
	}

	nodes := make([]NodeSnapshot, len(s.Nodes))
	for i, n := range s.Nodes {
		copied := n
		copied.Children = make([]string, len(n.Children))
		copy(copied.Children, n.Children)
		copied.Style = n.Style.Clone()
		nodes[i] = copied
	}

	rels := make([]RelationshipSnapshot, len(s.Relationships))
	for i, r := range s.Relationships {
		copied := r
		copied.Style = r.Style.Clone()
		rels[i] = copied
	}

	return &MapSnapshot{Nodes: nodes, Relationships: rels}
}

// SortedNodeIDs returns the snapshot's node IDs in lexical order.
// Handy for deterministic diffs in persistence and tests.
func (s *MapSnapshot) SortedNodeIDs() []string {
	ids := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		ids[i] = n.ID
	}
	sort.Strings(ids)
	return ids
}

// RootNode returns the snapshot's root node, or nil when malformed.
func (s *MapSnapshot) RootNode() *NodeSnapshot {
	for i := range s.Nodes {
		if s.Nodes[i].ParentID == "" {
			return &s.Nodes[i]
		}
	}
	return nil
}
