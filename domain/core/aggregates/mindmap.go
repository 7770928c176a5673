// Package aggregates contains the MindMap aggregate root. All tree
// mutations go through it so the single-root, level, and acyclicity
// invariants hold after every operation. Operations on invalid input
// return an error and leave the map untouched.
package aggregates

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/domain/core/entities"
	"github.com/shalles/web-mind/domain/core/valueobjects"
	"github.com/shalles/web-mind/domain/events"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// MapID represents a unique mind map identifier.
type MapID string

// NewMapID creates a new random MapID.
func NewMapID() MapID {
	return MapID(uuid.New().String())
}

// String returns the string representation.
func (id MapID) String() string {
	return string(id)
}

// MapMetadata contains map-level counters kept in lockstep with the
// node and relationship stores.
type MapMetadata struct {
	NodeCount         int
	RelationshipCount int
}

// MindMap is the aggregate root for one mind map. Nodes live in a flat
// store keyed by ID; the tree shape is carried by parent pointers and
// ordered child lists on the nodes themselves.
type MindMap struct {
	id            MapID
	userID        string
	name          string
	cfg           *config.DomainConfig
	rootID        valueobjects.NodeID
	nodes         map[valueobjects.NodeID]*entities.Node
	relationships map[valueobjects.RelationshipID]*entities.Relationship
	metadata      MapMetadata
	createdAt     time.Time
	updatedAt     time.Time
	version       int64
	events        []events.DomainEvent
}

// DeleteResult reports what a cascading node deletion removed.
type DeleteResult struct {
	RemovedNodeIDs         []valueobjects.NodeID
	RemovedRelationshipIDs []valueobjects.RelationshipID
}

// NewMindMap creates a mind map with a fresh root node. Empty name and
// root content fall back to the configured defaults.
func NewMindMap(userID, name, rootContent string, cfg *config.DomainConfig) (*MindMap, error) {
	return NewMindMapWithID(NewMapID(), userID, name, rootContent, cfg)
}

// NewMindMapWithID creates a mind map under a caller-minted ID, for
// flows that hand out the identifier before the aggregate exists.
func NewMindMapWithID(id MapID, userID, name, rootContent string, cfg *config.DomainConfig) (*MindMap, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("map ID cannot be empty")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if name == "" {
		name = cfg.DefaultMapName
	}
	if rootContent == "" {
		rootContent = cfg.DefaultRootContent
	}

	content, err := valueobjects.NewNodeContentWithConfig(rootContent, cfg)
	if err != nil {
		return nil, err
	}

	root := entities.NewNode(content)
	root.SetLevel(0)
	root.SetDirection(valueobjects.DirectionRight)

	now := time.Now()
	m := &MindMap{
		id:            id,
		userID:        userID,
		name:          name,
		cfg:           cfg,
		rootID:        root.ID(),
		nodes:         map[valueobjects.NodeID]*entities.Node{root.ID(): root},
		relationships: make(map[valueobjects.RelationshipID]*entities.Relationship),
		metadata:      MapMetadata{NodeCount: 1},
		createdAt:     now,
		updatedAt:     now,
		version:       1,
		events:        []events.DomainEvent{},
	}

	m.addEvent(events.NewMapCreated(m.id.String(), userID, name, root.ID().String(), now))

	return m, nil
}

// ReconstructMindMap rebuilds a mind map from stored data. The snapshot
// is validated and applied without raising events or bumping versions.
func ReconstructMindMap(
	id MapID,
	userID, name string,
	createdAt, updatedAt time.Time,
	version int64,
	snap *MapSnapshot,
	cfg *config.DomainConfig,
) (*MindMap, error) {
	if id == "" || userID == "" {
		return nil, pkgerrors.NewValidationError("map ID and userID are required")
	}
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if version < 1 {
		version = 1
	}

	m := &MindMap{
		id:            id,
		userID:        userID,
		name:          name,
		cfg:           cfg,
		nodes:         make(map[valueobjects.NodeID]*entities.Node),
		relationships: make(map[valueobjects.RelationshipID]*entities.Relationship),
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       version,
		events:        []events.DomainEvent{},
	}

	if err := m.applySnapshot(snap); err != nil {
		return nil, err
	}

	return m, nil
}

// ID returns the map's unique identifier.
func (m *MindMap) ID() MapID {
	return m.id
}

// UserID returns the owner's ID.
func (m *MindMap) UserID() string {
	return m.userID
}

// Name returns the map's name.
func (m *MindMap) Name() string {
	return m.name
}

// Rename changes the map's name.
func (m *MindMap) Rename(name string) error {
	if name == "" {
		return pkgerrors.NewValidationError("map name cannot be empty")
	}
	if name == m.name {
		return nil
	}
	m.name = name
	m.touch()
	return nil
}

// Config returns the effective domain configuration.
func (m *MindMap) Config() *config.DomainConfig {
	return m.cfg
}

// RootID returns the root node's ID.
func (m *MindMap) RootID() valueobjects.NodeID {
	return m.rootID
}

// Root returns the root node.
func (m *MindMap) Root() *entities.Node {
	return m.nodes[m.rootID]
}

// Version returns the map's version, bumped on every mutation.
func (m *MindMap) Version() int64 {
	return m.version
}

// CreatedAt returns when the map was created.
func (m *MindMap) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns when the map was last mutated.
func (m *MindMap) UpdatedAt() time.Time {
	return m.updatedAt
}

// NodeCount returns the number of nodes, root included.
func (m *MindMap) NodeCount() int {
	return len(m.nodes)
}

// Metadata returns the map-level counters.
func (m *MindMap) Metadata() MapMetadata {
	return m.metadata
}

// GetNode retrieves a node by ID.
func (m *MindMap) GetNode(nodeID valueobjects.NodeID) (*entities.Node, error) {
	node, exists := m.nodes[nodeID]
	if !exists {
		return nil, pkgerrors.ErrNodeNotFound(nodeID.String())
	}
	return node, nil
}

// HasNode checks whether a node exists.
func (m *MindMap) HasNode(nodeID valueobjects.NodeID) bool {
	_, exists := m.nodes[nodeID]
	return exists
}

// ChildrenOf resolves a node's children in sibling order.
func (m *MindMap) ChildrenOf(nodeID valueobjects.NodeID) ([]*entities.Node, error) {
	node, err := m.GetNode(nodeID)
	if err != nil {
		return nil, err
	}

	ids := node.Children()
	children := make([]*entities.Node, 0, len(ids))
	for _, id := range ids {
		if child, ok := m.nodes[id]; ok {
			children = append(children, child)
		}
	}
	return children, nil
}

// NodesInTreeOrder returns all nodes in depth-first pre-order from the
// root, following sibling order. The order is deterministic.
func (m *MindMap) NodesInTreeOrder() []*entities.Node {
	ordered := make([]*entities.Node, 0, len(m.nodes))
	for _, id := range m.collectSubtree(m.rootID) {
		ordered = append(ordered, m.nodes[id])
	}
	return ordered
}

// AddChild creates a node under a parent, at the end of its sibling
// order. The child inherits the parent's direction and the parent is
// expanded so the new node is visible.
func (m *MindMap) AddChild(parentID valueobjects.NodeID, content valueobjects.NodeContent) (*entities.Node, error) {
	parent, err := m.GetNode(parentID)
	if err != nil {
		return nil, err
	}

	direction := parent.Direction()
	if parent.IsRoot() {
		direction = valueobjects.DirectionRight
	} else if !direction.IsValid() {
		direction = valueobjects.DirectionLeft
	}

	return m.addChildInDirection(parent, content, direction)
}

// AddChildWithDirection creates a child on an explicit side. The side
// only applies to children of the root; deeper nodes always inherit
// their parent's direction.
func (m *MindMap) AddChildWithDirection(parentID valueobjects.NodeID, content valueobjects.NodeContent, direction valueobjects.Direction) (*entities.Node, error) {
	parent, err := m.GetNode(parentID)
	if err != nil {
		return nil, err
	}
	if !direction.IsValid() {
		return nil, pkgerrors.NewValidationError("direction must be \"left\" or \"right\"")
	}

	if !parent.IsRoot() {
		direction = parent.Direction()
		if !direction.IsValid() {
			direction = valueobjects.DirectionLeft
		}
	}

	return m.addChildInDirection(parent, content, direction)
}

func (m *MindMap) addChildInDirection(parent *entities.Node, content valueobjects.NodeContent, direction valueobjects.Direction) (*entities.Node, error) {
	if len(m.nodes) >= m.cfg.MaxNodesPerMap {
		return nil, pkgerrors.ErrNodeLimit(m.cfg.MaxNodesPerMap)
	}

	node := entities.NewNode(content)
	node.SetParent(parent.ID())
	node.SetLevel(parent.Level() + 1)
	node.SetDirection(direction)

	if err := parent.AppendChild(node.ID()); err != nil {
		return nil, err
	}
	parent.SetExpanded(true)

	m.nodes[node.ID()] = node
	m.metadata.NodeCount++
	m.touch()

	m.addEvent(events.NewNodeAdded(m.id.String(), node.ID(), parent.ID(), direction, m.updatedAt))

	return node, nil
}

// AddSibling creates a node immediately after an existing one in its
// parent's order, on the same side and level. The root has no siblings.
func (m *MindMap) AddSibling(nodeID valueobjects.NodeID, content valueobjects.NodeContent) (*entities.Node, error) {
	node, err := m.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	if node.IsRoot() {
		return nil, pkgerrors.ErrRootSibling(nodeID.String())
	}
	if len(m.nodes) >= m.cfg.MaxNodesPerMap {
		return nil, pkgerrors.ErrNodeLimit(m.cfg.MaxNodesPerMap)
	}

	parent, err := m.GetNode(node.ParentID())
	if err != nil {
		return nil, pkgerrors.NewInternalError("node's parent is missing", err)
	}

	sibling := entities.NewNode(content)
	sibling.SetParent(parent.ID())
	sibling.SetLevel(node.Level())
	sibling.SetDirection(node.Direction())

	if err := parent.InsertChildAfter(nodeID, sibling.ID()); err != nil {
		return nil, err
	}

	m.nodes[sibling.ID()] = sibling
	m.metadata.NodeCount++
	m.touch()

	m.addEvent(events.NewNodeAdded(m.id.String(), sibling.ID(), parent.ID(), sibling.Direction(), m.updatedAt))

	return sibling, nil
}

// AddReference creates a child node that mirrors another node in the
// map. The mirrored content is copied at creation time; the link is
// kept as an opaque ID.
func (m *MindMap) AddReference(parentID, targetID valueobjects.NodeID) (*entities.Node, error) {
	parent, err := m.GetNode(parentID)
	if err != nil {
		return nil, err
	}
	target, err := m.GetNode(targetID)
	if err != nil {
		return nil, err
	}
	if len(m.nodes) >= m.cfg.MaxNodesPerMap {
		return nil, pkgerrors.ErrNodeLimit(m.cfg.MaxNodesPerMap)
	}

	node, err := entities.NewReferenceNode(target.Content(), targetID.String())
	if err != nil {
		return nil, err
	}

	direction := parent.Direction()
	if parent.IsRoot() {
		direction = valueobjects.DirectionRight
	} else if !direction.IsValid() {
		direction = valueobjects.DirectionLeft
	}

	node.SetParent(parent.ID())
	node.SetLevel(parent.Level() + 1)
	node.SetDirection(direction)

	if err := parent.AppendChild(node.ID()); err != nil {
		return nil, err
	}
	parent.SetExpanded(true)

	m.nodes[node.ID()] = node
	m.metadata.NodeCount++
	m.touch()

	m.addEvent(events.NewNodeAdded(m.id.String(), node.ID(), parent.ID(), direction, m.updatedAt))

	return node, nil
}

// DeleteNode removes a node, its whole subtree, and every relationship
// touching any removed node. The root cannot be deleted.
func (m *MindMap) DeleteNode(nodeID valueobjects.NodeID) (*DeleteResult, error) {
	node, err := m.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	if node.IsRoot() {
		return nil, pkgerrors.ErrRootDelete(nodeID.String())
	}

	removed := m.collectSubtree(nodeID)
	removedSet := make(map[valueobjects.NodeID]bool, len(removed))
	for _, id := range removed {
		removedSet[id] = true
	}

	removedRels := []valueobjects.RelationshipID{}
	for relID, rel := range m.relationships {
		if removedSet[rel.SourceID()] || removedSet[rel.TargetID()] {
			removedRels = append(removedRels, relID)
		}
	}
	sort.Slice(removedRels, func(i, j int) bool {
		return removedRels[i].String() < removedRels[j].String()
	})
	for _, relID := range removedRels {
		delete(m.relationships, relID)
		m.metadata.RelationshipCount--
	}

	if parent, ok := m.nodes[node.ParentID()]; ok {
		if err := parent.RemoveChild(nodeID); err != nil {
			return nil, pkgerrors.NewInternalError("parent does not list node as child", err)
		}
	}

	for _, id := range removed {
		delete(m.nodes, id)
		m.metadata.NodeCount--
	}

	m.touch()
	m.addEvent(events.NewNodeDeleted(m.id.String(), nodeID, len(removed), len(removedRels), m.updatedAt))

	return &DeleteResult{
		RemovedNodeIDs:         removed,
		RemovedRelationshipIDs: removedRels,
	}, nil
}

// UpdateNodeContent replaces a node's content.
func (m *MindMap) UpdateNodeContent(nodeID valueobjects.NodeID, content valueobjects.NodeContent) error {
	node, err := m.GetNode(nodeID)
	if err != nil {
		return err
	}
	if content.Equals(node.Content()) {
		return nil
	}

	node.UpdateContent(content)
	m.touch()
	m.addEvent(events.NewNodeContentUpdated(m.id.String(), nodeID, m.updatedAt))
	return nil
}

// UpdateNodeStyle shallow-merges a style patch into a node. Keys absent
// from the patch keep their current values.
func (m *MindMap) UpdateNodeStyle(nodeID valueobjects.NodeID, patch valueobjects.Style) error {
	node, err := m.GetNode(nodeID)
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		return nil
	}

	node.MergeStyle(patch)
	m.touch()
	m.addEvent(events.NewNodeStyleUpdated(m.id.String(), nodeID, m.updatedAt))
	return nil
}

// ToggleNodeExpansion flips a node's collapsed state and returns the
// new state.
func (m *MindMap) ToggleNodeExpansion(nodeID valueobjects.NodeID) (bool, error) {
	node, err := m.GetNode(nodeID)
	if err != nil {
		return false, err
	}

	node.ToggleExpanded()
	m.touch()
	m.addEvent(events.NewNodeExpansionToggled(m.id.String(), nodeID, node.Expanded(), m.updatedAt))
	return node.Expanded(), nil
}

// SetNodePosition moves a node to an explicit canvas position.
func (m *MindMap) SetNodePosition(nodeID valueobjects.NodeID, position valueobjects.Position) error {
	node, err := m.GetNode(nodeID)
	if err != nil {
		return err
	}
	if position.Equals(node.Position()) {
		return nil
	}

	oldPos := node.Position()
	node.MoveTo(position)
	m.touch()
	m.addEvent(events.NewNodeMoved(m.id.String(), nodeID, oldPos, position, m.updatedAt))
	return nil
}

// ApplyLayout writes computed positions in one pass. Layout output is
// derived state, so no events are raised; the version still advances
// when any position actually changes, so version-keyed readers see
// fresh coordinates.
func (m *MindMap) ApplyLayout(positions map[valueobjects.NodeID]valueobjects.Position) error {
	for id := range positions {
		if !m.HasNode(id) {
			return pkgerrors.ErrNodeNotFound(id.String())
		}
	}

	changed := false
	for id, pos := range positions {
		node := m.nodes[id]
		if pos.Equals(node.Position()) {
			continue
		}
		node.MoveTo(pos)
		changed = true
	}
	if changed {
		m.touch()
	}
	return nil
}

// MoveSiblingUp swaps a node with its previous sibling. Returns false
// without change when the node is already first.
func (m *MindMap) MoveSiblingUp(nodeID valueobjects.NodeID) (bool, error) {
	return m.moveSibling(nodeID, -1)
}

// MoveSiblingDown swaps a node with its next sibling. Returns false
// without change when the node is already last.
func (m *MindMap) MoveSiblingDown(nodeID valueobjects.NodeID) (bool, error) {
	return m.moveSibling(nodeID, +1)
}

func (m *MindMap) moveSibling(nodeID valueobjects.NodeID, delta int) (bool, error) {
	node, err := m.GetNode(nodeID)
	if err != nil {
		return false, err
	}
	if node.IsRoot() {
		return false, pkgerrors.NewRootViolationError("root node has no siblings").
			WithCode(pkgerrors.CodeRootSibling).WithDetail("node_id", nodeID.String())
	}

	parent := m.nodes[node.ParentID()]
	idx := parent.ChildIndex(nodeID)
	newIdx := idx + delta
	if newIdx < 0 || newIdx >= parent.ChildCount() {
		return false, nil
	}

	if err := parent.ReorderChild(nodeID, newIdx); err != nil {
		return false, err
	}

	m.touch()
	m.addEvent(events.NewSiblingReordered(m.id.String(), nodeID, parent.ID(), idx, newIdx, m.updatedAt))
	return true, nil
}

// ReorderSibling moves a node to an explicit index among its siblings.
// Returns false without change when the node already sits there.
func (m *MindMap) ReorderSibling(nodeID valueobjects.NodeID, newIndex int) (bool, error) {
	node, err := m.GetNode(nodeID)
	if err != nil {
		return false, err
	}
	if node.IsRoot() {
		return false, pkgerrors.NewRootViolationError("root node has no siblings").
			WithCode(pkgerrors.CodeRootSibling).WithDetail("node_id", nodeID.String())
	}

	parent := m.nodes[node.ParentID()]
	if newIndex < 0 || newIndex >= parent.ChildCount() {
		return false, pkgerrors.NewValidationError("sibling index out of range").
			WithDetail("index", newIndex).
			WithDetail("sibling_count", parent.ChildCount())
	}

	oldIdx := parent.ChildIndex(nodeID)
	if oldIdx == newIndex {
		return false, nil
	}

	if err := parent.ReorderChild(nodeID, newIndex); err != nil {
		return false, err
	}

	m.touch()
	m.addEvent(events.NewSiblingReordered(m.id.String(), nodeID, parent.ID(), oldIdx, newIndex, m.updatedAt))
	return true, nil
}

// Reparent moves a node (with its subtree) under a new parent. The move
// is rejected when it would create a cycle; moving under the current
// parent is a no-op. The subtree adopts the new parent's side and its
// levels are recomputed; the new parent is expanded so the node stays
// visible.
func (m *MindMap) Reparent(nodeID, newParentID valueobjects.NodeID) error {
	node, err := m.GetNode(nodeID)
	if err != nil {
		return err
	}
	newParent, err := m.GetNode(newParentID)
	if err != nil {
		return err
	}
	if node.IsRoot() {
		return pkgerrors.ErrRootDrag(nodeID.String())
	}
	if nodeID.Equals(newParentID) || m.isDescendantOf(newParentID, nodeID) {
		return pkgerrors.ErrReparentCycle(nodeID.String(), newParentID.String())
	}
	if node.ParentID().Equals(newParentID) {
		return nil
	}

	oldParentID := node.ParentID()
	oldParent := m.nodes[oldParentID]
	if err := oldParent.RemoveChild(nodeID); err != nil {
		return pkgerrors.NewInternalError("parent does not list node as child", err)
	}

	if err := newParent.AppendChild(nodeID); err != nil {
		return err
	}
	node.SetParent(newParentID)

	direction := newParent.Direction()
	if newParent.IsRoot() {
		// Dropping onto the root keeps the node on its current side.
		direction = node.Direction()
		if !direction.IsValid() {
			direction = valueobjects.DirectionRight
		}
	}
	m.rebindSubtree(nodeID, newParent.Level()+1, direction)

	newParent.SetExpanded(true)
	m.touch()
	m.addEvent(events.NewNodeReparented(m.id.String(), nodeID, oldParentID, newParentID, m.updatedAt))
	return nil
}

// IsDescendantOf reports whether nodeID sits inside ancestorID's subtree.
func (m *MindMap) IsDescendantOf(nodeID, ancestorID valueobjects.NodeID) bool {
	return m.isDescendantOf(nodeID, ancestorID)
}

// Validate checks the aggregate's structural invariants: a single root
// at level zero, parent/child agreement, levels increasing by one,
// full reachability (which rules out cycles), and relationship
// endpoints that exist.
func (m *MindMap) Validate() error {
	ve := pkgerrors.NewValidationErrors()

	root, exists := m.nodes[m.rootID]
	if !exists {
		ve.Add("root", "root node missing from store")
		return ve.AsAppError()
	}
	if !root.IsRoot() {
		ve.Add("root", "root node has a parent")
	}
	if root.Level() != 0 {
		ve.Addf("root", "root level is %d, want 0", root.Level())
	}

	for id, node := range m.nodes {
		if node.IsRoot() && !id.Equals(m.rootID) {
			ve.Addf("nodes."+id.String(), "second root found")
		}
		if !node.IsRoot() {
			parent, ok := m.nodes[node.ParentID()]
			if !ok {
				ve.Addf("nodes."+id.String(), "parent %s does not exist", node.ParentID().String())
				continue
			}
			if parent.ChildIndex(id) < 0 {
				ve.Addf("nodes."+id.String(), "parent does not list node as child")
			}
			if node.Level() != parent.Level()+1 {
				ve.Addf("nodes."+id.String(), "level is %d, want %d", node.Level(), parent.Level()+1)
			}
			if !node.Direction().IsValid() {
				ve.Addf("nodes."+id.String(), "invalid direction %q", node.Direction().String())
			}
		}
		for _, childID := range node.Children() {
			child, ok := m.nodes[childID]
			if !ok {
				ve.Addf("nodes."+id.String(), "child %s does not exist", childID.String())
				continue
			}
			if !child.ParentID().Equals(id) {
				ve.Addf("nodes."+id.String(), "child %s points to a different parent", childID.String())
			}
		}
	}

	if reachable := len(m.collectSubtree(m.rootID)); reachable != len(m.nodes) {
		ve.Addf("tree", "%d of %d nodes reachable from root", reachable, len(m.nodes))
	}

	for relID, rel := range m.relationships {
		if !m.HasNode(rel.SourceID()) {
			ve.Addf("relationships."+relID.String(), "source %s does not exist", rel.SourceID().String())
		}
		if !m.HasNode(rel.TargetID()) {
			ve.Addf("relationships."+relID.String(), "target %s does not exist", rel.TargetID().String())
		}
	}

	if m.metadata.NodeCount != len(m.nodes) {
		ve.Addf("metadata", "node count is %d, store has %d", m.metadata.NodeCount, len(m.nodes))
	}
	if m.metadata.RelationshipCount != len(m.relationships) {
		ve.Addf("metadata", "relationship count is %d, store has %d", m.metadata.RelationshipCount, len(m.relationships))
	}

	if ve.HasErrors() {
		return ve.AsAppError()
	}
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events.
func (m *MindMap) GetUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, len(m.events))
	copy(all, m.events)
	return all
}

// MarkEventsAsCommitted clears the uncommitted events.
func (m *MindMap) MarkEventsAsCommitted() {
	m.events = []events.DomainEvent{}
}

// Private helpers

func (m *MindMap) addEvent(event events.DomainEvent) {
	m.events = append(m.events, event)
}

func (m *MindMap) touch() {
	m.updatedAt = time.Now()
	m.version++
}

// collectSubtree returns the IDs of a subtree in depth-first pre-order,
// following sibling order. Revisits are guarded so a corrupted store
// cannot loop.
func (m *MindMap) collectSubtree(rootID valueobjects.NodeID) []valueobjects.NodeID {
	visited := make(map[valueobjects.NodeID]bool)
	ordered := []valueobjects.NodeID{}

	var walk func(id valueobjects.NodeID)
	walk = func(id valueobjects.NodeID) {
		node, exists := m.nodes[id]
		if !exists || visited[id] {
			return
		}
		visited[id] = true
		ordered = append(ordered, id)
		for _, childID := range node.Children() {
			walk(childID)
		}
	}
	walk(rootID)

	return ordered
}

// isDescendantOf walks the parent chain from nodeID looking for
// ancestorID. Bounded by the node count so corrupted parent chains
// terminate.
func (m *MindMap) isDescendantOf(nodeID, ancestorID valueobjects.NodeID) bool {
	current, exists := m.nodes[nodeID]
	if !exists {
		return false
	}

	for steps := 0; steps <= len(m.nodes); steps++ {
		if current.IsRoot() {
			return false
		}
		if current.ParentID().Equals(ancestorID) {
			return true
		}
		parent, ok := m.nodes[current.ParentID()]
		if !ok {
			return false
		}
		current = parent
	}
	return false
}

// rebindSubtree rewrites levels and directions across a subtree after a
// reparent.
func (m *MindMap) rebindSubtree(rootID valueobjects.NodeID, level int, direction valueobjects.Direction) {
	visited := make(map[valueobjects.NodeID]bool)

	var walk func(id valueobjects.NodeID, level int)
	walk = func(id valueobjects.NodeID, level int) {
		node, exists := m.nodes[id]
		if !exists || visited[id] {
			return
		}
		visited[id] = true
		node.SetLevel(level)
		node.SetDirection(direction)
		for _, childID := range node.Children() {
			walk(childID, level+1)
		}
	}
	walk(rootID, level)
}
