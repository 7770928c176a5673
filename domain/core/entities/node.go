// Package entities holds the rich domain entities of the mind map tree.
package entities

import (
	"github.com/shalles/web-mind/domain/core/valueobjects"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// Node is an entity in the mind map tree. Structure fields (parent,
// children, level, direction) are maintained by the MindMap aggregate;
// the entity guards its own local consistency only.
type Node struct {
	id        valueobjects.NodeID
	content   valueobjects.NodeContent
	parentID  valueobjects.NodeID
	children  []valueobjects.NodeID
	style     valueobjects.Style
	position  valueobjects.Position
	expanded  bool
	level     int
	direction valueobjects.Direction

	// Reference nodes mirror another node's content. The link is an
	// opaque ID; resolution happens outside the core.
	refID       string
	isReference bool
}

// NewNode creates a detached node. The aggregate assigns parent, level,
// and direction when attaching it to the tree.
func NewNode(content valueobjects.NodeContent) *Node {
	return &Node{
		id:       valueobjects.NewNodeID(),
		content:  content,
		children: []valueobjects.NodeID{},
		style:    valueobjects.NewStyle(),
		expanded: true,
	}
}

// NewReferenceNode creates a detached node that mirrors another node.
func NewReferenceNode(content valueobjects.NodeContent, refID string) (*Node, error) {
	if refID == "" {
		return nil, pkgerrors.NewValidationError("reference target cannot be empty")
	}
	node := NewNode(content)
	node.refID = refID
	node.isReference = true
	return node, nil
}

// ReconstructNode rebuilds a node from stored data, preserving identity
// and structure exactly as recorded.
func ReconstructNode(
	id valueobjects.NodeID,
	content valueobjects.NodeContent,
	parentID valueobjects.NodeID,
	children []valueobjects.NodeID,
	style valueobjects.Style,
	position valueobjects.Position,
	expanded bool,
	level int,
	direction valueobjects.Direction,
	refID string,
	isReference bool,
) (*Node, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("node ID cannot be empty")
	}

	childs := make([]valueobjects.NodeID, len(children))
	copy(childs, children)

	return &Node{
		id:          id,
		content:     content,
		parentID:    parentID,
		children:    childs,
		style:       style.Clone(),
		position:    position,
		expanded:    expanded,
		level:       level,
		direction:   direction,
		refID:       refID,
		isReference: isReference,
	}, nil
}

// ID returns the node's unique identifier.
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Content returns the node's content.
func (n *Node) Content() valueobjects.NodeContent {
	return n.content
}

// ParentID returns the parent's ID, zero for the root.
func (n *Node) ParentID() valueobjects.NodeID {
	return n.parentID
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.parentID.IsZero()
}

// Children returns the ordered child IDs.
func (n *Node) Children() []valueobjects.NodeID {
	children := make([]valueobjects.NodeID, len(n.children))
	copy(children, n.children)
	return children
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// HasChildren reports whether the node has any children.
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// Style returns a copy of the node's style.
func (n *Node) Style() valueobjects.Style {
	return n.style.Clone()
}

// Position returns the node's canvas position.
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// Expanded reports whether the node's subtree is visible.
func (n *Node) Expanded() bool {
	return n.expanded
}

// Level returns the node's depth, zero for the root.
func (n *Node) Level() int {
	return n.level
}

// Direction returns which side of the root the node is laid out on.
func (n *Node) Direction() valueobjects.Direction {
	return n.direction
}

// RefID returns the mirrored node's opaque ID, empty for regular nodes.
func (n *Node) RefID() string {
	return n.refID
}

// IsReference reports whether the node mirrors another node.
func (n *Node) IsReference() bool {
	return n.isReference
}

// UpdateContent replaces the node's content.
func (n *Node) UpdateContent(content valueobjects.NodeContent) {
	n.content = content
}

// MergeStyle shallow-merges a patch into the node's style. Existing
// keys absent from the patch are preserved.
func (n *Node) MergeStyle(patch valueobjects.Style) {
	n.style = n.style.Merge(patch)
}

// SetStyle replaces the node's style wholesale.
func (n *Node) SetStyle(style valueobjects.Style) {
	n.style = style.Clone()
}

// MoveTo moves the node to a new canvas position.
func (n *Node) MoveTo(position valueobjects.Position) {
	n.position = position
}

// SetExpanded sets the subtree visibility flag.
func (n *Node) SetExpanded(expanded bool) {
	n.expanded = expanded
}

// ToggleExpanded flips the subtree visibility flag.
func (n *Node) ToggleExpanded() {
	n.expanded = !n.expanded
}

// SetParent rebinds the node to a new parent. Zero detaches it.
func (n *Node) SetParent(parentID valueobjects.NodeID) {
	n.parentID = parentID
}

// SetLevel sets the node's depth.
func (n *Node) SetLevel(level int) {
	n.level = level
}

// SetDirection sets the node's layout side.
func (n *Node) SetDirection(direction valueobjects.Direction) {
	n.direction = direction
}

// AppendChild adds a child ID at the end of the order.
func (n *Node) AppendChild(childID valueobjects.NodeID) error {
	if n.hasChild(childID) {
		return pkgerrors.NewConflictError("node is already a child")
	}
	n.children = append(n.children, childID)
	return nil
}

// InsertChildAfter adds a child ID immediately after an existing one.
func (n *Node) InsertChildAfter(afterID, childID valueobjects.NodeID) error {
	if n.hasChild(childID) {
		return pkgerrors.NewConflictError("node is already a child")
	}

	idx := n.ChildIndex(afterID)
	if idx < 0 {
		return pkgerrors.NewNotFoundError("sibling")
	}

	n.children = append(n.children, valueobjects.NodeID{})
	copy(n.children[idx+2:], n.children[idx+1:])
	n.children[idx+1] = childID
	return nil
}

// RemoveChild removes a child ID, preserving the order of the rest.
func (n *Node) RemoveChild(childID valueobjects.NodeID) error {
	idx := n.ChildIndex(childID)
	if idx < 0 {
		return pkgerrors.NewNotFoundError("child")
	}

	n.children = append(n.children[:idx], n.children[idx+1:]...)
	return nil
}

// ChildIndex returns the position of a child in the order, -1 if absent.
func (n *Node) ChildIndex(childID valueobjects.NodeID) int {
	for i, id := range n.children {
		if id.Equals(childID) {
			return i
		}
	}
	return -1
}

// ReorderChild moves a child to a new index, shifting the others.
func (n *Node) ReorderChild(childID valueobjects.NodeID, newIndex int) error {
	idx := n.ChildIndex(childID)
	if idx < 0 {
		return pkgerrors.NewNotFoundError("child")
	}
	if newIndex < 0 || newIndex >= len(n.children) {
		return pkgerrors.NewValidationError("child index out of range")
	}
	if idx == newIndex {
		return nil
	}

	n.children = append(n.children[:idx], n.children[idx+1:]...)
	n.children = append(n.children, valueobjects.NodeID{})
	copy(n.children[newIndex+1:], n.children[newIndex:])
	n.children[newIndex] = childID
	return nil
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	children := make([]valueobjects.NodeID, len(n.children))
	copy(children, n.children)

	return &Node{
		id:          n.id,
		content:     n.content,
		parentID:    n.parentID,
		children:    children,
		style:       n.style.Clone(),
		position:    n.position,
		expanded:    n.expanded,
		level:       n.level,
		direction:   n.direction,
		refID:       n.refID,
		isReference: n.isReference,
	}
}

func (n *Node) hasChild(childID valueobjects.NodeID) bool {
	return n.ChildIndex(childID) >= 0
}
