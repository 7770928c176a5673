// Package layout computes canvas positions for mind map trees. The
// engine is pure and stateless: it reads the aggregate, returns a
// position table, and leaves applying it to the caller. Two maps with
// the same shape, expansion states, directions, and sizes always get
// identical positions.
package layout

import (
	"github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/domain/core/entities"
	"github.com/shalles/web-mind/domain/core/valueobjects"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// Result maps node IDs to computed positions. Nodes inside collapsed
// subtrees are absent; they keep their stale positions until their
// ancestor is re-expanded.
type Result map[valueobjects.NodeID]valueobjects.Position

// Engine lays out trees with the classic two-pass algorithm: a
// bottom-up pass measures subtree extents, a top-down pass assigns
// positions. All positions are box centers; the root anchors at the
// origin.
type Engine struct {
	nodeWidth  float64
	nodeHeight float64
	hSpacing   float64
	vSpacing   float64
}

// NewEngine creates an engine using the configured node sizes and
// spacing. A nil config falls back to the defaults.
func NewEngine(cfg *config.DomainConfig) *Engine {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Engine{
		nodeWidth:  cfg.DefaultNodeWidth,
		nodeHeight: cfg.DefaultNodeHeight,
		hSpacing:   cfg.HorizontalSpacing,
		vSpacing:   cfg.VerticalSpacing,
	}
}

// Layout computes positions for every visible node. The root sits at
// the origin with its right-side children fanned out to the right and
// left-side children to the left, each side vertically centered on the
// root. Below the root a node's children all occupy the node's own
// side. Collapsed subtrees are not descended into.
func (e *Engine) Layout(m *aggregates.MindMap) (Result, error) {
	if m == nil {
		return nil, pkgerrors.NewValidationError("map is required")
	}
	root := m.Root()
	if root == nil {
		return nil, pkgerrors.NewInternalError("map has no root node", nil)
	}

	extents := map[valueobjects.NodeID]float64{}
	e.measure(m, root, extents)

	result := Result{}
	rootPos, _ := valueobjects.NewPosition(0, 0)
	result[root.ID()] = rootPos

	if root.Expanded() {
		left, right := e.splitByDirection(m, root)
		e.placeGroup(m, left, root, rootPos, -1, extents, result)
		e.placeGroup(m, right, root, rootPos, +1, extents, result)
	}

	return result, nil
}

// NodeWidth returns the node's box width, honoring a style override.
func (e *Engine) NodeWidth(node *entities.Node) float64 {
	if w, ok := node.Style().Width(); ok {
		return w
	}
	return e.nodeWidth
}

// NodeHeight returns the node's box height, honoring a style override.
func (e *Engine) NodeHeight(node *entities.Node) float64 {
	if h, ok := node.Style().Height(); ok {
		return h
	}
	return e.nodeHeight
}

// measure fills the extent table bottom-up. A node's extent is the
// vertical span its visible subtree needs: its own height for leaves
// and collapsed nodes, otherwise the larger of its own height and the
// stacked extents of its active child group.
func (e *Engine) measure(m *aggregates.MindMap, node *entities.Node, extents map[valueobjects.NodeID]float64) float64 {
	own := e.NodeHeight(node)
	if !node.Expanded() || !node.HasChildren() {
		extents[node.ID()] = own
		return own
	}

	groups := [][]*entities.Node{}
	if node.IsRoot() {
		left, right := e.splitByDirection(m, node)
		groups = append(groups, left, right)
	} else {
		groups = append(groups, e.activeGroup(m, node))
	}

	widest := own
	for _, group := range groups {
		span := 0.0
		for i, child := range group {
			if i > 0 {
				span += e.vSpacing
			}
			span += e.measure(m, child, extents)
		}
		if span > widest {
			widest = span
		}
	}

	extents[node.ID()] = widest
	return widest
}

// placeGroup stacks a child group beside its parent, vertically
// centered on the parent's y, then recurses into expanded children.
func (e *Engine) placeGroup(
	m *aggregates.MindMap,
	group []*entities.Node,
	parent *entities.Node,
	parentPos valueobjects.Position,
	sign float64,
	extents map[valueobjects.NodeID]float64,
	result Result,
) {
	if len(group) == 0 {
		return
	}

	span := 0.0
	for i, child := range group {
		if i > 0 {
			span += e.vSpacing
		}
		span += extents[child.ID()]
	}

	parentHalf := e.NodeWidth(parent) / 2
	cursor := parentPos.Y() - span/2

	for _, child := range group {
		ext := extents[child.ID()]
		x := parentPos.X() + sign*(parentHalf+e.hSpacing+e.NodeWidth(child)/2)
		y := cursor + ext/2

		pos, _ := valueobjects.NewPosition(x, y)
		result[child.ID()] = pos

		if child.Expanded() && child.HasChildren() {
			next := e.activeGroup(m, child)
			e.placeGroup(m, next, child, pos, groupSign(next, sign), extents, result)
		}

		cursor += ext + e.vSpacing
	}
}

// groupSign derives the placement side from the group itself. Groups
// are single-sided by construction; the fallback covers empty groups.
func groupSign(group []*entities.Node, fallback float64) float64 {
	if len(group) == 0 {
		return fallback
	}
	if group[0].Direction() == valueobjects.DirectionRight {
		return +1
	}
	return -1
}

// splitByDirection partitions a node's children into left and right
// groups, preserving sibling order. Anything not explicitly right goes
// left.
func (e *Engine) splitByDirection(m *aggregates.MindMap, node *entities.Node) (left, right []*entities.Node) {
	for _, child := range e.children(m, node) {
		if child.Direction() == valueobjects.DirectionRight {
			right = append(right, child)
		} else {
			left = append(left, child)
		}
	}
	return left, right
}

// activeGroup returns the one child group a non-root node lays out.
// When sides are mixed the left group wins; the other side keeps its
// stale positions.
func (e *Engine) activeGroup(m *aggregates.MindMap, node *entities.Node) []*entities.Node {
	left, right := e.splitByDirection(m, node)
	if len(left) > 0 {
		return left
	}
	return right
}

func (e *Engine) children(m *aggregates.MindMap, node *entities.Node) []*entities.Node {
	children, err := m.ChildrenOf(node.ID())
	if err != nil {
		return nil
	}
	return children
}
