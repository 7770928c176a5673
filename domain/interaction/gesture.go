// Package interaction implements the drag-to-reparent gesture as a
// state machine over the map aggregate: idle → dragging → snapping →
// idle. While a gesture is active the aggregate is never mutated; the
// gesture tracks the transient displayed position itself and commits
// through the aggregate's operations only at the end. The machine owns
// no clock: callers convert elapsed time to progress and tick it.
//
// A gesture instance belongs to one editing session and is not safe
// for concurrent use.
package interaction

import (
	"github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/domain/core/valueobjects"
	"github.com/shalles/web-mind/domain/layout"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// State names the gesture machine's states.
type State string

const (
	StateIdle     State = "idle"
	StateDragging State = "dragging"
	StateSnapping State = "snapping"
)

// SnapTarget is a candidate drop target within the snap threshold.
type SnapTarget struct {
	NodeID   valueobjects.NodeID
	Distance float64
}

// SnapAnimation describes the snap flight from the release point to
// the target. Interpolate is pure; the caller drives progress.
type SnapAnimation struct {
	NodeID   valueobjects.NodeID
	TargetID valueobjects.NodeID
	From     valueobjects.Position
	To       valueobjects.Position
}

// Interpolate returns the displayed position at the given progress,
// eased with an elastic overshoot. Progress outside [0,1] clamps.
func (a *SnapAnimation) Interpolate(progress float64) valueobjects.Position {
	return a.From.Lerp(a.To, EaseOutElastic(progress))
}

// EndKind tells the caller what EndDrag did.
type EndKind string

const (
	// EndPositionCommitted means the node was dropped in free space and
	// its new position has been committed.
	EndPositionCommitted EndKind = "position_committed"
	// EndSnapStarted means a target captured the node; the gesture is
	// snapping and must be ticked to completion.
	EndSnapStarted EndKind = "snap_started"
)

// EndResult is the outcome of EndDrag.
type EndResult struct {
	Kind      EndKind
	Position  valueobjects.Position
	Animation *SnapAnimation
}

// CommitKind tells the caller how CompleteSnap resolved.
type CommitKind string

const (
	// CommitReparented means the node moved under the target.
	CommitReparented CommitKind = "reparented"
	// CommitPositionOnly means the target was already the parent; the
	// tree is unchanged and only positions were refreshed.
	CommitPositionOnly CommitKind = "position_only"
	// CommitAborted means the commit-time check found the target inside
	// the dragged subtree; the tree is unchanged.
	CommitAborted CommitKind = "aborted"
)

// CommitResult is the outcome of CompleteSnap.
type CommitResult struct {
	Kind     CommitKind
	NodeID   valueobjects.NodeID
	TargetID valueobjects.NodeID
}

// DragGesture is the reparenting gesture machine. Only one gesture can
// be in flight at a time; Begin rejects overlaps.
type DragGesture struct {
	state     State
	threshold float64
	layouter  *layout.Engine

	nodeID   valueobjects.NodeID
	startPos valueobjects.Position
	current  valueobjects.Position
	target   valueobjects.NodeID
	anim     *SnapAnimation
}

// NewDragGesture creates an idle gesture using the configured snap
// threshold. A nil config falls back to the defaults.
func NewDragGesture(cfg *config.DomainConfig) *DragGesture {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &DragGesture{
		state:     StateIdle,
		threshold: cfg.SnapThreshold,
		layouter:  layout.NewEngine(cfg),
	}
}

// State returns the machine's current state.
func (g *DragGesture) State() State {
	return g.state
}

// ActiveNode returns the node being dragged, if any.
func (g *DragGesture) ActiveNode() (valueobjects.NodeID, bool) {
	if g.state == StateIdle {
		return valueobjects.NodeID{}, false
	}
	return g.nodeID, true
}

// DraggedPosition returns the transient displayed position of the
// dragged node. Renderers overlay it; the aggregate still holds the
// pre-drag position until commit.
func (g *DragGesture) DraggedPosition() (valueobjects.Position, bool) {
	if g.state == StateIdle {
		return valueobjects.Position{}, false
	}
	return g.current, true
}

// StartPosition returns where the node sat when the gesture began.
func (g *DragGesture) StartPosition() (valueobjects.Position, bool) {
	if g.state == StateIdle {
		return valueobjects.Position{}, false
	}
	return g.startPos, true
}

// CurrentTarget returns the drop target captured by the last update.
func (g *DragGesture) CurrentTarget() (valueobjects.NodeID, bool) {
	if g.state != StateDragging || g.target.IsZero() {
		return valueobjects.NodeID{}, false
	}
	return g.target, true
}

// Animation returns the snap animation while snapping.
func (g *DragGesture) Animation() (*SnapAnimation, bool) {
	if g.state != StateSnapping {
		return nil, false
	}
	return g.anim, true
}

// Begin starts dragging a node. The root is immovable, and a second
// gesture cannot start while one is dragging or snapping.
func (g *DragGesture) Begin(m *aggregates.MindMap, nodeID valueobjects.NodeID) error {
	switch g.state {
	case StateDragging:
		return pkgerrors.ErrDragInProgress()
	case StateSnapping:
		return pkgerrors.ErrSnapInProgress()
	}

	node, err := m.GetNode(nodeID)
	if err != nil {
		return err
	}
	if node.IsRoot() {
		return pkgerrors.ErrRootDrag(nodeID.String())
	}

	g.state = StateDragging
	g.nodeID = nodeID
	g.startPos = node.Position()
	g.current = node.Position()
	g.target = valueobjects.NodeID{}
	g.anim = nil
	return nil
}

// Update moves the displayed position to the pointer and recomputes
// the drop target: the nearest node within the snap threshold that is
// neither the dragged node nor inside its subtree. Ties go to the
// first such node in tree order.
func (g *DragGesture) Update(m *aggregates.MindMap, pointer valueobjects.Position) (*SnapTarget, error) {
	if g.state != StateDragging {
		return nil, pkgerrors.ErrNoDragActive()
	}

	g.current = pointer
	g.target = valueobjects.NodeID{}

	best := (*SnapTarget)(nil)
	for _, candidate := range m.NodesInTreeOrder() {
		id := candidate.ID()
		if id.Equals(g.nodeID) || m.IsDescendantOf(id, g.nodeID) {
			continue
		}

		dist := pointer.DistanceTo(candidate.Position())
		if dist >= g.threshold {
			continue
		}
		if best == nil || dist < best.Distance {
			best = &SnapTarget{NodeID: id, Distance: dist}
		}
	}

	if best != nil {
		g.target = best.NodeID
	}
	return best, nil
}

// EndDrag releases the pointer. With no captured target the free
// position is committed immediately and the gesture returns to idle.
// With a target the gesture switches to snapping and hands back the
// animation for the caller to tick; the snap cannot be cancelled.
func (g *DragGesture) EndDrag(m *aggregates.MindMap) (*EndResult, error) {
	if g.state != StateDragging {
		return nil, pkgerrors.ErrNoDragActive()
	}

	if g.target.IsZero() {
		final := g.current
		if err := m.SetNodePosition(g.nodeID, final); err != nil {
			g.reset()
			return nil, err
		}
		g.reset()
		return &EndResult{Kind: EndPositionCommitted, Position: final}, nil
	}

	targetNode, err := m.GetNode(g.target)
	if err != nil {
		g.reset()
		return nil, err
	}

	g.anim = &SnapAnimation{
		NodeID:   g.nodeID,
		TargetID: g.target,
		From:     g.current,
		To:       targetNode.Position(),
	}
	g.state = StateSnapping
	return &EndResult{Kind: EndSnapStarted, Animation: g.anim}, nil
}

// Tick updates the displayed position for the given progress while
// snapping. Purely visual; commit happens in CompleteSnap.
func (g *DragGesture) Tick(progress float64) (valueobjects.Position, error) {
	if g.state != StateSnapping {
		return valueobjects.Position{}, pkgerrors.ErrNoDragActive()
	}
	g.current = g.anim.Interpolate(progress)
	return g.current, nil
}

// CompleteSnap commits the snap once the animation has finished. The
// target is re-checked against the dragged subtree first; a stale
// target aborts with the tree unchanged. A target that is already the
// parent refreshes positions only. Otherwise the node is reparented.
// Both non-abort outcomes finish with a full layout pass.
func (g *DragGesture) CompleteSnap(m *aggregates.MindMap) (*CommitResult, error) {
	if g.state != StateSnapping {
		return nil, pkgerrors.NewDragStateError("no snap in progress").
			WithCode(pkgerrors.CodeNoDragActive)
	}

	nodeID, targetID := g.nodeID, g.target
	defer g.reset()

	node, err := m.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	if _, err := m.GetNode(targetID); err != nil {
		return nil, err
	}

	// Commit-time cycle guard: the tree may have changed since the
	// target was captured.
	if targetID.Equals(nodeID) || m.IsDescendantOf(targetID, nodeID) {
		return &CommitResult{Kind: CommitAborted, NodeID: nodeID, TargetID: targetID}, nil
	}

	kind := CommitReparented
	if node.ParentID().Equals(targetID) {
		kind = CommitPositionOnly
	} else {
		if err := m.Reparent(nodeID, targetID); err != nil {
			return nil, err
		}
	}

	positions, err := g.layouter.Layout(m)
	if err != nil {
		return nil, err
	}
	if err := m.ApplyLayout(positions); err != nil {
		return nil, err
	}

	return &CommitResult{Kind: kind, NodeID: nodeID, TargetID: targetID}, nil
}

// Abort cancels a drag before release and returns to idle. A snap in
// flight cannot be aborted.
func (g *DragGesture) Abort() error {
	switch g.state {
	case StateIdle:
		return pkgerrors.ErrNoDragActive()
	case StateSnapping:
		return pkgerrors.ErrSnapInProgress()
	}
	g.reset()
	return nil
}

// SnapThreshold returns the capture distance in canvas units.
func (g *DragGesture) SnapThreshold() float64 {
	return g.threshold
}

func (g *DragGesture) reset() {
	g.state = StateIdle
	g.nodeID = valueobjects.NodeID{}
	g.startPos = valueobjects.Position{}
	g.current = valueobjects.Position{}
	g.target = valueobjects.NodeID{}
	g.anim = nil
}
