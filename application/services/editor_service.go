// Package services orchestrates editing sessions over the domain. One
// session per open map couples the aggregate with its undo history and
// drag gesture; a session mutex serializes access per map while the
// domain itself stays single-threaded.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/ports"
	"github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/domain/core/entities"
	"github.com/shalles/web-mind/domain/core/valueobjects"
	"github.com/shalles/web-mind/domain/interaction"
	"github.com/shalles/web-mind/domain/layout"
	"github.com/shalles/web-mind/domain/versioning"
	"github.com/shalles/web-mind/pkg/observability"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// ContentPatch carries a partial content update. Nil fields keep their
// current values.
type ContentPatch struct {
	Text  *string
	Note  *string
	Icon  *string
	Image *string
}

// HistoryStatus reports the undo/redo state of one editing session.
type HistoryStatus struct {
	CanUndo   bool
	CanRedo   bool
	UndoDepth int
	RedoDepth int
	MaxDepth  int
	UndoLabel string
	RedoLabel string
	Undo      []versioning.EntryInfo
	Redo      []versioning.EntryInfo
}

// DragStatus reports the live state of one drag gesture. NodeID,
// Position and TargetID are only meaningful when their ok flags say so.
type DragStatus struct {
	State       interaction.State
	NodeID      valueobjects.NodeID
	HasNode     bool
	Position    valueobjects.Position
	HasPosition bool
	TargetID    valueobjects.NodeID
	HasTarget   bool
	Animation   *interaction.SnapAnimation
}

// SnapTickResult reports one snap animation step. Commit is set once
// the animation has finished and the outcome is applied.
type SnapTickResult struct {
	Position valueobjects.Position
	Done     bool
	Commit   *interaction.CommitResult
}

// editorSession is the per-map editing state. The mutex serializes all
// access to the aggregate, the history and the gesture.
type editorSession struct {
	mu      sync.Mutex
	history *versioning.HistoryManager
	gesture *interaction.DragGesture
	layout  *layout.Engine
}

// EditorService implements the full editing command surface. Every
// history-tracked mutation runs the same pipeline: capture the
// pre-state, apply the operation, record history, recompute layout
// where the tree shape changed, persist, publish events.
type EditorService struct {
	repo      ports.MindMapRepository
	publisher ports.EventPublisher
	metrics   *observability.Collector
	cfg       *config.DomainConfig
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[aggregates.MapID]*editorSession
}

// NewEditorService creates a new editor service
func NewEditorService(
	repo ports.MindMapRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *EditorService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditorService{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
		sessions:  make(map[aggregates.MapID]*editorSession),
	}
}

// CreateMap creates a mind map, lays out its root and persists it. An
// empty mapID mints a fresh one; an explicit mapID must be unused.
func (s *EditorService) CreateMap(ctx context.Context, mapID, userID, name, rootContent string) (*aggregates.MindMap, error) {
	id := aggregates.MapID(mapID)
	if mapID == "" {
		id = aggregates.NewMapID()
	} else {
		if _, err := s.repo.GetByID(ctx, id); err == nil {
			return nil, pkgerrors.NewConflictError(fmt.Sprintf("map %s already exists", mapID))
		} else if !pkgerrors.IsNotFound(err) {
			return nil, err
		}
	}

	m, err := aggregates.NewMindMapWithID(id, userID, name, rootContent, s.cfg)
	if err != nil {
		return nil, err
	}

	sess := s.session(m)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.relayout(m, sess); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save map: %w", err)
	}
	s.publish(ctx, m)

	s.logger.Info("Mind map created",
		zap.String("mapID", m.ID().String()),
		zap.String("userID", userID),
		zap.String("name", m.Name()),
	)
	return m, nil
}

// DeleteMap removes a map together with its session state.
func (s *EditorService) DeleteMap(ctx context.Context, mapID string) error {
	id := aggregates.MapID(mapID)
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	s.logger.Info("Mind map deleted", zap.String("mapID", mapID))
	return nil
}

// AddChild appends a child under a parent. An empty direction inherits
// the parent's side; below the root an explicit direction picks it.
func (s *EditorService) AddChild(ctx context.Context, mapID, parentID, text, direction string) (*entities.Node, error) {
	pid, err := valueobjects.NewNodeIDFromString(parentID)
	if err != nil {
		return nil, fmt.Errorf("invalid parent node ID: %w", err)
	}

	var dir valueobjects.Direction
	if direction != "" {
		dir, err = valueobjects.ParseDirection(direction)
		if err != nil {
			return nil, err
		}
	}

	var created *entities.Node
	err = s.mutate(ctx, mapID, "add child", true, func(m *aggregates.MindMap) error {
		content, err := valueobjects.NewNodeContentWithConfig(text, m.Config())
		if err != nil {
			return err
		}
		if direction != "" {
			created, err = m.AddChildWithDirection(pid, content, dir)
		} else {
			created, err = m.AddChild(pid, content)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CountNodeCreated()
	return created, nil
}

// AddSibling inserts a node right after its sibling under the same
// parent.
func (s *EditorService) AddSibling(ctx context.Context, mapID, siblingID, text string) (*entities.Node, error) {
	sid, err := valueobjects.NewNodeIDFromString(siblingID)
	if err != nil {
		return nil, fmt.Errorf("invalid sibling node ID: %w", err)
	}

	var created *entities.Node
	err = s.mutate(ctx, mapID, "add sibling", true, func(m *aggregates.MindMap) error {
		content, err := valueobjects.NewNodeContentWithConfig(text, m.Config())
		if err != nil {
			return err
		}
		created, err = m.AddSibling(sid, content)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CountNodeCreated()
	return created, nil
}

// DeleteNode removes a node and its whole subtree, relationships
// included.
func (s *EditorService) DeleteNode(ctx context.Context, mapID, nodeID string) (*aggregates.DeleteResult, error) {
	id, err := valueobjects.NewNodeIDFromString(nodeID)
	if err != nil {
		return nil, fmt.Errorf("invalid node ID: %w", err)
	}

	var res *aggregates.DeleteResult
	err = s.mutate(ctx, mapID, "delete node", true, func(m *aggregates.MindMap) error {
		res, err = m.DeleteNode(id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CountNodesDeleted(len(res.RemovedNodeIDs))
	s.metrics.CountRelationshipsDeleted(len(res.RemovedRelationshipIDs))
	return res, nil
}

// UpdateNodeContent applies a partial content update to one node.
func (s *EditorService) UpdateNodeContent(ctx context.Context, mapID, nodeID string, patch ContentPatch) error {
	id, err := valueobjects.NewNodeIDFromString(nodeID)
	if err != nil {
		return fmt.Errorf("invalid node ID: %w", err)
	}

	return s.mutate(ctx, mapID, "edit content", false, func(m *aggregates.MindMap) error {
		node, err := m.GetNode(id)
		if err != nil {
			return err
		}

		next := node.Content()
		if patch.Text != nil {
			validated, err := valueobjects.NewNodeContentWithConfig(*patch.Text, m.Config())
			if err != nil {
				return err
			}
			next = next.WithText(validated.Text())
		}
		if patch.Note != nil {
			next = next.WithNote(*patch.Note)
		}
		if patch.Icon != nil {
			next = next.WithIcon(*patch.Icon)
		}
		if patch.Image != nil {
			next = next.WithImage(*patch.Image)
		}

		return m.UpdateNodeContent(id, next)
	})
}

// UpdateNodeStyle merges a style patch into one node. Width and height
// overrides change node geometry, so the tree is re-laid out.
func (s *EditorService) UpdateNodeStyle(ctx context.Context, mapID, nodeID string, patch valueobjects.Style) error {
	id, err := valueobjects.NewNodeIDFromString(nodeID)
	if err != nil {
		return fmt.Errorf("invalid node ID: %w", err)
	}

	return s.mutate(ctx, mapID, "edit style", true, func(m *aggregates.MindMap) error {
		return m.UpdateNodeStyle(id, patch)
	})
}

// ToggleNodeExpansion flips a node between expanded and collapsed and
// returns the new state.
func (s *EditorService) ToggleNodeExpansion(ctx context.Context, mapID, nodeID string) (bool, error) {
	id, err := valueobjects.NewNodeIDFromString(nodeID)
	if err != nil {
		return false, fmt.Errorf("invalid node ID: %w", err)
	}

	var expanded bool
	err = s.mutate(ctx, mapID, "toggle expansion", true, func(m *aggregates.MindMap) error {
		expanded, err = m.ToggleNodeExpansion(id)
		return err
	})
	return expanded, err
}

// MoveNode commits an explicit free position for one node. No layout
// pass runs; the next structural change will fold the node back in.
func (s *EditorService) MoveNode(ctx context.Context, mapID, nodeID string, x, y float64) error {
	id, err := valueobjects.NewNodeIDFromString(nodeID)
	if err != nil {
		return fmt.Errorf("invalid node ID: %w", err)
	}
	pos, err := valueobjects.NewPosition(x, y)
	if err != nil {
		return err
	}

	return s.mutate(ctx, mapID, "move node", false, func(m *aggregates.MindMap) error {
		return m.SetNodePosition(id, pos)
	})
}

// MoveNodeUp swaps a node with its previous sibling. Returns false
// when it is already first.
func (s *EditorService) MoveNodeUp(ctx context.Context, mapID, nodeID string) (bool, error) {
	return s.reorder(ctx, mapID, nodeID, func(m *aggregates.MindMap, id valueobjects.NodeID) (bool, error) {
		return m.MoveSiblingUp(id)
	})
}

// MoveNodeDown swaps a node with its next sibling. Returns false when
// it is already last.
func (s *EditorService) MoveNodeDown(ctx context.Context, mapID, nodeID string) (bool, error) {
	return s.reorder(ctx, mapID, nodeID, func(m *aggregates.MindMap, id valueobjects.NodeID) (bool, error) {
		return m.MoveSiblingDown(id)
	})
}

// ReorderNode moves a node to an explicit index among its siblings.
func (s *EditorService) ReorderNode(ctx context.Context, mapID, nodeID string, newIndex int) (bool, error) {
	return s.reorder(ctx, mapID, nodeID, func(m *aggregates.MindMap, id valueobjects.NodeID) (bool, error) {
		return m.ReorderSibling(id, newIndex)
	})
}

func (s *EditorService) reorder(ctx context.Context, mapID, nodeID string, op func(*aggregates.MindMap, valueobjects.NodeID) (bool, error)) (bool, error) {
	id, err := valueobjects.NewNodeIDFromString(nodeID)
	if err != nil {
		return false, fmt.Errorf("invalid node ID: %w", err)
	}

	var moved bool
	err = s.mutate(ctx, mapID, "reorder siblings", true, func(m *aggregates.MindMap) error {
		moved, err = op(m, id)
		return err
	})
	return moved, err
}

// ConnectNodes creates a labelled cross-branch relationship.
func (s *EditorService) ConnectNodes(ctx context.Context, mapID, sourceID, targetID, label string) (*entities.Relationship, error) {
	src, err := valueobjects.NewNodeIDFromString(sourceID)
	if err != nil {
		return nil, fmt.Errorf("invalid source node ID: %w", err)
	}
	tgt, err := valueobjects.NewNodeIDFromString(targetID)
	if err != nil {
		return nil, fmt.Errorf("invalid target node ID: %w", err)
	}

	var rel *entities.Relationship
	err = s.mutate(ctx, mapID, "connect nodes", false, func(m *aggregates.MindMap) error {
		rel, err = m.ConnectNodes(src, tgt, label)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CountRelationshipCreated()
	return rel, nil
}

// UpdateRelationship updates the label and/or style of a relationship.
// A nil label keeps the current one.
func (s *EditorService) UpdateRelationship(ctx context.Context, mapID, relID string, label *string, stylePatch valueobjects.Style) error {
	id, err := valueobjects.NewRelationshipIDFromString(relID)
	if err != nil {
		return fmt.Errorf("invalid relationship ID: %w", err)
	}

	return s.mutate(ctx, mapID, "edit relationship", false, func(m *aggregates.MindMap) error {
		return m.UpdateRelationship(id, label, stylePatch)
	})
}

// DisconnectNodes removes a relationship. The endpoints stay.
func (s *EditorService) DisconnectNodes(ctx context.Context, mapID, relID string) error {
	id, err := valueobjects.NewRelationshipIDFromString(relID)
	if err != nil {
		return fmt.Errorf("invalid relationship ID: %w", err)
	}

	err = s.mutate(ctx, mapID, "disconnect nodes", false, func(m *aggregates.MindMap) error {
		return m.DisconnectNodes(id)
	})
	if err != nil {
		return err
	}

	s.metrics.CountRelationshipsDeleted(1)
	return nil
}

// ImportSnapshot replaces the whole map state with an external
// document. Positions come from the document; no layout pass runs.
func (s *EditorService) ImportSnapshot(ctx context.Context, mapID string, snap *aggregates.MapSnapshot) error {
	return s.mutate(ctx, mapID, "import", false, func(m *aggregates.MindMap) error {
		return m.RestoreSnapshot(snap, "import")
	})
}

// Undo rolls the map back to the state before the most recent
// mutation. The undone state becomes redoable.
func (s *EditorService) Undo(ctx context.Context, mapID string) error {
	return s.withSession(ctx, mapID, func(ctx context.Context, m *aggregates.MindMap, sess *editorSession) error {
		restored, err := sess.history.Undo(m.Snapshot())
		if err != nil {
			return err
		}
		if err := m.RestoreSnapshot(restored, "undo"); err != nil {
			return err
		}

		s.metrics.CountUndo()
		if err := s.repo.Save(ctx, m); err != nil {
			return fmt.Errorf("failed to save map: %w", err)
		}
		s.publish(ctx, m)
		return nil
	})
}

// Redo reapplies the most recently undone state.
func (s *EditorService) Redo(ctx context.Context, mapID string) error {
	return s.withSession(ctx, mapID, func(ctx context.Context, m *aggregates.MindMap, sess *editorSession) error {
		restored, err := sess.history.Redo(m.Snapshot())
		if err != nil {
			return err
		}
		if err := m.RestoreSnapshot(restored, "redo"); err != nil {
			return err
		}

		s.metrics.CountRedo()
		if err := s.repo.Save(ctx, m); err != nil {
			return fmt.Errorf("failed to save map: %w", err)
		}
		s.publish(ctx, m)
		return nil
	})
}

// HistoryStatus reports the session's undo/redo state.
func (s *EditorService) HistoryStatus(ctx context.Context, mapID string) (*HistoryStatus, error) {
	var status *HistoryStatus
	err := s.withSession(ctx, mapID, func(ctx context.Context, m *aggregates.MindMap, sess *editorSession) error {
		undoLabel, _ := sess.history.UndoLabel()
		redoLabel, _ := sess.history.RedoLabel()
		status = &HistoryStatus{
			CanUndo:   sess.history.CanUndo(),
			CanRedo:   sess.history.CanRedo(),
			UndoDepth: sess.history.UndoDepth(),
			RedoDepth: sess.history.RedoDepth(),
			MaxDepth:  sess.history.MaxDepth(),
			UndoLabel: undoLabel,
			RedoLabel: redoLabel,
			Undo:      sess.history.UndoEntries(),
			Redo:      sess.history.RedoEntries(),
		}
		return nil
	})
	return status, err
}

// BeginDrag starts dragging a node. The aggregate stays untouched
// until the gesture commits.
func (s *EditorService) BeginDrag(ctx context.Context, mapID, nodeID string) error {
	id, err := valueobjects.NewNodeIDFromString(nodeID)
	if err != nil {
		return fmt.Errorf("invalid node ID: %w", err)
	}

	return s.withSession(ctx, mapID, func(ctx context.Context, m *aggregates.MindMap, sess *editorSession) error {
		return sess.gesture.Begin(m, id)
	})
}

// UpdateDrag moves the dragged node's displayed position and reports
// the captured snap target, if any.
func (s *EditorService) UpdateDrag(ctx context.Context, mapID string, x, y float64) (*interaction.SnapTarget, error) {
	pos, err := valueobjects.NewPosition(x, y)
	if err != nil {
		return nil, err
	}

	var target *interaction.SnapTarget
	err = s.withSession(ctx, mapID, func(ctx context.Context, m *aggregates.MindMap, sess *editorSession) error {
		target, err = sess.gesture.Update(m, pos)
		return err
	})
	return target, err
}

// EndDrag releases the pointer. A free drop commits the position at
// once; a captured target starts the snap animation, which the caller
// must tick to completion.
func (s *EditorService) EndDrag(ctx context.Context, mapID string) (*interaction.EndResult, error) {
	var result *interaction.EndResult
	err := s.withSession(ctx, mapID, func(ctx context.Context, m *aggregates.MindMap, sess *editorSession) error {
		pre := m.Snapshot()
		preVersion := m.Version()

		res, err := sess.gesture.EndDrag(m)
		if err != nil {
			return err
		}
		result = res

		if res.Kind == interaction.EndPositionCommitted && m.Version() != preVersion {
			if err := sess.history.Push(pre, "move node"); err != nil {
				return err
			}
			s.metrics.CountDragCommit("position")
			if err := s.repo.Save(ctx, m); err != nil {
				return fmt.Errorf("failed to save map: %w", err)
			}
			s.publish(ctx, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TickSnap advances the snap animation. Progress below 1 refreshes the
// displayed position only; progress 1 or above completes the gesture
// and commits its outcome.
func (s *EditorService) TickSnap(ctx context.Context, mapID string, progress float64) (*SnapTickResult, error) {
	var result *SnapTickResult
	err := s.withSession(ctx, mapID, func(ctx context.Context, m *aggregates.MindMap, sess *editorSession) error {
		if progress < 1 {
			pos, err := sess.gesture.Tick(progress)
			if err != nil {
				return err
			}
			result = &SnapTickResult{Position: pos, Done: false}
			return nil
		}

		if _, err := sess.gesture.Tick(1); err != nil {
			return err
		}

		pre := m.Snapshot()
		preVersion := m.Version()

		commit, err := sess.gesture.CompleteSnap(m)
		if err != nil {
			return err
		}

		switch commit.Kind {
		case interaction.CommitReparented:
			s.metrics.CountDragCommit("reparented")
		case interaction.CommitPositionOnly:
			s.metrics.CountDragCommit("position")
		case interaction.CommitAborted:
			s.metrics.CountDragCommit("aborted")
		}

		if m.Version() != preVersion {
			if err := sess.history.Push(pre, "drag"); err != nil {
				return err
			}
			if err := s.repo.Save(ctx, m); err != nil {
				return fmt.Errorf("failed to save map: %w", err)
			}
			s.publish(ctx, m)
		}

		node, err := m.GetNode(commit.NodeID)
		if err != nil {
			return err
		}
		result = &SnapTickResult{Position: node.Position(), Done: true, Commit: commit}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AbortDrag cancels a drag before release. A snap in flight cannot be
// aborted.
func (s *EditorService) AbortDrag(ctx context.Context, mapID string) error {
	return s.withSession(ctx, mapID, func(ctx context.Context, m *aggregates.MindMap, sess *editorSession) error {
		return sess.gesture.Abort()
	})
}

// DragStatus reports the gesture's live state for renderers.
func (s *EditorService) DragStatus(ctx context.Context, mapID string) (*DragStatus, error) {
	var status *DragStatus
	err := s.withSession(ctx, mapID, func(ctx context.Context, m *aggregates.MindMap, sess *editorSession) error {
		g := sess.gesture
		status = &DragStatus{State: g.State()}
		status.NodeID, status.HasNode = g.ActiveNode()
		status.Position, status.HasPosition = g.DraggedPosition()
		status.TargetID, status.HasTarget = g.CurrentTarget()
		status.Animation, _ = g.Animation()
		return nil
	})
	return status, err
}

// session returns the per-map editing state, creating it on first use
// with the map's own configuration.
func (s *EditorService) session(m *aggregates.MindMap) *editorSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[m.ID()]
	if !ok {
		sess = &editorSession{
			history: versioning.NewHistoryManagerFromConfig(m.Config()),
			gesture: interaction.NewDragGesture(m.Config()),
			layout:  layout.NewEngine(m.Config()),
		}
		s.sessions[m.ID()] = sess
	}
	return sess
}

// withSession loads the aggregate and runs fn under the session lock.
func (s *EditorService) withSession(ctx context.Context, mapID string, fn func(context.Context, *aggregates.MindMap, *editorSession) error) error {
	m, err := s.repo.GetByID(ctx, aggregates.MapID(mapID))
	if err != nil {
		return err
	}

	sess := s.session(m)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	return fn(ctx, m, sess)
}

// mutate runs one history-tracked mutation through the shared
// pipeline. Operations that leave the version untouched changed
// nothing and are skipped entirely: no history entry, no save, no
// events.
func (s *EditorService) mutate(ctx context.Context, mapID, label string, relayout bool, fn func(*aggregates.MindMap) error) error {
	return s.withSession(ctx, mapID, func(ctx context.Context, m *aggregates.MindMap, sess *editorSession) error {
		pre := m.Snapshot()
		preVersion := m.Version()

		if err := fn(m); err != nil {
			return err
		}
		if m.Version() == preVersion {
			return nil
		}

		if err := sess.history.Push(pre, label); err != nil {
			return err
		}
		if relayout {
			if err := s.relayout(m, sess); err != nil {
				return err
			}
		}
		if err := s.repo.Save(ctx, m); err != nil {
			return fmt.Errorf("failed to save map: %w", err)
		}
		s.publish(ctx, m)
		return nil
	})
}

// relayout recomputes and applies positions for the whole tree.
func (s *EditorService) relayout(m *aggregates.MindMap, sess *editorSession) error {
	start := time.Now()

	positions, err := sess.layout.Layout(m)
	if err != nil {
		return err
	}
	if err := m.ApplyLayout(positions); err != nil {
		return err
	}

	s.metrics.ObserveLayout(time.Since(start))
	return nil
}

// publish drains the aggregate's uncommitted events. Publishing is
// best-effort: a failing subscriber must not fail the edit, so errors
// are logged and the events are still marked committed.
func (s *EditorService) publish(ctx context.Context, m *aggregates.MindMap) {
	evts := m.GetUncommittedEvents()
	if len(evts) == 0 {
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishBatch(ctx, evts); err != nil {
			s.logger.Warn("Failed to publish domain events",
				zap.String("mapID", m.ID().String()),
				zap.Int("count", len(evts)),
				zap.Error(err),
			)
		}
	}
	m.MarkEventsAsCommitted()
}
