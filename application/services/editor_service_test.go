package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/services"
	"github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/domain/core/entities"
	"github.com/shalles/web-mind/domain/interaction"
	"github.com/shalles/web-mind/infrastructure/persistence/memory"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

func newTestEditor(t *testing.T) *services.EditorService {
	t.Helper()
	repo := memory.NewMapRepository(nil, zap.NewNop())
	return services.NewEditorService(repo, nil, nil, config.DefaultDomainConfig(), zap.NewNop())
}

func createTestMap(t *testing.T, svc *services.EditorService) *aggregates.MindMap {
	t.Helper()
	m, err := svc.CreateMap(context.Background(), "", "user-1", "Test Map", "Central Topic")
	require.NoError(t, err)
	return m
}

func addChild(t *testing.T, svc *services.EditorService, m *aggregates.MindMap, parentID, text string) *entities.Node {
	t.Helper()
	node, err := svc.AddChild(context.Background(), m.ID().String(), parentID, text, "")
	require.NoError(t, err)
	return node
}

func TestEditorServiceCreateMap(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a map with a laid-out root", func(t *testing.T) {
		svc := newTestEditor(t)

		m, err := svc.CreateMap(ctx, "", "user-1", "My Map", "Center")
		require.NoError(t, err)

		assert.Equal(t, "My Map", m.Name())
		assert.Equal(t, "user-1", m.UserID())
		assert.Equal(t, 1, m.NodeCount())
		assert.Equal(t, "Center", m.Root().Content().Text())
	})

	t.Run("rejects duplicate explicit IDs", func(t *testing.T) {
		svc := newTestEditor(t)

		_, err := svc.CreateMap(ctx, "map-1", "user-1", "First", "")
		require.NoError(t, err)

		_, err = svc.CreateMap(ctx, "map-1", "user-1", "Second", "")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.ErrorTypeConflict, pkgerrors.GetAppError(err).Type)
	})

	t.Run("delete removes the map", func(t *testing.T) {
		svc := newTestEditor(t)
		m := createTestMap(t, svc)

		require.NoError(t, svc.DeleteMap(ctx, m.ID().String()))

		_, err := svc.AddChild(ctx, m.ID().String(), m.RootID().String(), "orphan", "")
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestEditorServiceUndoRedo(t *testing.T) {
	ctx := context.Background()
	svc := newTestEditor(t)
	m := createTestMap(t, svc)
	mapID := m.ID().String()

	child := addChild(t, svc, m, m.RootID().String(), "first idea")
	assert.Equal(t, 2, m.NodeCount())

	require.NoError(t, svc.Undo(ctx, mapID))
	assert.Equal(t, 1, m.NodeCount())
	assert.False(t, m.HasNode(child.ID()))

	require.NoError(t, svc.Redo(ctx, mapID))
	assert.Equal(t, 2, m.NodeCount())
	assert.True(t, m.HasNode(child.ID()))

	t.Run("redo stack clears on a fresh edit", func(t *testing.T) {
		require.NoError(t, svc.Undo(ctx, mapID))
		addChild(t, svc, m, m.RootID().String(), "new branch")

		err := svc.Redo(ctx, mapID)
		require.Error(t, err)
	})

	t.Run("undo on a fresh map fails", func(t *testing.T) {
		other := createTestMap(t, svc)
		err := svc.Undo(ctx, other.ID().String())
		require.Error(t, err)
	})
}

func TestEditorServiceHistoryStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestEditor(t)
	m := createTestMap(t, svc)
	mapID := m.ID().String()

	status, err := svc.HistoryStatus(ctx, mapID)
	require.NoError(t, err)
	assert.False(t, status.CanUndo)
	assert.False(t, status.CanRedo)

	addChild(t, svc, m, m.RootID().String(), "a")
	addChild(t, svc, m, m.RootID().String(), "b")

	status, err = svc.HistoryStatus(ctx, mapID)
	require.NoError(t, err)
	assert.True(t, status.CanUndo)
	assert.Equal(t, 2, status.UndoDepth)
	assert.Equal(t, "add child", status.UndoLabel)

	require.NoError(t, svc.Undo(ctx, mapID))

	status, err = svc.HistoryStatus(ctx, mapID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.UndoDepth)
	assert.Equal(t, 1, status.RedoDepth)
	assert.True(t, status.CanRedo)
	assert.Equal(t, "add child", status.RedoLabel)
}

func TestEditorServiceContentPatch(t *testing.T) {
	ctx := context.Background()
	svc := newTestEditor(t)
	m := createTestMap(t, svc)
	mapID := m.ID().String()
	child := addChild(t, svc, m, m.RootID().String(), "draft")

	text := "final"
	require.NoError(t, svc.UpdateNodeContent(ctx, mapID, child.ID().String(), services.ContentPatch{Text: &text}))

	got, err := m.GetNode(child.ID())
	require.NoError(t, err)
	assert.Equal(t, "final", got.Content().Text())

	note := "remember this"
	require.NoError(t, svc.UpdateNodeContent(ctx, mapID, child.ID().String(), services.ContentPatch{Note: &note}))

	got, err = m.GetNode(child.ID())
	require.NoError(t, err)
	assert.Equal(t, "final", got.Content().Text(), "text survives a note-only patch")
	assert.Equal(t, "remember this", got.Content().Note())
}

func TestEditorServiceDeleteNodeCascade(t *testing.T) {
	ctx := context.Background()
	svc := newTestEditor(t)
	m := createTestMap(t, svc)
	mapID := m.ID().String()

	branch := addChild(t, svc, m, m.RootID().String(), "branch")
	leaf := addChild(t, svc, m, branch.ID().String(), "leaf")
	keeper := addChild(t, svc, m, m.RootID().String(), "keeper")

	rel, err := svc.ConnectNodes(ctx, mapID, leaf.ID().String(), keeper.ID().String(), "relates to")
	require.NoError(t, err)

	res, err := svc.DeleteNode(ctx, mapID, branch.ID().String())
	require.NoError(t, err)

	assert.Len(t, res.RemovedNodeIDs, 2)
	assert.Len(t, res.RemovedRelationshipIDs, 1)
	assert.False(t, m.HasNode(branch.ID()))
	assert.False(t, m.HasNode(leaf.ID()))
	assert.True(t, m.HasNode(keeper.ID()))
	_ = rel

	t.Run("undo restores the whole subtree", func(t *testing.T) {
		require.NoError(t, svc.Undo(ctx, mapID))
		assert.True(t, m.HasNode(branch.ID()))
		assert.True(t, m.HasNode(leaf.ID()))
	})
}

func TestEditorServiceReorder(t *testing.T) {
	ctx := context.Background()
	svc := newTestEditor(t)
	m := createTestMap(t, svc)
	mapID := m.ID().String()

	first := addChild(t, svc, m, m.RootID().String(), "first")
	second := addChild(t, svc, m, m.RootID().String(), "second")

	moved, err := svc.MoveNodeUp(ctx, mapID, second.ID().String())
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = svc.MoveNodeUp(ctx, mapID, second.ID().String())
	require.NoError(t, err)
	assert.False(t, moved, "already first")

	moved, err = svc.MoveNodeDown(ctx, mapID, first.ID().String())
	require.NoError(t, err)
	assert.False(t, moved, "already last")

	moved, err = svc.ReorderNode(ctx, mapID, first.ID().String(), 0)
	require.NoError(t, err)
	assert.True(t, moved)
}

func TestEditorServiceToggleExpansion(t *testing.T) {
	ctx := context.Background()
	svc := newTestEditor(t)
	m := createTestMap(t, svc)
	mapID := m.ID().String()
	child := addChild(t, svc, m, m.RootID().String(), "child")

	expanded, err := svc.ToggleNodeExpansion(ctx, mapID, child.ID().String())
	require.NoError(t, err)
	assert.False(t, expanded)

	expanded, err = svc.ToggleNodeExpansion(ctx, mapID, child.ID().String())
	require.NoError(t, err)
	assert.True(t, expanded)
}

func TestEditorServiceDragFreeDrop(t *testing.T) {
	ctx := context.Background()
	svc := newTestEditor(t)
	m := createTestMap(t, svc)
	mapID := m.ID().String()
	child := addChild(t, svc, m, m.RootID().String(), "movable")

	require.NoError(t, svc.BeginDrag(ctx, mapID, child.ID().String()))

	// Far away from every node center, so no target captures.
	target, err := svc.UpdateDrag(ctx, mapID, 900, 900)
	require.NoError(t, err)
	assert.Nil(t, target)

	res, err := svc.EndDrag(ctx, mapID)
	require.NoError(t, err)
	assert.Equal(t, interaction.EndPositionCommitted, res.Kind)
	assert.Equal(t, 900.0, res.Position.X())
	assert.Equal(t, 900.0, res.Position.Y())

	got, err := m.GetNode(child.ID())
	require.NoError(t, err)
	assert.Equal(t, 900.0, got.Position().X())

	status, err := svc.HistoryStatus(ctx, mapID)
	require.NoError(t, err)
	assert.Equal(t, "move node", status.UndoLabel)
}

func TestEditorServiceDragSnapReparent(t *testing.T) {
	ctx := context.Background()
	svc := newTestEditor(t)
	m := createTestMap(t, svc)
	mapID := m.ID().String()

	dragged := addChild(t, svc, m, m.RootID().String(), "dragged")
	newParent := addChild(t, svc, m, m.RootID().String(), "target")

	targetNode, err := m.GetNode(newParent.ID())
	require.NoError(t, err)
	dropAt := targetNode.Position()

	require.NoError(t, svc.BeginDrag(ctx, mapID, dragged.ID().String()))

	snap, err := svc.UpdateDrag(ctx, mapID, dropAt.X(), dropAt.Y())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, newParent.ID(), snap.NodeID)

	res, err := svc.EndDrag(ctx, mapID)
	require.NoError(t, err)
	require.Equal(t, interaction.EndSnapStarted, res.Kind)
	require.NotNil(t, res.Animation)
	assert.Equal(t, newParent.ID(), res.Animation.TargetID)

	mid, err := svc.TickSnap(ctx, mapID, 0.5)
	require.NoError(t, err)
	assert.False(t, mid.Done)
	assert.Nil(t, mid.Commit)

	final, err := svc.TickSnap(ctx, mapID, 1)
	require.NoError(t, err)
	require.True(t, final.Done)
	require.NotNil(t, final.Commit)
	assert.Equal(t, interaction.CommitReparented, final.Commit.Kind)

	got, err := m.GetNode(dragged.ID())
	require.NoError(t, err)
	assert.Equal(t, newParent.ID(), got.ParentID())

	status, err := svc.DragStatus(ctx, mapID)
	require.NoError(t, err)
	assert.Equal(t, interaction.StateIdle, status.State)
}

func TestEditorServiceAbortDrag(t *testing.T) {
	ctx := context.Background()
	svc := newTestEditor(t)
	m := createTestMap(t, svc)
	mapID := m.ID().String()
	child := addChild(t, svc, m, m.RootID().String(), "child")

	before, err := m.GetNode(child.ID())
	require.NoError(t, err)
	wantX := before.Position().X()

	require.NoError(t, svc.BeginDrag(ctx, mapID, child.ID().String()))
	_, err = svc.UpdateDrag(ctx, mapID, 500, 500)
	require.NoError(t, err)
	require.NoError(t, svc.AbortDrag(ctx, mapID))

	after, err := m.GetNode(child.ID())
	require.NoError(t, err)
	assert.Equal(t, wantX, after.Position().X(), "abort leaves the committed position alone")

	status, err := svc.DragStatus(ctx, mapID)
	require.NoError(t, err)
	assert.Equal(t, interaction.StateIdle, status.State)
	assert.False(t, status.HasNode)
}

func TestEditorServiceSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestEditor(t)
	m := createTestMap(t, svc)
	mapID := m.ID().String()

	addChild(t, svc, m, m.RootID().String(), "keep me")
	snap := m.Snapshot()

	extra := addChild(t, svc, m, m.RootID().String(), "transient")
	require.Equal(t, 3, m.NodeCount())

	require.NoError(t, svc.ImportSnapshot(ctx, mapID, snap))
	assert.Equal(t, 2, m.NodeCount())
	assert.False(t, m.HasNode(extra.ID()))

	t.Run("import is undoable", func(t *testing.T) {
		require.NoError(t, svc.Undo(ctx, mapID))
		assert.Equal(t, 3, m.NodeCount())
	})
}

func TestEditorServiceNoopMutationSkipsHistory(t *testing.T) {
	ctx := context.Background()
	svc := newTestEditor(t)
	m := createTestMap(t, svc)
	mapID := m.ID().String()
	child := addChild(t, svc, m, m.RootID().String(), "stable")

	status, err := svc.HistoryStatus(ctx, mapID)
	require.NoError(t, err)
	depthBefore := status.UndoDepth

	// Re-applying the identical text changes nothing.
	text := "stable"
	require.NoError(t, svc.UpdateNodeContent(ctx, mapID, child.ID().String(), services.ContentPatch{Text: &text}))

	status, err = svc.HistoryStatus(ctx, mapID)
	require.NoError(t, err)
	assert.Equal(t, depthBefore, status.UndoDepth)
}
