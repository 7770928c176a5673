package aggregates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shalles/web-mind/domain/core/entities"
	"github.com/shalles/web-mind/domain/core/valueobjects"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

func TestMindMap_Snapshot(t *testing.T) {
	m := newTestMap(t)
	a, err := m.AddChild(m.RootID(), mustContent("A"))
	require.NoError(t, err)
	a1, err := m.AddChild(a.ID(), mustContent("A1"))
	require.NoError(t, err)
	b, err := m.AddChildWithDirection(m.RootID(), mustContent("B"), valueobjects.DirectionLeft)
	require.NoError(t, err)
	require.NoError(t, m.UpdateNodeStyle(b.ID(), valueobjects.Style{"color": "#336699"}))
	rel, err := m.ConnectNodes(a1.ID(), b.ID(), "see also")
	require.NoError(t, err)

	snap := m.Snapshot()
	require.Len(t, snap.Nodes, 4)
	require.Len(t, snap.Relationships, 1)

	// Depth-first pre-order from the root.
	assert.Equal(t, m.RootID().String(), snap.Nodes[0].ID)
	assert.Equal(t, a.ID().String(), snap.Nodes[1].ID)
	assert.Equal(t, a1.ID().String(), snap.Nodes[2].ID)
	assert.Equal(t, b.ID().String(), snap.Nodes[3].ID)

	root := snap.RootNode()
	require.NotNil(t, root)
	assert.Empty(t, root.ParentID)
	assert.Equal(t, 0, root.Level)

	assert.Equal(t, "left", snap.Nodes[3].Direction)
	assert.Equal(t, "#336699", snap.Nodes[3].Style["color"])
	assert.Equal(t, rel.ID().String(), snap.Relationships[0].ID)
	assert.Equal(t, "see also", snap.Relationships[0].Label)

	t.Run("snapshot is a deep copy", func(t *testing.T) {
		snap.Nodes[3].Style["color"] = "#000000"
		snap.Nodes[0].Children[0] = "tampered"

		assert.Equal(t, "#336699", mustGetNode(t, m, b.ID()).Style()["color"])
		assert.Equal(t, a.ID(), m.Root().Children()[0])
	})

	t.Run("equal state encodes identically", func(t *testing.T) {
		first, err := json.Marshal(m.Snapshot())
		require.NoError(t, err)
		second, err := json.Marshal(m.Snapshot())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestMindMap_RestoreSnapshot(t *testing.T) {
	t.Run("round trip preserves the whole state", func(t *testing.T) {
		m := newTestMap(t)
		a, err := m.AddChild(m.RootID(), mustContent("A"))
		require.NoError(t, err)
		a1, err := m.AddChild(a.ID(), mustContent("A1"))
		require.NoError(t, err)
		b, err := m.AddChildWithDirection(m.RootID(), mustContent("B"), valueobjects.DirectionLeft)
		require.NoError(t, err)
		_, err = m.ConnectNodes(a1.ID(), b.ID(), "link")
		require.NoError(t, err)
		require.NoError(t, m.SetNodePosition(a.ID(), mustPosition(150, -20)))
		_, err = m.ToggleNodeExpansion(a.ID())
		require.NoError(t, err)

		before := m.Snapshot()

		// Mutate away from the captured state, then restore.
		_, err = m.DeleteNode(a.ID())
		require.NoError(t, err)
		require.NoError(t, m.RestoreSnapshot(before, "undo"))

		after := m.Snapshot()
		assert.Equal(t, before, after)
		assert.NoError(t, m.Validate())

		restored := mustGetNode(t, m, a.ID())
		assert.Equal(t, 150.0, restored.Position().X())
		assert.False(t, restored.Expanded())

		events := m.GetUncommittedEvents()
		last := events[len(events)-1]
		assert.Equal(t, "map.restored", last.GetEventType())
	})

	t.Run("restore bumps the version", func(t *testing.T) {
		m := newTestMap(t)
		snap := m.Snapshot()
		versionBefore := m.Version()

		require.NoError(t, m.RestoreSnapshot(snap, "redo"))
		assert.Equal(t, versionBefore+1, m.Version())
	})

	t.Run("rejected snapshots leave the map untouched", func(t *testing.T) {
		m := newTestMap(t)
		keeper, err := m.AddChild(m.RootID(), mustContent("Keeper"))
		require.NoError(t, err)

		bad := m.Snapshot()
		bad.Nodes[1].ParentID = "missing-parent"

		err = m.RestoreSnapshot(bad, "import")
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
		assert.True(t, m.HasNode(keeper.ID()))
		assert.NoError(t, m.Validate())
	})
}

func TestMindMap_RestoreSnapshot_Corruption(t *testing.T) {
	base := func(t *testing.T) (*MindMap, *MapSnapshot) {
		m := newTestMap(t)
		a, err := m.AddChild(m.RootID(), mustContent("A"))
		require.NoError(t, err)
		b, err := m.AddChild(a.ID(), mustContent("B"))
		require.NoError(t, err)
		_, err = m.ConnectNodes(a.ID(), b.ID(), "")
		require.NoError(t, err)
		return m, m.Snapshot()
	}

	tests := []struct {
		name    string
		corrupt func(s *MapSnapshot)
	}{
		{
			name:    "nil snapshot",
			corrupt: nil,
		},
		{
			name:    "empty node list",
			corrupt: func(s *MapSnapshot) { s.Nodes = nil },
		},
		{
			name: "no root",
			corrupt: func(s *MapSnapshot) {
				s.Nodes[0].ParentID = s.Nodes[1].ID
			},
		},
		{
			name: "two roots",
			corrupt: func(s *MapSnapshot) {
				s.Nodes[1].ParentID = ""
			},
		},
		{
			name: "duplicate node ID",
			corrupt: func(s *MapSnapshot) {
				s.Nodes[2].ID = s.Nodes[1].ID
			},
		},
		{
			name: "missing parent",
			corrupt: func(s *MapSnapshot) {
				s.Nodes[2].ParentID = "ghost"
			},
		},
		{
			name: "child missing from parent list",
			corrupt: func(s *MapSnapshot) {
				s.Nodes[1].Children = nil
			},
		},
		{
			name: "child listed twice",
			corrupt: func(s *MapSnapshot) {
				s.Nodes[1].Children = append(s.Nodes[1].Children, s.Nodes[1].Children[0])
			},
		},
		{
			name: "relationship with missing endpoint",
			corrupt: func(s *MapSnapshot) {
				s.Relationships[0].TargetID = "ghost"
			},
		},
		{
			name: "relationship without ID",
			corrupt: func(s *MapSnapshot) {
				s.Relationships[0].ID = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, snap := base(t)
			if tt.corrupt == nil {
				snap = nil
			} else {
				tt.corrupt(snap)
			}

			err := m.RestoreSnapshot(snap, "import")
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
			assert.NoError(t, m.Validate())
		})
	}
}

func TestMindMap_RestoreSnapshot_NormalizesLevels(t *testing.T) {
	m := newTestMap(t)
	a, err := m.AddChild(m.RootID(), mustContent("A"))
	require.NoError(t, err)
	_, err = m.AddChild(a.ID(), mustContent("B"))
	require.NoError(t, err)

	snap := m.Snapshot()
	// Hand-edited imports may carry wrong levels; the tree shape wins.
	snap.Nodes[1].Level = 7
	snap.Nodes[2].Level = 0

	require.NoError(t, m.RestoreSnapshot(snap, "import"))

	first, err := valueobjects.NewNodeIDFromString(snap.Nodes[1].ID)
	require.NoError(t, err)
	second, err := valueobjects.NewNodeIDFromString(snap.Nodes[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, mustGetNode(t, m, first).Level())
	assert.Equal(t, 2, mustGetNode(t, m, second).Level())
	assert.NoError(t, m.Validate())
}

func TestReconstructMindMap(t *testing.T) {
	source := newTestMap(t)
	a, err := source.AddChild(source.RootID(), mustContent("A"))
	require.NoError(t, err)
	b, err := source.AddChild(source.RootID(), mustContent("B"))
	require.NoError(t, err)
	_, err = source.ConnectNodes(a.ID(), b.ID(), "pairs with")
	require.NoError(t, err)
	snap := source.Snapshot()

	createdAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	updatedAt := createdAt.Add(2 * time.Hour)

	m, err := ReconstructMindMap(source.ID(), "user-1", "Restored", createdAt, updatedAt, 17, snap, nil)
	require.NoError(t, err)

	assert.Equal(t, source.ID(), m.ID())
	assert.Equal(t, int64(17), m.Version())
	assert.Equal(t, createdAt, m.CreatedAt())
	assert.Equal(t, updatedAt, m.UpdatedAt())
	assert.Equal(t, 3, m.NodeCount())
	assert.Equal(t, 1, m.RelationshipCount())
	assert.Empty(t, m.GetUncommittedEvents())
	assert.NoError(t, m.Validate())
	assert.Equal(t, snap, m.Snapshot())

	t.Run("requires identifiers", func(t *testing.T) {
		_, err := ReconstructMindMap("", "user-1", "x", createdAt, updatedAt, 1, snap, nil)
		assert.Error(t, err)

		_, err = ReconstructMindMap(source.ID(), "", "x", createdAt, updatedAt, 1, snap, nil)
		assert.Error(t, err)
	})
}

func mustGetNode(t *testing.T, m *MindMap, id valueobjects.NodeID) *entities.Node {
	t.Helper()
	node, err := m.GetNode(id)
	require.NoError(t, err)
	return node
}

func BenchmarkMindMap_Snapshot(b *testing.B) {
	m, err := NewMindMap("bench", "Bench", "", nil)
	if err != nil {
		b.Fatal(err)
	}
	parent := m.RootID()
	for i := 0; i < 200; i++ {
		node, err := m.AddChild(parent, mustContent("node"))
		if err != nil {
			b.Fatal(err)
		}
		if i%10 == 0 {
			parent = node.ID()
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if snap := m.Snapshot(); len(snap.Nodes) == 0 {
			b.Fatal("empty snapshot")
		}
	}
}
