package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/domain/core/entities"
	"github.com/shalles/web-mind/domain/core/valueobjects"
)

// Expectations below assume the default config: 100x40 boxes, 40
// horizontal and 20 vertical spacing.

func TestEngine_Layout_RootOnly(t *testing.T) {
	m := newTestMap(t)
	e := NewEngine(nil)

	result, err := e.Layout(m)
	require.NoError(t, err)
	require.Len(t, result, 1)

	pos := result[m.RootID()]
	assert.Equal(t, 0.0, pos.X())
	assert.Equal(t, 0.0, pos.Y())
}

func TestEngine_Layout_RightColumn(t *testing.T) {
	m := newTestMap(t)
	a := addChild(t, m, m.RootID(), "A")
	b := addChild(t, m, m.RootID(), "B")

	result, err := NewEngine(nil).Layout(m)
	require.NoError(t, err)
	require.Len(t, result, 3)

	// x = 0 + 100/2 + 40 + 100/2 = 140; the pair centers on the root.
	assertPos(t, result, a.ID(), 140, -30)
	assertPos(t, result, b.ID(), 140, 30)
}

func TestEngine_Layout_BothSides(t *testing.T) {
	m := newTestMap(t)
	right := addChild(t, m, m.RootID(), "R")
	left, err := m.AddChildWithDirection(m.RootID(), mustContent("L"), valueobjects.DirectionLeft)
	require.NoError(t, err)

	result, err := NewEngine(nil).Layout(m)
	require.NoError(t, err)

	// One child per side, each alone in its group, centered on the root.
	assertPos(t, result, right.ID(), 140, 0)
	assertPos(t, result, left.ID(), -140, 0)
}

func TestEngine_Layout_NestedSubtree(t *testing.T) {
	m := newTestMap(t)
	a := addChild(t, m, m.RootID(), "A")
	b := addChild(t, m, m.RootID(), "B")
	c := addChild(t, m, a.ID(), "C")
	d := addChild(t, m, a.ID(), "D")

	result, err := NewEngine(nil).Layout(m)
	require.NoError(t, err)

	// A's extent grows to its children's span (100), pushing B down.
	assertPos(t, result, a.ID(), 140, -30)
	assertPos(t, result, b.ID(), 140, 60)
	assertPos(t, result, c.ID(), 280, -60)
	assertPos(t, result, d.ID(), 280, 0)
}

func TestEngine_Layout_LeftSideMirrors(t *testing.T) {
	m := newTestMap(t)
	a, err := m.AddChildWithDirection(m.RootID(), mustContent("A"), valueobjects.DirectionLeft)
	require.NoError(t, err)
	b := addChild(t, m, a.ID(), "B")

	result, err := NewEngine(nil).Layout(m)
	require.NoError(t, err)

	assertPos(t, result, a.ID(), -140, 0)
	assertPos(t, result, b.ID(), -280, 0)
}

func TestEngine_Layout_CollapsedSubtreeSkipped(t *testing.T) {
	m := newTestMap(t)
	a := addChild(t, m, m.RootID(), "A")
	hidden := addChild(t, m, a.ID(), "Hidden")
	b := addChild(t, m, m.RootID(), "B")

	stale := mustPos(t, 999, 999)
	require.NoError(t, m.SetNodePosition(hidden.ID(), stale))
	_, err := m.ToggleNodeExpansion(a.ID())
	require.NoError(t, err)

	result, err := NewEngine(nil).Layout(m)
	require.NoError(t, err)

	_, visited := result[hidden.ID()]
	assert.False(t, visited)

	// With A collapsed its extent is its own height again.
	assertPos(t, result, a.ID(), 140, -30)
	assertPos(t, result, b.ID(), 140, 30)

	// Applying the result leaves the hidden node untouched.
	require.NoError(t, m.ApplyLayout(result))
	node, err := m.GetNode(hidden.ID())
	require.NoError(t, err)
	assert.True(t, stale.Equals(node.Position()))
}

func TestEngine_Layout_CollapsedRoot(t *testing.T) {
	m := newTestMap(t)
	a := addChild(t, m, m.RootID(), "A")
	_, err := m.ToggleNodeExpansion(m.RootID())
	require.NoError(t, err)

	result, err := NewEngine(nil).Layout(m)
	require.NoError(t, err)

	require.Len(t, result, 1)
	_, visited := result[a.ID()]
	assert.False(t, visited)
}

func TestEngine_Layout_StyleSizeOverrides(t *testing.T) {
	m := newTestMap(t)
	wide := addChild(t, m, m.RootID(), "Wide")
	require.NoError(t, m.UpdateNodeStyle(wide.ID(), valueobjects.Style{
		"width":  200.0,
		"height": 80.0,
	}))
	child := addChild(t, m, wide.ID(), "Child")

	result, err := NewEngine(nil).Layout(m)
	require.NoError(t, err)

	// Root half (50) + spacing (40) + wide half (100).
	assertPos(t, result, wide.ID(), 190, 0)
	// Wide half (100) + spacing (40) + child half (50).
	assertPos(t, result, child.ID(), 380, 0)
}

func TestEngine_Layout_Deterministic(t *testing.T) {
	build := func() *aggregates.MindMap {
		m, err := aggregates.NewMindMap("user-1", "Det", "Root", nil)
		if err != nil {
			t.Fatal(err)
		}
		a, _ := m.AddChild(m.RootID(), mustContent("A"))
		b, _ := m.AddChildWithDirection(m.RootID(), mustContent("B"), valueobjects.DirectionLeft)
		_, _ = m.AddChild(a.ID(), mustContent("A1"))
		_, _ = m.AddChild(a.ID(), mustContent("A2"))
		_, _ = m.AddChild(b.ID(), mustContent("B1"))
		return m
	}

	first := build()
	second := build()

	r1, err := NewEngine(nil).Layout(first)
	require.NoError(t, err)
	r2, err := NewEngine(nil).Layout(second)
	require.NoError(t, err)

	require.Equal(t, len(r1), len(r2))

	// IDs differ between the two maps; compare by tree order instead.
	n1 := first.NodesInTreeOrder()
	n2 := second.NodesInTreeOrder()
	require.Equal(t, len(n1), len(n2))
	for i := range n1 {
		p1, ok1 := r1[n1[i].ID()]
		p2, ok2 := r2[n2[i].ID()]
		require.Equal(t, ok1, ok2)
		if ok1 {
			assert.Equal(t, p1.X(), p2.X())
			assert.Equal(t, p1.Y(), p2.Y())
		}
	}
}

func TestEngine_Layout_MixedSidesBelowRootPrefersLeft(t *testing.T) {
	m := newTestMap(t)
	a := addChild(t, m, m.RootID(), "A")
	b := addChild(t, m, a.ID(), "B")
	c := addChild(t, m, a.ID(), "C")

	// Imported documents can carry mixed sides below the root; forge one.
	snap := m.Snapshot()
	for i := range snap.Nodes {
		switch snap.Nodes[i].ID {
		case b.ID().String():
			snap.Nodes[i].Direction = "left"
		case c.ID().String():
			snap.Nodes[i].Direction = "right"
		}
	}
	require.NoError(t, m.RestoreSnapshot(snap, "import"))

	result, err := NewEngine(nil).Layout(m)
	require.NoError(t, err)

	// Left wins: B is laid out on A's left, C keeps its stale position.
	assertPos(t, result, b.ID(), 0, 0)
	_, visited := result[c.ID()]
	assert.False(t, visited)
}

func TestEngine_Layout_NilMap(t *testing.T) {
	_, err := NewEngine(nil).Layout(nil)
	assert.Error(t, err)
}

func TestEngine_NodeSizes(t *testing.T) {
	m := newTestMap(t)
	plain := addChild(t, m, m.RootID(), "plain")
	styled := addChild(t, m, m.RootID(), "styled")
	require.NoError(t, m.UpdateNodeStyle(styled.ID(), valueobjects.Style{
		"width":  320,
		"height": 64.5,
	}))

	e := NewEngine(nil)
	assert.Equal(t, 100.0, e.NodeWidth(plain))
	assert.Equal(t, 40.0, e.NodeHeight(plain))
	assert.Equal(t, 320.0, e.NodeWidth(styled))
	assert.Equal(t, 64.5, e.NodeHeight(styled))
}

func newTestMap(t *testing.T) *aggregates.MindMap {
	t.Helper()
	m, err := aggregates.NewMindMap("user-1", "Layout", "Root", nil)
	require.NoError(t, err)
	return m
}

func addChild(t *testing.T, m *aggregates.MindMap, parentID valueobjects.NodeID, text string) *entities.Node {
	t.Helper()
	node, err := m.AddChild(parentID, mustContent(text))
	require.NoError(t, err)
	return node
}

func mustContent(text string) valueobjects.NodeContent {
	c, err := valueobjects.NewNodeContent(text)
	if err != nil {
		panic(err)
	}
	return c
}

func mustPos(t *testing.T, x, y float64) valueobjects.Position {
	t.Helper()
	p, err := valueobjects.NewPosition(x, y)
	require.NoError(t, err)
	return p
}

func assertPos(t *testing.T, result Result, id valueobjects.NodeID, wantX, wantY float64) {
	t.Helper()
	pos, ok := result[id]
	require.True(t, ok, "node %s missing from layout result", id.String())
	assert.InDelta(t, wantX, pos.X(), 1e-9)
	assert.InDelta(t, wantY, pos.Y(), 1e-9)
}

func BenchmarkEngine_Layout(b *testing.B) {
	m, err := aggregates.NewMindMap("bench", "Bench", "", nil)
	if err != nil {
		b.Fatal(err)
	}
	content := mustContent("node")
	frontier := []valueobjects.NodeID{m.RootID()}
	for len(frontier) > 0 && m.NodeCount() < 500 {
		next := []valueobjects.NodeID{}
		for _, id := range frontier {
			for i := 0; i < 3 && m.NodeCount() < 500; i++ {
				node, err := m.AddChild(id, content)
				if err != nil {
					b.Fatal(err)
				}
				next = append(next, node.ID())
			}
		}
		frontier = next
	}

	e := NewEngine(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Layout(m); err != nil {
			b.Fatal(err)
		}
	}
}
