package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/commands"
	"github.com/shalles/web-mind/application/services"
	"github.com/shalles/web-mind/domain/config"
	"github.com/shalles/web-mind/infrastructure/persistence/memory"
)

func newEditor(t *testing.T) *services.EditorService {
	t.Helper()
	repo := memory.NewMapRepository(nil, zap.NewNop())
	return services.NewEditorService(repo, nil, nil, config.DefaultDomainConfig(), zap.NewNop())
}

func TestCommandValidation(t *testing.T) {
	text := "x"

	tests := []struct {
		name    string
		cmd     interface{ Validate() error }
		wantErr bool
	}{
		{"create map ok", commands.CreateMapCommand{UserID: "u", Name: "m"}, false},
		{"create map missing user", commands.CreateMapCommand{Name: "m"}, true},
		{"create map empty name", commands.CreateMapCommand{UserID: "u"}, true},
		{"add child ok", commands.AddChildCommand{MapID: "m", ParentID: "p", Text: "t"}, false},
		{"add child bad direction", commands.AddChildCommand{MapID: "m", ParentID: "p", Direction: "sideways"}, true},
		{"add child left direction", commands.AddChildCommand{MapID: "m", ParentID: "p", Direction: "left"}, false},
		{"delete node missing id", commands.DeleteNodeCommand{MapID: "m"}, true},
		{"content patch ok", commands.UpdateNodeContentCommand{MapID: "m", NodeID: "n", Text: &text}, false},
		{"content patch empty", commands.UpdateNodeContentCommand{MapID: "m", NodeID: "n"}, true},
		{"style patch empty", commands.UpdateNodeStyleCommand{MapID: "m", NodeID: "n", Style: map[string]interface{}{}}, true},
		{"reorder ok", commands.ReorderNodeCommand{MapID: "m", NodeID: "n", Mode: commands.ReorderUp}, false},
		{"reorder bad mode", commands.ReorderNodeCommand{MapID: "m", NodeID: "n", Mode: "shuffle"}, true},
		{"reorder negative index", commands.ReorderNodeCommand{MapID: "m", NodeID: "n", Mode: commands.ReorderIndex, Index: -1}, true},
		{"connect ok", commands.ConnectNodesCommand{MapID: "m", SourceID: "a", TargetID: "b"}, false},
		{"connect missing target", commands.ConnectNodesCommand{MapID: "m", SourceID: "a"}, true},
		{"begin drag ok", commands.BeginDragCommand{MapID: "m", NodeID: "n"}, false},
		{"tick snap negative progress", commands.TickSnapCommand{MapID: "m", Progress: -0.1}, true},
		{"undo missing map", commands.UndoCommand{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReorderNodeHandlerModes(t *testing.T) {
	ctx := context.Background()
	editor := newEditor(t)
	logger := zap.NewNop()

	m, err := editor.CreateMap(ctx, "", "u", "Modes", "")
	require.NoError(t, err)
	mapID := m.ID().String()

	first, err := editor.AddChild(ctx, mapID, m.RootID().String(), "first", "")
	require.NoError(t, err)
	second, err := editor.AddChild(ctx, mapID, m.RootID().String(), "second", "")
	require.NoError(t, err)

	handler := commands.NewReorderNodeHandler(editor, logger)

	moved, err := handler.Handle(ctx, commands.ReorderNodeCommand{
		MapID: mapID, NodeID: second.ID().String(), Mode: commands.ReorderUp,
	})
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = handler.Handle(ctx, commands.ReorderNodeCommand{
		MapID: mapID, NodeID: second.ID().String(), Mode: commands.ReorderDown,
	})
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = handler.Handle(ctx, commands.ReorderNodeCommand{
		MapID: mapID, NodeID: first.ID().String(), Mode: commands.ReorderIndex, Index: 1,
	})
	require.NoError(t, err)
	assert.True(t, moved)
}

func TestCreateMapHandlerDefaults(t *testing.T) {
	ctx := context.Background()
	editor := newEditor(t)
	handler := commands.NewCreateMapHandler(editor, zap.NewNop())

	m, err := handler.Handle(ctx, commands.CreateMapCommand{
		UserID: "u",
		Name:   "Fresh",
	})
	require.NoError(t, err)
	require.NotNil(t, m)

	// An omitted root content falls back to the configured default.
	assert.Equal(t, config.DefaultDomainConfig().DefaultRootContent, m.Root().Content().Text())
}

func TestImportSnapshotCommandRequiresDocument(t *testing.T) {
	cmd := commands.ImportSnapshotCommand{MapID: "m"}
	require.Error(t, cmd.Validate())
}
