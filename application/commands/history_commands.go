package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/services"
	"github.com/shalles/web-mind/pkg/utils"
)

// UndoCommand rolls a map back to the state before the most recent
// mutation.
type UndoCommand struct {
	MapID string `json:"map_id" validate:"required"`
}

// Validate validates the command
func (cmd UndoCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// UndoHandler handles the UndoCommand
type UndoHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewUndoHandler creates a new handler instance
func NewUndoHandler(editor *services.EditorService, logger *zap.Logger) *UndoHandler {
	return &UndoHandler{editor: editor, logger: logger}
}

// Handle executes the undo command
func (h *UndoHandler) Handle(ctx context.Context, cmd UndoCommand) error {
	return h.editor.Undo(ctx, cmd.MapID)
}

// RedoCommand reapplies the most recently undone state.
type RedoCommand struct {
	MapID string `json:"map_id" validate:"required"`
}

// Validate validates the command
func (cmd RedoCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// RedoHandler handles the RedoCommand
type RedoHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewRedoHandler creates a new handler instance
func NewRedoHandler(editor *services.EditorService, logger *zap.Logger) *RedoHandler {
	return &RedoHandler{editor: editor, logger: logger}
}

// Handle executes the redo command
func (h *RedoHandler) Handle(ctx context.Context, cmd RedoCommand) error {
	return h.editor.Redo(ctx, cmd.MapID)
}
