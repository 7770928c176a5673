// Package commands defines the write-side operations of the editor.
// Each command carries its input, validates itself, and is executed by
// a handler that delegates to the editor service.
package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/services"
	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/pkg/utils"
)

// CreateMapCommand creates a new mind map with its root node.
type CreateMapCommand struct {
	MapID       string `json:"map_id"`
	UserID      string `json:"user_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	RootContent string `json:"root_content" validate:"max=10000"`

	// Result carries the created map back to the caller. The dispatch
	// adapter fills it in, never the client.
	Result *aggregates.MindMap `json:"-"`
}

// Validate validates the command
func (cmd CreateMapCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// CreateMapHandler handles the CreateMapCommand
type CreateMapHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewCreateMapHandler creates a new handler instance
func NewCreateMapHandler(editor *services.EditorService, logger *zap.Logger) *CreateMapHandler {
	return &CreateMapHandler{editor: editor, logger: logger}
}

// Handle executes the create map command
func (h *CreateMapHandler) Handle(ctx context.Context, cmd CreateMapCommand) (*aggregates.MindMap, error) {
	m, err := h.editor.CreateMap(ctx, cmd.MapID, cmd.UserID, cmd.Name, cmd.RootContent)
	if err != nil {
		h.logger.Warn("Create map failed",
			zap.String("userID", cmd.UserID),
			zap.Error(err),
		)
		return nil, err
	}
	return m, nil
}

// DeleteMapCommand removes a mind map entirely.
type DeleteMapCommand struct {
	MapID string `json:"map_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteMapCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// DeleteMapHandler handles the DeleteMapCommand
type DeleteMapHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewDeleteMapHandler creates a new handler instance
func NewDeleteMapHandler(editor *services.EditorService, logger *zap.Logger) *DeleteMapHandler {
	return &DeleteMapHandler{editor: editor, logger: logger}
}

// Handle executes the delete map command
func (h *DeleteMapHandler) Handle(ctx context.Context, cmd DeleteMapCommand) error {
	return h.editor.DeleteMap(ctx, cmd.MapID)
}

// ImportSnapshotCommand replaces a map's whole state with an imported
// document.
type ImportSnapshotCommand struct {
	MapID    string                  `json:"map_id" validate:"required"`
	Snapshot *aggregates.MapSnapshot `json:"snapshot" validate:"required"`
}

// Validate validates the command
func (cmd ImportSnapshotCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// ImportSnapshotHandler handles the ImportSnapshotCommand
type ImportSnapshotHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewImportSnapshotHandler creates a new handler instance
func NewImportSnapshotHandler(editor *services.EditorService, logger *zap.Logger) *ImportSnapshotHandler {
	return &ImportSnapshotHandler{editor: editor, logger: logger}
}

// Handle executes the import snapshot command
func (h *ImportSnapshotHandler) Handle(ctx context.Context, cmd ImportSnapshotCommand) error {
	if err := h.editor.ImportSnapshot(ctx, cmd.MapID, cmd.Snapshot); err != nil {
		h.logger.Warn("Snapshot import rejected",
			zap.String("mapID", cmd.MapID),
			zap.Error(err),
		)
		return err
	}
	h.logger.Info("Snapshot imported",
		zap.String("mapID", cmd.MapID),
		zap.Int("nodes", len(cmd.Snapshot.Nodes)),
	)
	return nil
}
