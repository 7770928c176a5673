package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/services"
	"github.com/shalles/web-mind/domain/core/entities"
	"github.com/shalles/web-mind/domain/core/valueobjects"
	"github.com/shalles/web-mind/pkg/utils"
)

// ConnectNodesCommand creates a labelled cross-branch relationship
// between two existing nodes.
type ConnectNodesCommand struct {
	MapID    string `json:"map_id" validate:"required"`
	SourceID string `json:"source_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
	Label    string `json:"label" validate:"max=200"`

	// Result carries the created relationship back to the caller.
	Result *entities.Relationship `json:"-"`
}

// Validate validates the command
func (cmd ConnectNodesCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// ConnectNodesHandler handles the ConnectNodesCommand
type ConnectNodesHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewConnectNodesHandler creates a new handler instance
func NewConnectNodesHandler(editor *services.EditorService, logger *zap.Logger) *ConnectNodesHandler {
	return &ConnectNodesHandler{editor: editor, logger: logger}
}

// Handle executes the connect nodes command
func (h *ConnectNodesHandler) Handle(ctx context.Context, cmd ConnectNodesCommand) (*entities.Relationship, error) {
	return h.editor.ConnectNodes(ctx, cmd.MapID, cmd.SourceID, cmd.TargetID, cmd.Label)
}

// UpdateRelationshipCommand updates the label and/or style of a
// relationship. A nil label keeps the current one.
type UpdateRelationshipCommand struct {
	MapID          string                 `json:"map_id" validate:"required"`
	RelationshipID string                 `json:"relationship_id" validate:"required"`
	Label          *string                `json:"label,omitempty"`
	Style          map[string]interface{} `json:"style,omitempty"`
}

// Validate validates the command
func (cmd UpdateRelationshipCommand) Validate() error {
	if err := utils.ValidateStruct(cmd); err != nil {
		return err
	}
	if cmd.Label == nil && len(cmd.Style) == 0 {
		return errors.New("label or style is required")
	}
	return nil
}

// UpdateRelationshipHandler handles the UpdateRelationshipCommand
type UpdateRelationshipHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewUpdateRelationshipHandler creates a new handler instance
func NewUpdateRelationshipHandler(editor *services.EditorService, logger *zap.Logger) *UpdateRelationshipHandler {
	return &UpdateRelationshipHandler{editor: editor, logger: logger}
}

// Handle executes the update relationship command
func (h *UpdateRelationshipHandler) Handle(ctx context.Context, cmd UpdateRelationshipCommand) error {
	return h.editor.UpdateRelationship(ctx, cmd.MapID, cmd.RelationshipID, cmd.Label, valueobjects.Style(cmd.Style))
}

// DisconnectNodesCommand removes a relationship. The endpoints stay.
type DisconnectNodesCommand struct {
	MapID          string `json:"map_id" validate:"required"`
	RelationshipID string `json:"relationship_id" validate:"required"`
}

// Validate validates the command
func (cmd DisconnectNodesCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// DisconnectNodesHandler handles the DisconnectNodesCommand
type DisconnectNodesHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewDisconnectNodesHandler creates a new handler instance
func NewDisconnectNodesHandler(editor *services.EditorService, logger *zap.Logger) *DisconnectNodesHandler {
	return &DisconnectNodesHandler{editor: editor, logger: logger}
}

// Handle executes the disconnect nodes command
func (h *DisconnectNodesHandler) Handle(ctx context.Context, cmd DisconnectNodesCommand) error {
	return h.editor.DisconnectNodes(ctx, cmd.MapID, cmd.RelationshipID)
}
