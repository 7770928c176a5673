package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/services"
	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/domain/core/entities"
	"github.com/shalles/web-mind/domain/core/valueobjects"
	"github.com/shalles/web-mind/pkg/utils"
)

// AddChildCommand appends a child node under a parent.
type AddChildCommand struct {
	MapID     string `json:"map_id" validate:"required"`
	ParentID  string `json:"parent_id" validate:"required"`
	Text      string `json:"text" validate:"max=10000"`
	Direction string `json:"direction" validate:"omitempty,oneof=left right"`

	// Result carries the created node back to the caller.
	Result *entities.Node `json:"-"`
}

// Validate validates the command
func (cmd AddChildCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// AddChildHandler handles the AddChildCommand
type AddChildHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewAddChildHandler creates a new handler instance
func NewAddChildHandler(editor *services.EditorService, logger *zap.Logger) *AddChildHandler {
	return &AddChildHandler{editor: editor, logger: logger}
}

// Handle executes the add child command
func (h *AddChildHandler) Handle(ctx context.Context, cmd AddChildCommand) (*entities.Node, error) {
	return h.editor.AddChild(ctx, cmd.MapID, cmd.ParentID, cmd.Text, cmd.Direction)
}

// AddSiblingCommand inserts a node right after an existing sibling.
type AddSiblingCommand struct {
	MapID     string `json:"map_id" validate:"required"`
	SiblingID string `json:"sibling_id" validate:"required"`
	Text      string `json:"text" validate:"max=10000"`

	// Result carries the created node back to the caller.
	Result *entities.Node `json:"-"`
}

// Validate validates the command
func (cmd AddSiblingCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// AddSiblingHandler handles the AddSiblingCommand
type AddSiblingHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewAddSiblingHandler creates a new handler instance
func NewAddSiblingHandler(editor *services.EditorService, logger *zap.Logger) *AddSiblingHandler {
	return &AddSiblingHandler{editor: editor, logger: logger}
}

// Handle executes the add sibling command
func (h *AddSiblingHandler) Handle(ctx context.Context, cmd AddSiblingCommand) (*entities.Node, error) {
	return h.editor.AddSibling(ctx, cmd.MapID, cmd.SiblingID, cmd.Text)
}

// DeleteNodeCommand removes a node and its whole subtree.
type DeleteNodeCommand struct {
	MapID  string `json:"map_id" validate:"required"`
	NodeID string `json:"node_id" validate:"required"`

	// Result reports what the cascade removed.
	Result *aggregates.DeleteResult `json:"-"`
}

// Validate validates the command
func (cmd DeleteNodeCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// DeleteNodeHandler handles the DeleteNodeCommand
type DeleteNodeHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewDeleteNodeHandler creates a new handler instance
func NewDeleteNodeHandler(editor *services.EditorService, logger *zap.Logger) *DeleteNodeHandler {
	return &DeleteNodeHandler{editor: editor, logger: logger}
}

// Handle executes the delete node command
func (h *DeleteNodeHandler) Handle(ctx context.Context, cmd DeleteNodeCommand) (*aggregates.DeleteResult, error) {
	res, err := h.editor.DeleteNode(ctx, cmd.MapID, cmd.NodeID)
	if err != nil {
		return nil, err
	}
	h.logger.Info("Node deleted",
		zap.String("mapID", cmd.MapID),
		zap.String("nodeID", cmd.NodeID),
		zap.Int("removedNodes", len(res.RemovedNodeIDs)),
		zap.Int("removedRelationships", len(res.RemovedRelationshipIDs)),
	)
	return res, nil
}

// UpdateNodeContentCommand applies a partial content update. Nil fields
// keep their current values.
type UpdateNodeContentCommand struct {
	MapID  string  `json:"map_id" validate:"required"`
	NodeID string  `json:"node_id" validate:"required"`
	Text   *string `json:"text,omitempty"`
	Note   *string `json:"note,omitempty"`
	Icon   *string `json:"icon,omitempty"`
	Image  *string `json:"image,omitempty"`
}

// Validate validates the command
func (cmd UpdateNodeContentCommand) Validate() error {
	if err := utils.ValidateStruct(cmd); err != nil {
		return err
	}
	if cmd.Text == nil && cmd.Note == nil && cmd.Icon == nil && cmd.Image == nil {
		return errors.New("at least one content field is required")
	}
	return nil
}

// UpdateNodeContentHandler handles the UpdateNodeContentCommand
type UpdateNodeContentHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewUpdateNodeContentHandler creates a new handler instance
func NewUpdateNodeContentHandler(editor *services.EditorService, logger *zap.Logger) *UpdateNodeContentHandler {
	return &UpdateNodeContentHandler{editor: editor, logger: logger}
}

// Handle executes the update node content command
func (h *UpdateNodeContentHandler) Handle(ctx context.Context, cmd UpdateNodeContentCommand) error {
	return h.editor.UpdateNodeContent(ctx, cmd.MapID, cmd.NodeID, services.ContentPatch{
		Text:  cmd.Text,
		Note:  cmd.Note,
		Icon:  cmd.Icon,
		Image: cmd.Image,
	})
}

// UpdateNodeStyleCommand merges a style patch into one node.
type UpdateNodeStyleCommand struct {
	MapID  string                 `json:"map_id" validate:"required"`
	NodeID string                 `json:"node_id" validate:"required"`
	Style  map[string]interface{} `json:"style" validate:"required,min=1"`
}

// Validate validates the command
func (cmd UpdateNodeStyleCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// UpdateNodeStyleHandler handles the UpdateNodeStyleCommand
type UpdateNodeStyleHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewUpdateNodeStyleHandler creates a new handler instance
func NewUpdateNodeStyleHandler(editor *services.EditorService, logger *zap.Logger) *UpdateNodeStyleHandler {
	return &UpdateNodeStyleHandler{editor: editor, logger: logger}
}

// Handle executes the update node style command
func (h *UpdateNodeStyleHandler) Handle(ctx context.Context, cmd UpdateNodeStyleCommand) error {
	return h.editor.UpdateNodeStyle(ctx, cmd.MapID, cmd.NodeID, valueobjects.Style(cmd.Style))
}

// ToggleNodeExpansionCommand flips a node between expanded and
// collapsed.
type ToggleNodeExpansionCommand struct {
	MapID  string `json:"map_id" validate:"required"`
	NodeID string `json:"node_id" validate:"required"`

	// Result reports the expansion state after the toggle.
	Result bool `json:"-"`
}

// Validate validates the command
func (cmd ToggleNodeExpansionCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// ToggleNodeExpansionHandler handles the ToggleNodeExpansionCommand
type ToggleNodeExpansionHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewToggleNodeExpansionHandler creates a new handler instance
func NewToggleNodeExpansionHandler(editor *services.EditorService, logger *zap.Logger) *ToggleNodeExpansionHandler {
	return &ToggleNodeExpansionHandler{editor: editor, logger: logger}
}

// Handle executes the toggle and returns the new expansion state.
func (h *ToggleNodeExpansionHandler) Handle(ctx context.Context, cmd ToggleNodeExpansionCommand) (bool, error) {
	return h.editor.ToggleNodeExpansion(ctx, cmd.MapID, cmd.NodeID)
}

// MoveNodeCommand commits an explicit free position for one node.
type MoveNodeCommand struct {
	MapID  string  `json:"map_id" validate:"required"`
	NodeID string  `json:"node_id" validate:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Validate validates the command
func (cmd MoveNodeCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// MoveNodeHandler handles the MoveNodeCommand
type MoveNodeHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewMoveNodeHandler creates a new handler instance
func NewMoveNodeHandler(editor *services.EditorService, logger *zap.Logger) *MoveNodeHandler {
	return &MoveNodeHandler{editor: editor, logger: logger}
}

// Handle executes the move node command
func (h *MoveNodeHandler) Handle(ctx context.Context, cmd MoveNodeCommand) error {
	return h.editor.MoveNode(ctx, cmd.MapID, cmd.NodeID, cmd.X, cmd.Y)
}

// Reorder modes
const (
	ReorderUp    = "up"
	ReorderDown  = "down"
	ReorderIndex = "index"
)

// ReorderNodeCommand moves a node among its siblings, either one step
// up or down or to an explicit index.
type ReorderNodeCommand struct {
	MapID  string `json:"map_id" validate:"required"`
	NodeID string `json:"node_id" validate:"required"`
	Mode   string `json:"mode" validate:"required,oneof=up down index"`
	Index  int    `json:"index" validate:"gte=0"`

	// Result reports whether anything actually moved.
	Result bool `json:"-"`
}

// Validate validates the command
func (cmd ReorderNodeCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// ReorderNodeHandler handles the ReorderNodeCommand
type ReorderNodeHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewReorderNodeHandler creates a new handler instance
func NewReorderNodeHandler(editor *services.EditorService, logger *zap.Logger) *ReorderNodeHandler {
	return &ReorderNodeHandler{editor: editor, logger: logger}
}

// Handle executes the reorder and reports whether anything moved.
func (h *ReorderNodeHandler) Handle(ctx context.Context, cmd ReorderNodeCommand) (bool, error) {
	switch cmd.Mode {
	case ReorderUp:
		return h.editor.MoveNodeUp(ctx, cmd.MapID, cmd.NodeID)
	case ReorderDown:
		return h.editor.MoveNodeDown(ctx, cmd.MapID, cmd.NodeID)
	default:
		return h.editor.ReorderNode(ctx, cmd.MapID, cmd.NodeID, cmd.Index)
	}
}
