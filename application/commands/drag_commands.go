package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/services"
	"github.com/shalles/web-mind/domain/interaction"
	"github.com/shalles/web-mind/pkg/utils"
)

// BeginDragCommand starts dragging a node. The tree stays untouched
// until the gesture commits.
type BeginDragCommand struct {
	MapID  string `json:"map_id" validate:"required"`
	NodeID string `json:"node_id" validate:"required"`
}

// Validate validates the command
func (cmd BeginDragCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// BeginDragHandler handles the BeginDragCommand
type BeginDragHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewBeginDragHandler creates a new handler instance
func NewBeginDragHandler(editor *services.EditorService, logger *zap.Logger) *BeginDragHandler {
	return &BeginDragHandler{editor: editor, logger: logger}
}

// Handle executes the begin drag command
func (h *BeginDragHandler) Handle(ctx context.Context, cmd BeginDragCommand) error {
	return h.editor.BeginDrag(ctx, cmd.MapID, cmd.NodeID)
}

// UpdateDragCommand moves the dragged node's displayed position.
type UpdateDragCommand struct {
	MapID string  `json:"map_id" validate:"required"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`

	// Result carries the captured snap target, nil when outside every
	// snap zone.
	Result *interaction.SnapTarget `json:"-"`
}

// Validate validates the command
func (cmd UpdateDragCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// UpdateDragHandler handles the UpdateDragCommand
type UpdateDragHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewUpdateDragHandler creates a new handler instance
func NewUpdateDragHandler(editor *services.EditorService, logger *zap.Logger) *UpdateDragHandler {
	return &UpdateDragHandler{editor: editor, logger: logger}
}

// Handle executes the drag update and reports the captured snap
// target, if any.
func (h *UpdateDragHandler) Handle(ctx context.Context, cmd UpdateDragCommand) (*interaction.SnapTarget, error) {
	return h.editor.UpdateDrag(ctx, cmd.MapID, cmd.X, cmd.Y)
}

// EndDragCommand releases the pointer and either commits the position
// or starts the snap animation.
type EndDragCommand struct {
	MapID string `json:"map_id" validate:"required"`

	// Result describes how the gesture ended.
	Result *interaction.EndResult `json:"-"`
}

// Validate validates the command
func (cmd EndDragCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// EndDragHandler handles the EndDragCommand
type EndDragHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewEndDragHandler creates a new handler instance
func NewEndDragHandler(editor *services.EditorService, logger *zap.Logger) *EndDragHandler {
	return &EndDragHandler{editor: editor, logger: logger}
}

// Handle executes the end drag command
func (h *EndDragHandler) Handle(ctx context.Context, cmd EndDragCommand) (*interaction.EndResult, error) {
	return h.editor.EndDrag(ctx, cmd.MapID)
}

// TickSnapCommand advances the snap animation with the caller's clock.
type TickSnapCommand struct {
	MapID    string  `json:"map_id" validate:"required"`
	Progress float64 `json:"progress" validate:"gte=0"`

	// Result carries the interpolated position and completion state.
	Result *services.SnapTickResult `json:"-"`
}

// Validate validates the command
func (cmd TickSnapCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// TickSnapHandler handles the TickSnapCommand
type TickSnapHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewTickSnapHandler creates a new handler instance
func NewTickSnapHandler(editor *services.EditorService, logger *zap.Logger) *TickSnapHandler {
	return &TickSnapHandler{editor: editor, logger: logger}
}

// Handle executes the snap tick command
func (h *TickSnapHandler) Handle(ctx context.Context, cmd TickSnapCommand) (*services.SnapTickResult, error) {
	return h.editor.TickSnap(ctx, cmd.MapID, cmd.Progress)
}

// AbortDragCommand cancels a drag before release.
type AbortDragCommand struct {
	MapID string `json:"map_id" validate:"required"`
}

// Validate validates the command
func (cmd AbortDragCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// AbortDragHandler handles the AbortDragCommand
type AbortDragHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewAbortDragHandler creates a new handler instance
func NewAbortDragHandler(editor *services.EditorService, logger *zap.Logger) *AbortDragHandler {
	return &AbortDragHandler{editor: editor, logger: logger}
}

// Handle executes the abort drag command
func (h *AbortDragHandler) Handle(ctx context.Context, cmd AbortDragCommand) error {
	return h.editor.AbortDrag(ctx, cmd.MapID)
}
