package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/queries"
	"github.com/shalles/web-mind/application/services"
)

// GetDragStatusHandler handles drag gesture status queries. Like
// history, gesture state lives in the editing session.
type GetDragStatusHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewGetDragStatusHandler creates a new handler instance
func NewGetDragStatusHandler(editor *services.EditorService, logger *zap.Logger) *GetDragStatusHandler {
	return &GetDragStatusHandler{editor: editor, logger: logger}
}

// Handle executes the get drag status query
func (h *GetDragStatusHandler) Handle(ctx context.Context, query queries.GetDragStatusQuery) (*queries.GetDragStatusResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	status, err := h.editor.DragStatus(ctx, query.MapID)
	if err != nil {
		return nil, err
	}

	result := &queries.GetDragStatusResult{
		State: string(status.State),
	}
	if status.HasNode {
		result.NodeID = status.NodeID.String()
	}
	if status.HasPosition {
		result.Position = &queries.PositionView{
			X: status.Position.X(),
			Y: status.Position.Y(),
		}
	}
	if status.HasTarget {
		result.TargetID = status.TargetID.String()
	}
	if status.Animation != nil {
		result.Animation = &queries.SnapAnimationView{
			NodeID:   status.Animation.NodeID.String(),
			TargetID: status.Animation.TargetID.String(),
			From:     queries.PositionView{X: status.Animation.From.X(), Y: status.Animation.From.Y()},
			To:       queries.PositionView{X: status.Animation.To.X(), Y: status.Animation.To.Y()},
		}
	}
	return result, nil
}
