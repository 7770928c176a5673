package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/queries"
	"github.com/shalles/web-mind/application/services"
	"github.com/shalles/web-mind/domain/versioning"
)

// GetHistoryHandler handles undo/redo status queries. History lives in
// the editing session, so this one goes through the editor service
// instead of the repository.
type GetHistoryHandler struct {
	editor *services.EditorService
	logger *zap.Logger
}

// NewGetHistoryHandler creates a new handler instance
func NewGetHistoryHandler(editor *services.EditorService, logger *zap.Logger) *GetHistoryHandler {
	return &GetHistoryHandler{editor: editor, logger: logger}
}

// Handle executes the get history query
func (h *GetHistoryHandler) Handle(ctx context.Context, query queries.GetHistoryQuery) (*queries.GetHistoryResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	status, err := h.editor.HistoryStatus(ctx, query.MapID)
	if err != nil {
		return nil, err
	}

	return &queries.GetHistoryResult{
		CanUndo:   status.CanUndo,
		CanRedo:   status.CanRedo,
		UndoDepth: status.UndoDepth,
		RedoDepth: status.RedoDepth,
		MaxDepth:  status.MaxDepth,
		UndoLabel: status.UndoLabel,
		RedoLabel: status.RedoLabel,
		Undo:      buildEntryViews(status.Undo),
		Redo:      buildEntryViews(status.Redo),
	}, nil
}

func buildEntryViews(entries []versioning.EntryInfo) []queries.HistoryEntryView {
	views := make([]queries.HistoryEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, queries.HistoryEntryView{
			Label:      entry.Label,
			Checksum:   entry.Checksum,
			NodeCount:  entry.NodeCount,
			CapturedAt: entry.CapturedAt.Format(time.RFC3339),
		})
	}
	return views
}
