package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/ports"
	"github.com/shalles/web-mind/application/queries"
	"github.com/shalles/web-mind/domain/core/aggregates"
)

// ExportSnapshotHandler captures a map as a snapshot document.
type ExportSnapshotHandler struct {
	repo   ports.MindMapRepository
	logger *zap.Logger
}

// NewExportSnapshotHandler creates a new handler instance
func NewExportSnapshotHandler(repo ports.MindMapRepository, logger *zap.Logger) *ExportSnapshotHandler {
	return &ExportSnapshotHandler{repo: repo, logger: logger}
}

// Handle executes the export snapshot query
func (h *ExportSnapshotHandler) Handle(ctx context.Context, query queries.ExportSnapshotQuery) (*aggregates.MapSnapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	m, err := h.repo.GetByID(ctx, aggregates.MapID(query.MapID))
	if err != nil {
		return nil, err
	}

	return m.Snapshot(), nil
}
