package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/ports"
	"github.com/shalles/web-mind/application/queries"
	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/domain/core/valueobjects"
)

// GetNodeHandler handles single-node read queries
type GetNodeHandler struct {
	repo   ports.MindMapRepository
	logger *zap.Logger
}

// NewGetNodeHandler creates a new handler instance
func NewGetNodeHandler(repo ports.MindMapRepository, logger *zap.Logger) *GetNodeHandler {
	return &GetNodeHandler{repo: repo, logger: logger}
}

// Handle executes the get node query
func (h *GetNodeHandler) Handle(ctx context.Context, query queries.GetNodeQuery) (*queries.GetNodeResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	nodeID, err := valueobjects.NewNodeIDFromString(query.NodeID)
	if err != nil {
		return nil, fmt.Errorf("invalid node ID: %w", err)
	}

	m, err := h.repo.GetByID(ctx, aggregates.MapID(query.MapID))
	if err != nil {
		return nil, err
	}

	node, err := m.GetNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &queries.GetNodeResult{Node: queries.BuildNodeView(node)}, nil
}
