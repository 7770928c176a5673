// Package handlers implements the read-side query handlers.
package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/ports"
	"github.com/shalles/web-mind/application/queries"
	"github.com/shalles/web-mind/domain/core/aggregates"
)

// GetMapHandler handles full-map read queries
type GetMapHandler struct {
	repo   ports.MindMapRepository
	logger *zap.Logger
}

// NewGetMapHandler creates a new handler instance
func NewGetMapHandler(repo ports.MindMapRepository, logger *zap.Logger) *GetMapHandler {
	return &GetMapHandler{repo: repo, logger: logger}
}

// Handle executes the get map query
func (h *GetMapHandler) Handle(ctx context.Context, query queries.GetMapQuery) (*queries.GetMapResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	m, err := h.repo.GetByID(ctx, aggregates.MapID(query.MapID))
	if err != nil {
		return nil, err
	}

	ordered := m.NodesInTreeOrder()
	nodes := make([]queries.NodeView, 0, len(ordered))
	for _, node := range ordered {
		nodes = append(nodes, queries.BuildNodeView(node))
	}

	rels := m.Relationships()
	relationships := make([]queries.RelationshipView, 0, len(rels))
	for _, rel := range rels {
		relationships = append(relationships, queries.BuildRelationshipView(rel))
	}

	return &queries.GetMapResult{
		ID:            m.ID().String(),
		UserID:        m.UserID(),
		Name:          m.Name(),
		RootID:        m.RootID().String(),
		Version:       m.Version(),
		NodeCount:     m.NodeCount(),
		CreatedAt:     m.CreatedAt().Format(time.RFC3339),
		UpdatedAt:     m.UpdatedAt().Format(time.RFC3339),
		Nodes:         nodes,
		Relationships: relationships,
	}, nil
}
