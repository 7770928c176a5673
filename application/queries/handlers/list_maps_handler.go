package handlers

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/ports"
	"github.com/shalles/web-mind/application/queries"
	"github.com/shalles/web-mind/domain/config"
)

// ListMapsHandler handles map listing queries
type ListMapsHandler struct {
	repo   ports.MindMapRepository
	cfg    *config.DomainConfig
	logger *zap.Logger
}

// NewListMapsHandler creates a new handler instance
func NewListMapsHandler(repo ports.MindMapRepository, cfg *config.DomainConfig, logger *zap.Logger) *ListMapsHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ListMapsHandler{repo: repo, cfg: cfg, logger: logger}
}

// Handle executes the list maps query
func (h *ListMapsHandler) Handle(ctx context.Context, query queries.ListMapsQuery) (*queries.ListMapsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > h.cfg.MaxMapsPerPage {
		pageSize = h.cfg.MaxMapsPerPage
	}

	maps, err := h.repo.GetByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	// Newest first; map ID breaks ties so pages stay stable.
	sort.Slice(maps, func(i, j int) bool {
		if maps[i].UpdatedAt().Equal(maps[j].UpdatedAt()) {
			return maps[i].ID() < maps[j].ID()
		}
		return maps[i].UpdatedAt().After(maps[j].UpdatedAt())
	})

	total := len(maps)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	summaries := make([]queries.MapSummary, 0, end-start)
	for _, m := range maps[start:end] {
		summaries = append(summaries, queries.BuildMapSummary(m))
	}

	return &queries.ListMapsResult{
		Maps:     summaries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
