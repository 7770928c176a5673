// Package memory provides in-process persistence. Maps live in memory
// for the lifetime of the server; the snapshot endpoints cover
// export/import across restarts.
package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/ports"
	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/pkg/observability"
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// MapRepository is an in-memory ports.MindMapRepository.
type MapRepository struct {
	mu      sync.RWMutex
	maps    map[aggregates.MapID]*aggregates.MindMap
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewMapRepository creates a new in-memory map repository
func NewMapRepository(metrics *observability.Collector, logger *zap.Logger) *MapRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MapRepository{
		maps:    make(map[aggregates.MapID]*aggregates.MindMap),
		metrics: metrics,
		logger:  logger,
	}
}

var _ ports.MindMapRepository = (*MapRepository)(nil)

// Save persists a mind map (create or update)
func (r *MapRepository) Save(ctx context.Context, m *aggregates.MindMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.maps[m.ID()] = m
	r.count("save", "success")

	r.logger.Debug("Mind map saved",
		zap.String("mapID", m.ID().String()),
		zap.Int64("version", m.Version()),
	)
	return nil
}

// GetByID retrieves a mind map by its ID
func (r *MapRepository) GetByID(ctx context.Context, id aggregates.MapID) (*aggregates.MindMap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.maps[id]
	if !ok {
		r.count("get", "miss")
		return nil, pkgerrors.ErrMapNotFound(id.String())
	}
	r.count("get", "success")
	return m, nil
}

// GetByUserID retrieves all mind maps owned by a user
func (r *MapRepository) GetByUserID(ctx context.Context, userID string) ([]*aggregates.MindMap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*aggregates.MindMap
	for _, m := range r.maps {
		if m.UserID() == userID {
			result = append(result, m)
		}
	}
	r.count("list", "success")
	return result, nil
}

// Delete removes a mind map and everything in it
func (r *MapRepository) Delete(ctx context.Context, id aggregates.MapID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.maps[id]; !ok {
		r.count("delete", "miss")
		return pkgerrors.ErrMapNotFound(id.String())
	}
	delete(r.maps, id)
	r.count("delete", "success")
	return nil
}

// Version reports the persisted version of a map.
func (r *MapRepository) Version(ctx context.Context, mapID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.maps[aggregates.MapID(mapID)]
	if !ok {
		return 0, pkgerrors.ErrMapNotFound(mapID)
	}
	return m.Version(), nil
}

// Count reports the number of stored maps.
func (r *MapRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.maps)
}

func (r *MapRepository) count(operation, status string) {
	if r.metrics == nil {
		return
	}
	r.metrics.RepoOperations.WithLabelValues(operation, status).Inc()
}
