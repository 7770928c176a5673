package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/commands"
	"github.com/shalles/web-mind/application/commands/bus"
	"github.com/shalles/web-mind/application/queries"
	querybus "github.com/shalles/web-mind/application/queries/bus"
	"github.com/shalles/web-mind/domain/core/aggregates"
	"github.com/shalles/web-mind/infrastructure/persistence/schema"
	"github.com/shalles/web-mind/pkg/common"
)

// Snapshot documents can be much larger than editing requests.
const maxSnapshotBytes = 16 << 20 // 16 MiB

// SnapshotHandler handles snapshot export and import. Documents on the
// wire are versioned; imports from older releases are migrated before
// they reach the domain.
type SnapshotHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	snapshots  *schema.SnapshotEvolution
	logger     *zap.Logger
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	snapshots *schema.SnapshotEvolution,
	logger *zap.Logger,
) *SnapshotHandler {
	return &SnapshotHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		snapshots:  snapshots,
		logger:     logger,
	}
}

// Export handles GET /maps/{mapID}/snapshot
func (h *SnapshotHandler) Export(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	result, err := h.queryBus.Ask(r.Context(), queries.ExportSnapshotQuery{MapID: mapID})
	if err != nil {
		respondError(w, err)
		return
	}

	snap, ok := result.(*aggregates.MapSnapshot)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected query result")
		return
	}

	document, err := h.snapshots.Encode(snap)
	if err != nil {
		h.logger.Error("Failed to encode snapshot",
			zap.String("mapID", mapID),
			zap.Error(err),
		)
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to encode snapshot")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}

// Import handles PUT /maps/{mapID}/snapshot
func (h *SnapshotHandler) Import(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		common.RespondError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Snapshot document too large")
		return
	}

	snap, version, err := h.snapshots.Decode(raw)
	if err != nil {
		respondError(w, err)
		return
	}

	cmd := commands.ImportSnapshotCommand{
		MapID:    mapID,
		Snapshot: snap,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"map_id":           mapID,
		"imported_nodes":   len(snap.Nodes),
		"document_version": version,
	})
}
