package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/commands"
	"github.com/shalles/web-mind/application/commands/bus"
	"github.com/shalles/web-mind/application/queries"
	querybus "github.com/shalles/web-mind/application/queries/bus"
	"github.com/shalles/web-mind/pkg/common"
)

// HistoryHandler handles undo/redo HTTP requests
type HistoryHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *HistoryHandler {
	return &HistoryHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// Status handles GET /maps/{mapID}/history
func (h *HistoryHandler) Status(w http.ResponseWriter, r *http.Request) {
	query := queries.GetHistoryQuery{MapID: chi.URLParam(r, "mapID")}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Undo handles POST /maps/{mapID}/history/undo
func (h *HistoryHandler) Undo(w http.ResponseWriter, r *http.Request) {
	cmd := commands.UndoCommand{MapID: chi.URLParam(r, "mapID")}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	h.respondStatus(w, r, cmd.MapID)
}

// Redo handles POST /maps/{mapID}/history/redo
func (h *HistoryHandler) Redo(w http.ResponseWriter, r *http.Request) {
	cmd := commands.RedoCommand{MapID: chi.URLParam(r, "mapID")}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	h.respondStatus(w, r, cmd.MapID)
}

// respondStatus replies with the post-operation history state so the
// client can refresh its undo/redo affordances in one round trip.
func (h *HistoryHandler) respondStatus(w http.ResponseWriter, r *http.Request, mapID string) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetHistoryQuery{MapID: mapID})
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
