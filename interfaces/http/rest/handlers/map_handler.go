// Package handlers implements the REST endpoints. Handlers decode and
// validate the request, dispatch through the command or query bus, and
// translate application errors onto the response envelope.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/commands"
	"github.com/shalles/web-mind/application/commands/bus"
	"github.com/shalles/web-mind/application/queries"
	querybus "github.com/shalles/web-mind/application/queries/bus"
	"github.com/shalles/web-mind/pkg/auth"
	"github.com/shalles/web-mind/pkg/common"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// MapHandler handles map lifecycle HTTP requests
type MapHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewMapHandler creates a new map handler
func NewMapHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *MapHandler {
	return &MapHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateMapRequest represents the request body for creating a map
type CreateMapRequest struct {
	Name        string `json:"name"`
	RootContent string `json:"root_content"`
}

// CreateMap handles POST /maps
func (h *MapHandler) CreateMap(w http.ResponseWriter, r *http.Request) {
	var req CreateMapRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.CreateMapCommand{
		UserID:      userCtx.UserID,
		Name:        req.Name,
		RootContent: req.RootContent,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		h.logger.Warn("Failed to create map",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.BuildMapSummary(cmd.Result))
}

// GetMap handles GET /maps/{mapID}
func (h *MapHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetMapQuery{MapID: mapID})
	if err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ListMaps handles GET /maps
func (h *MapHandler) ListMaps(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	params := common.ExtractPaginationParams(r)

	result, err := h.queryBus.Ask(r.Context(), queries.ListMapsQuery{
		UserID:   userCtx.UserID,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		h.logger.Error("Failed to list maps",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondError(w, err)
		return
	}

	listResult, ok := result.(*queries.ListMapsResult)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected query result")
		return
	}

	common.RespondWithMeta(w, http.StatusOK, listResult.Maps, &common.MetaInfo{
		RequestID:  common.ExtractRequestID(r),
		Pagination: common.BuildPaginationMeta(listResult.Page, listResult.PageSize, listResult.Total),
	})
}

// DeleteMap handles DELETE /maps/{mapID}
func (h *MapHandler) DeleteMap(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	cmd := commands.DeleteMapCommand{MapID: mapID}
	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
