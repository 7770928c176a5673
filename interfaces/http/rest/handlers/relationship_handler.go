package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shalles/web-mind/application/commands"
	"github.com/shalles/web-mind/application/commands/bus"
	"github.com/shalles/web-mind/application/queries"
	"github.com/shalles/web-mind/pkg/common"
)

// RelationshipHandler handles cross-branch relationship HTTP requests
type RelationshipHandler struct {
	commandBus *bus.CommandBus
	logger     *zap.Logger
}

// NewRelationshipHandler creates a new relationship handler
func NewRelationshipHandler(commandBus *bus.CommandBus, logger *zap.Logger) *RelationshipHandler {
	return &RelationshipHandler{
		commandBus: commandBus,
		logger:     logger,
	}
}

// ConnectRequest represents the request body for connecting two nodes
type ConnectRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Label    string `json:"label,omitempty"`
}

// Connect handles POST /maps/{mapID}/relationships
func (h *RelationshipHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.ConnectNodesCommand{
		MapID:    chi.URLParam(r, "mapID"),
		SourceID: req.SourceID,
		TargetID: req.TargetID,
		Label:    req.Label,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.BuildRelationshipView(cmd.Result))
}

// UpdateRelationshipRequest represents a label and/or style update
type UpdateRelationshipRequest struct {
	Label *string                `json:"label,omitempty"`
	Style map[string]interface{} `json:"style,omitempty"`
}

// Update handles PATCH /maps/{mapID}/relationships/{relationshipID}
func (h *RelationshipHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRelationshipRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.UpdateRelationshipCommand{
		MapID:          chi.URLParam(r, "mapID"),
		RelationshipID: chi.URLParam(r, "relationshipID"),
		Label:          req.Label,
		Style:          req.Style,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"id": cmd.RelationshipID})
}

// Disconnect handles DELETE /maps/{mapID}/relationships/{relationshipID}
func (h *RelationshipHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DisconnectNodesCommand{
		MapID:          chi.URLParam(r, "mapID"),
		RelationshipID: chi.URLParam(r, "relationshipID"),
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
