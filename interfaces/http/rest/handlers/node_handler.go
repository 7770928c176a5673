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

// NodeHandler handles node editing HTTP requests
type NodeHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// AddChildRequest represents the request body for adding a child node
type AddChildRequest struct {
	ParentID  string `json:"parent_id"`
	Text      string `json:"text"`
	Direction string `json:"direction,omitempty"`
}

// AddChild handles POST /maps/{mapID}/nodes
func (h *NodeHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	var req AddChildRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.AddChildCommand{
		MapID:     mapID,
		ParentID:  req.ParentID,
		Text:      req.Text,
		Direction: req.Direction,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.BuildNodeView(cmd.Result))
}

// AddSiblingRequest represents the request body for adding a sibling
type AddSiblingRequest struct {
	Text string `json:"text"`
}

// AddSibling handles POST /maps/{mapID}/nodes/{nodeID}/siblings
func (h *NodeHandler) AddSibling(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	nodeID := chi.URLParam(r, "nodeID")

	var req AddSiblingRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.AddSiblingCommand{
		MapID:     mapID,
		SiblingID: nodeID,
		Text:      req.Text,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.BuildNodeView(cmd.Result))
}

// GetNode handles GET /maps/{mapID}/nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	query := queries.GetNodeQuery{
		MapID:  chi.URLParam(r, "mapID"),
		NodeID: chi.URLParam(r, "nodeID"),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// DeleteNode handles DELETE /maps/{mapID}/nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteNodeCommand{
		MapID:  chi.URLParam(r, "mapID"),
		NodeID: chi.URLParam(r, "nodeID"),
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"removed_node_ids":         cmd.Result.RemovedNodeIDs,
		"removed_relationship_ids": cmd.Result.RemovedRelationshipIDs,
	})
}

// UpdateContentRequest represents a partial content update
type UpdateContentRequest struct {
	Text  *string `json:"text,omitempty"`
	Note  *string `json:"note,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Image *string `json:"image,omitempty"`
}

// UpdateContent handles PATCH /maps/{mapID}/nodes/{nodeID}/content
func (h *NodeHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var req UpdateContentRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.UpdateNodeContentCommand{
		MapID:  chi.URLParam(r, "mapID"),
		NodeID: chi.URLParam(r, "nodeID"),
		Text:   req.Text,
		Note:   req.Note,
		Icon:   req.Icon,
		Image:  req.Image,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"id": cmd.NodeID})
}

// UpdateStyleRequest represents a style patch
type UpdateStyleRequest struct {
	Style map[string]interface{} `json:"style"`
}

// UpdateStyle handles PATCH /maps/{mapID}/nodes/{nodeID}/style
func (h *NodeHandler) UpdateStyle(w http.ResponseWriter, r *http.Request) {
	var req UpdateStyleRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.UpdateNodeStyleCommand{
		MapID:  chi.URLParam(r, "mapID"),
		NodeID: chi.URLParam(r, "nodeID"),
		Style:  req.Style,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"id": cmd.NodeID})
}

// ToggleExpansion handles POST /maps/{mapID}/nodes/{nodeID}/toggle
func (h *NodeHandler) ToggleExpansion(w http.ResponseWriter, r *http.Request) {
	cmd := commands.ToggleNodeExpansionCommand{
		MapID:  chi.URLParam(r, "mapID"),
		NodeID: chi.URLParam(r, "nodeID"),
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":       cmd.NodeID,
		"expanded": cmd.Result,
	})
}

// MoveNodeRequest represents an explicit position commit
type MoveNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MoveNode handles PUT /maps/{mapID}/nodes/{nodeID}/position
func (h *NodeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var req MoveNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.MoveNodeCommand{
		MapID:  chi.URLParam(r, "mapID"),
		NodeID: chi.URLParam(r, "nodeID"),
		X:      req.X,
		Y:      req.Y,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"id": cmd.NodeID})
}

// ReorderRequest represents a sibling reorder
type ReorderRequest struct {
	Mode  string `json:"mode"`
	Index int    `json:"index,omitempty"`
}

// Reorder handles POST /maps/{mapID}/nodes/{nodeID}/reorder
func (h *NodeHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.ReorderNodeCommand{
		MapID:  chi.URLParam(r, "mapID"),
		NodeID: chi.URLParam(r, "nodeID"),
		Mode:   req.Mode,
		Index:  req.Index,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":    cmd.NodeID,
		"moved": cmd.Result,
	})
}
