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

// DragHandler handles drag gesture HTTP requests. The gesture protocol
// is stateful: begin, any number of moves, then end, ticks while the
// snap animation runs, or an abort.
type DragHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewDragHandler creates a new drag handler
func NewDragHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *DragHandler {
	return &DragHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// BeginDragRequest represents the request body for starting a drag
type BeginDragRequest struct {
	NodeID string `json:"node_id"`
}

// Begin handles POST /maps/{mapID}/drag/begin
func (h *DragHandler) Begin(w http.ResponseWriter, r *http.Request) {
	var req BeginDragRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.BeginDragCommand{
		MapID:  chi.URLParam(r, "mapID"),
		NodeID: req.NodeID,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"node_id": cmd.NodeID})
}

// MoveDragRequest represents a pointer move during a drag
type MoveDragRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Move handles POST /maps/{mapID}/drag/move
func (h *DragHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveDragRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.UpdateDragCommand{
		MapID: chi.URLParam(r, "mapID"),
		X:     req.X,
		Y:     req.Y,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	response := map[string]interface{}{"snap_target": nil}
	if cmd.Result != nil {
		response["snap_target"] = map[string]interface{}{
			"node_id":  cmd.Result.NodeID.String(),
			"distance": cmd.Result.Distance,
		}
	}
	common.RespondJSON(w, http.StatusOK, response)
}

// End handles POST /maps/{mapID}/drag/end
func (h *DragHandler) End(w http.ResponseWriter, r *http.Request) {
	cmd := commands.EndDragCommand{MapID: chi.URLParam(r, "mapID")}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	response := map[string]interface{}{
		"kind": string(cmd.Result.Kind),
		"position": map[string]float64{
			"x": cmd.Result.Position.X(),
			"y": cmd.Result.Position.Y(),
		},
	}
	if cmd.Result.Animation != nil {
		response["animation"] = queries.SnapAnimationView{
			NodeID:   cmd.Result.Animation.NodeID.String(),
			TargetID: cmd.Result.Animation.TargetID.String(),
			From:     queries.PositionView{X: cmd.Result.Animation.From.X(), Y: cmd.Result.Animation.From.Y()},
			To:       queries.PositionView{X: cmd.Result.Animation.To.X(), Y: cmd.Result.Animation.To.Y()},
		}
	}
	common.RespondJSON(w, http.StatusOK, response)
}

// TickRequest represents one snap animation step
type TickRequest struct {
	Progress float64 `json:"progress"`
}

// Tick handles POST /maps/{mapID}/drag/tick
func (h *DragHandler) Tick(w http.ResponseWriter, r *http.Request) {
	var req TickRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.TickSnapCommand{
		MapID:    chi.URLParam(r, "mapID"),
		Progress: req.Progress,
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	response := map[string]interface{}{
		"position": map[string]float64{
			"x": cmd.Result.Position.X(),
			"y": cmd.Result.Position.Y(),
		},
		"done": cmd.Result.Done,
	}
	if cmd.Result.Commit != nil {
		response["commit"] = map[string]string{
			"kind":      string(cmd.Result.Commit.Kind),
			"node_id":   cmd.Result.Commit.NodeID.String(),
			"target_id": cmd.Result.Commit.TargetID.String(),
		}
	}
	common.RespondJSON(w, http.StatusOK, response)
}

// Abort handles POST /maps/{mapID}/drag/abort
func (h *DragHandler) Abort(w http.ResponseWriter, r *http.Request) {
	cmd := commands.AbortDragCommand{MapID: chi.URLParam(r, "mapID")}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /maps/{mapID}/drag
func (h *DragHandler) Status(w http.ResponseWriter, r *http.Request) {
	query := queries.GetDragStatusQuery{MapID: chi.URLParam(r, "mapID")}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
