package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shalles/web-mind/application/commands/bus"
	"github.com/shalles/web-mind/pkg/common"
)

// respondError translates a bus error onto the response envelope.
// Validation failures from either bus are plain errors rather than
// application errors, so they are caught here before the generic
// mapping turns them into 500s.
func respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, bus.ErrValidationFailed) || strings.Contains(err.Error(), "validation failed") {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	common.RespondAppError(w, err)
}
