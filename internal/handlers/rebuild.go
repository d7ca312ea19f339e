package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"galarie/internal/indexer"
)

// TriggerRebuild handles POST /api/v1/index/rebuild. Force is accepted as
// a query parameter or an optional JSON body {"force": true}. A non-forced
// request may be satisfied by a fresh stored snapshot (200 complete);
// otherwise the walk is queued in the background (202 queued). A rebuild
// already in flight yields 409.
func (h *Handlers) TriggerRebuild(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	var body struct {
		Force bool `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "body must be JSON with an optional force field")
		return
	}
	force = force || body.Force

	status, err := h.coordinator.TriggerRebuild(force)
	if err != nil {
		if errors.Is(err, indexer.ErrAlreadyInProgress) {
			writeError(w, http.StatusConflict, CodeConflict, "a rebuild is already in progress")
			return
		}
		writeError(w, http.StatusInternalServerError, CodeInternalServerError, "failed to trigger rebuild")
		return
	}

	switch status {
	case indexer.StatusComplete:
		writeJSONStatus(w, http.StatusOK, string(indexer.StatusComplete))
	default:
		writeJSONStatus(w, http.StatusAccepted, string(indexer.StatusQueued))
	}
}
