package handlers

import (
	"net/http"

	"galarie/internal/startup"
)

// GetVersion handles GET /version with the ldflags-injected build info.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, startup.GetBuildInfo())
}
