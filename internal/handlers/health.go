package handlers

import (
	"net/http"
	"runtime"
	"time"

	"galarie/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status           string `json:"status"`
	Ready            bool   `json:"ready"`
	Version          string `json:"version"`
	Uptime           string `json:"uptime"`
	Rebuilding       bool   `json:"rebuilding"`
	LastRebuild      string `json:"lastRebuild,omitempty"`
	LastRebuildError string `json:"lastRebuildError,omitempty"`

	// Index summary
	TotalFiles        int    `json:"totalFiles"`
	SnapshotGenerated string `json:"snapshotGenerated,omitempty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	snap := h.coordinator.Current()

	response := HealthResponse{
		Ready:        h.coordinator.Ready(),
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Rebuilding:   h.coordinator.IsRebuilding(),
		TotalFiles:   snap.Len(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if last := h.coordinator.LastRebuildTime(); !last.IsZero() {
		response.LastRebuild = last.Format(time.RFC3339)
	}
	if err := h.coordinator.LastRebuildError(); err != nil {
		response.LastRebuildError = err.Error()
	}
	if !snap.GeneratedAt.IsZero() {
		response.SnapshotGenerated = snap.GeneratedAt.Format(time.RFC3339)
	}

	switch {
	case !response.Ready:
		response.Status = statusStarting
	case response.LastRebuildError != "":
		response.Status = statusDegraded
	default:
		response.Status = statusHealthy
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}

// Liveness always succeeds while the process can serve requests.
func (h *Handlers) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, http.StatusOK, "alive")
}

// Readiness succeeds once the initial snapshot (loaded or walked) has been
// established. Before that, load balancers should not route traffic here.
func (h *Handlers) Readiness(w http.ResponseWriter, _ *http.Request) {
	if !h.coordinator.Ready() {
		writeError(w, http.StatusServiceUnavailable, CodeServiceUnavailable, "initial index not yet established")
		return
	}
	writeJSONStatus(w, http.StatusOK, "ready")
}
