package handlers

import (
	"net/http"
	"time"
)

// StatsResponse summarizes the published snapshot.
type StatsResponse struct {
	TotalFiles    int            `json:"totalFiles"`
	TotalSize     uint64         `json:"totalSize"`
	ByMediaType   map[string]int `json:"byMediaType"`
	TagCount      int            `json:"tagCount"`
	AttributeKeys int            `json:"attributeKeys"`
	GeneratedAt   string         `json:"generatedAt,omitempty"`
	SchemaVersion string         `json:"schemaVersion"`
}

// GetStats handles GET /api/v1/stats.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	snap := h.coordinator.Current()

	byType := make(map[string]int)
	var totalSize uint64
	for _, m := range snap.Media {
		byType[string(m.MediaType)]++
		totalSize += m.Filesize
	}

	response := StatsResponse{
		TotalFiles:    snap.Len(),
		TotalSize:     totalSize,
		ByMediaType:   byType,
		TagCount:      len(snap.TagIndex),
		AttributeKeys: len(snap.AttributeIndex),
		SchemaVersion: snap.Version,
	}
	if !snap.GeneratedAt.IsZero() {
		response.GeneratedAt = snap.GeneratedAt.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}
