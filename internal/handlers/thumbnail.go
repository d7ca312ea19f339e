package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"galarie/internal/logging"
	"galarie/internal/media"
	"galarie/internal/mediatypes"

	"github.com/gorilla/mux"
)

// GetThumbnail handles GET /api/v1/media/{id}/thumbnail. The optional size
// parameter selects small, medium or large; medium is the default.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	size := media.SizeMedium
	if raw := r.URL.Query().Get("size"); raw != "" {
		size = media.Size(raw)
		if !size.Valid() {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "size must be small, medium or large")
			return
		}
	}

	file, ok := h.coordinator.Current().Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, CodeResourceNotFound, "no media with that id")
		return
	}
	if !mediatypes.IsPreviewable(file.MediaType) {
		writeError(w, http.StatusNotFound, CodeResourceNotFound, "media type has no thumbnail")
		return
	}

	// The id is content-addressed and thumbnails are deterministic per
	// size, so id+size is a stable validator.
	etag := fmt.Sprintf("%q", id+"-"+string(size))
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	fullPath := filepath.Join(h.mediaRoot, filepath.FromSlash(file.RelativePath))
	data, err := h.thumbGen.GetThumbnail(fullPath, file.MediaType, size)
	if err != nil {
		logging.Warn("Thumbnail failed for %s: %v", file.RelativePath, err)
		writeError(w, http.StatusInternalServerError, CodeInternalServerError, "thumbnail generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("ETag", etag)
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write thumbnail response: %v", err)
	}
}
