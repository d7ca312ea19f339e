package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"galarie/internal/logging"
	"galarie/internal/mediatypes"
	"galarie/internal/streaming"

	"github.com/gorilla/mux"
)

// StreamMedia handles GET /api/v1/media/{id}/stream. Range requests go
// through http.ServeContent, which video players rely on for seeking;
// full-body requests use the timeout-protected writer so a stalled client
// cannot pin a handler goroutine indefinitely.
func (h *Handlers) StreamMedia(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	file, ok := h.coordinator.Current().Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, CodeResourceNotFound, "no media with that id")
		return
	}

	fullPath := filepath.Join(h.mediaRoot, filepath.FromSlash(file.RelativePath))

	f, err := os.Open(fullPath)
	if err != nil {
		// Indexed but gone from disk: stale until the next rebuild.
		logging.Warn("Indexed file missing on disk: %s", file.RelativePath)
		writeError(w, http.StatusNotFound, CodeResourceNotFound, "media file no longer present")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternalServerError, "failed to stat media file")
		return
	}

	ext := strings.ToLower(path.Ext(file.RelativePath))
	w.Header().Set("Content-Type", mediatypes.GetMimeType(ext))
	w.Header().Set("Accept-Ranges", "bytes")

	if r.Header.Get("Range") != "" {
		http.ServeContent(w, r, path.Base(file.RelativePath), info.ModTime(), f)
		return
	}

	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))

	err = streaming.StreamWithTimeout(r.Context(), w, f, streaming.DefaultTimeoutWriterConfig())
	if err != nil && !errors.Is(err, streaming.ErrClientGone) {
		// Headers are already out, so all we can do is log.
		logging.Warn("Stream of %s failed: %v", file.RelativePath, err)
	}
}
