package handlers

import (
	"bytes"
	"encoding/json"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"galarie/internal/index"
)

func TestGetAllTags(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/api/v1/tags")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var response TagsResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatal(err)
	}

	counts := make(map[string]int)
	for _, tag := range response.Tags {
		counts[tag.Name] = tag.Count
	}
	if counts["sunset"] != 1 {
		t.Errorf("Expected sunset count 1, got %d", counts["sunset"])
	}
	if counts["rating"] != 2 {
		t.Errorf("Expected bare key rating count 2, got %d", counts["rating"])
	}
	if counts["rating=5"] != 1 {
		t.Errorf("Expected rating=5 count 1, got %d", counts["rating=5"])
	}

	// Sorted by descending count.
	for i := 1; i < len(response.Tags); i++ {
		if response.Tags[i-1].Count < response.Tags[i].Count {
			t.Errorf("Tags not sorted by count at position %d", i)
		}
	}
}

func TestGetStats(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/api/v1/stats")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var stats StatsResponse
	if err := json.NewDecoder(recorder.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}

	if stats.TotalFiles != 3 {
		t.Errorf("Expected 3 files, got %d", stats.TotalFiles)
	}
	if stats.ByMediaType["image"] != 1 || stats.ByMediaType["gif"] != 1 || stats.ByMediaType["video"] != 1 {
		t.Errorf("Unexpected media type breakdown: %v", stats.ByMediaType)
	}
	if stats.TotalSize == 0 {
		t.Error("Expected non-zero total size")
	}
	if stats.SchemaVersion != index.SchemaVersion {
		t.Errorf("Expected schema version %s, got %s", index.SchemaVersion, stats.SchemaVersion)
	}
}

func TestGetThumbnail(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	id := index.StableID("sunset_coast_rating-5.png")
	recorder := doRequest(t, router, "GET", "/api/v1/media/"+id+"/thumbnail?size=small")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if got := recorder.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %q", got)
	}
	if _, err := jpeg.Decode(bytes.NewReader(recorder.Body.Bytes())); err != nil {
		t.Errorf("Response is not valid JPEG: %v", err)
	}
	if got := recorder.Header().Get("ETag"); got != `"`+id+`-small"` {
		t.Errorf("Expected id+size ETag, got %q", got)
	}
}

func TestGetThumbnailNotModified(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	id := index.StableID("sunset_coast_rating-5.png")
	etag := `"` + id + `-medium"`

	request := httptest.NewRequest("GET", "/api/v1/media/"+id+"/thumbnail", nil)
	request.Header.Set("If-None-Match", etag)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusNotModified {
		t.Fatalf("Expected 304, got %d", recorder.Code)
	}
	if recorder.Body.Len() != 0 {
		t.Errorf("Expected empty body on 304, got %d bytes", recorder.Body.Len())
	}
	if got := recorder.Header().Get("ETag"); got != etag {
		t.Errorf("Expected ETag %q echoed, got %q", etag, got)
	}
}

func TestGetThumbnailUnknownID(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/api/v1/media/deadbeef/thumbnail")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", recorder.Code)
	}
	envelope := decodeErrorEnvelope(t, recorder)
	if envelope.Error.Code != CodeResourceNotFound {
		t.Errorf("Expected %s, got %s", CodeResourceNotFound, envelope.Error.Code)
	}
}

func TestGetThumbnailInvalidSize(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	id := index.StableID("sunset_coast_rating-5.png")
	recorder := doRequest(t, router, "GET", "/api/v1/media/"+id+"/thumbnail?size=jumbo")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", recorder.Code)
	}
}

func TestStreamMedia(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	id := index.StableID("clip_subject-skate.mp4")
	recorder := doRequest(t, router, "GET", "/api/v1/media/"+id+"/stream")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}
	if recorder.Body.String() != "fake video payload" {
		t.Errorf("Body does not match source file: %q", recorder.Body.String())
	}
	if got := recorder.Header().Get("Content-Type"); got != "video/mp4" {
		t.Errorf("Expected video/mp4, got %q", got)
	}
}

func TestStreamMediaRangeRequest(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	id := index.StableID("clip_subject-skate.mp4")
	request := httptest.NewRequest("GET", "/api/v1/media/"+id+"/stream", nil)
	request.Header.Set("Range", "bytes=0-3")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusPartialContent {
		t.Fatalf("Expected 206 for range request, got %d", recorder.Code)
	}
	if recorder.Body.String() != "fake" {
		t.Errorf("Expected first 4 bytes, got %q", recorder.Body.String())
	}
}

func TestStreamMediaUnknownID(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/api/v1/media/deadbeef/stream")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", recorder.Code)
	}
}

func TestStreamMediaGoneFromDisk(t *testing.T) {
	h, mediaRoot := newTestHandlers(t)
	router := newTestRouter(h)

	removeFile(t, mediaRoot, "clip_subject-skate.mp4")

	id := index.StableID("clip_subject-skate.mp4")
	recorder := doRequest(t, router, "GET", "/api/v1/media/"+id+"/stream")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for file gone from disk, got %d", recorder.Code)
	}
}
