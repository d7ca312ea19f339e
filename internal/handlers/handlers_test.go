package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"galarie/internal/cache"
	"galarie/internal/indexer"
	"galarie/internal/search"
	"galarie/internal/startup"
)

// newTestHandlers builds a handler set over a real media tree containing a
// valid PNG, a gif and a fake video, with the index already rebuilt.
func newTestHandlers(t *testing.T) (*Handlers, string) {
	t.Helper()

	mediaRoot := t.TempDir()
	cacheDir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 210, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	writeFile(t, mediaRoot, "sunset_coast_rating-5.png", buf.Bytes())
	writeFile(t, mediaRoot, "macro_rating-4.gif", []byte("GIF89a-not-really"))
	writeFile(t, mediaRoot, "clip_subject-skate.mp4", []byte("fake video payload"))

	config := &startup.Config{
		MediaRoot:         mediaRoot,
		CacheDir:          cacheDir,
		ThumbnailDir:      filepath.Join(cacheDir, "thumbnails"),
		ThumbnailsEnabled: true,
	}

	store := cache.NewStore(cacheDir)
	walker := indexer.NewWalker(mediaRoot)
	walker.SetParallel(false)
	coordinator := indexer.NewCoordinator(store, walker, 0)
	t.Cleanup(coordinator.Stop)

	if err := coordinator.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	return New(coordinator, config), mediaRoot
}

func writeFile(t *testing.T, root, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func removeFile(t *testing.T, root, name string) {
	t.Helper()
	if err := os.Remove(filepath.Join(root, name)); err != nil {
		t.Fatal(err)
	}
}

// newTestRouter registers the API routes the way the server does.
func newTestRouter(h *Handlers) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(h.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)
	router.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	router.HandleFunc("/livez", h.Liveness).Methods("GET")
	router.HandleFunc("/readyz", h.Readiness).Methods("GET")
	router.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/media", h.SearchMedia).Methods("GET")
	api.HandleFunc("/media/{id}/thumbnail", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/media/{id}/stream", h.StreamMedia).Methods("GET")
	api.HandleFunc("/index/rebuild", h.TriggerRebuild).Methods("POST")
	api.HandleFunc("/tags", h.GetAllTags).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")

	return router
}

func doRequest(t *testing.T, router *mux.Router, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, nil))
	return recorder
}

func decodeSearchResult(t *testing.T, recorder *httptest.ResponseRecorder) search.Result {
	t.Helper()
	var result search.Result
	if err := json.NewDecoder(recorder.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode search result: %v", err)
	}
	return result
}

func decodeErrorEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var envelope ErrorEnvelope
	if err := json.NewDecoder(recorder.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode error envelope: %v", err)
	}
	return envelope
}

func TestSearchMediaByTag(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/api/v1/media?tags=sunset")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	result := decodeSearchResult(t, recorder)
	if result.Total != 1 {
		t.Errorf("Expected total 1, got %d", result.Total)
	}
	if len(result.Items) != 1 || result.Items[0].RelativePath != "sunset_coast_rating-5.png" {
		t.Errorf("Expected the sunset file, got %v", result.Items)
	}
}

func TestSearchMediaByAttributes(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/api/v1/media?attributes%5Brating%5D=4,5")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	result := decodeSearchResult(t, recorder)
	if result.Total != 2 {
		t.Errorf("Expected both rated files, got total %d", result.Total)
	}
}

func TestSearchMediaDefaults(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/api/v1/media")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	result := decodeSearchResult(t, recorder)
	if result.Total != 3 {
		t.Errorf("Expected all 3 files, got %d", result.Total)
	}
	if result.Page != 1 || result.PageSize != search.DefaultPageSize {
		t.Errorf("Expected default pagination, got page=%d pageSize=%d", result.Page, result.PageSize)
	}
}

func TestSearchMediaInvalidPagination(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	for _, target := range []string{
		"/api/v1/media?page=abc",
		"/api/v1/media?page=0",
		"/api/v1/media?pageSize=-3",
	} {
		recorder := doRequest(t, router, "GET", target)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, recorder.Code)
			continue
		}
		envelope := decodeErrorEnvelope(t, recorder)
		if envelope.Error.Code != CodeValidationFailed {
			t.Errorf("%s: expected %s, got %s", target, CodeValidationFailed, envelope.Error.Code)
		}
		if envelope.Error.Message == "" {
			t.Errorf("%s: expected a human-readable message", target)
		}
	}
}

func TestSearchMediaClampsOversizedPageSize(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/api/v1/media?pageSize=9999")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200 with clamped page size, got %d: %s", recorder.Code, recorder.Body.String())
	}

	result := decodeSearchResult(t, recorder)
	if result.PageSize != search.MaxPageSize {
		t.Errorf("Expected page size clamped to %d, got %d", search.MaxPageSize, result.PageSize)
	}
	if result.Total != 3 {
		t.Errorf("Expected all 3 files, got %d", result.Total)
	}
}

func TestSearchMediaEmptyTagsParameter(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	for _, target := range []string{
		"/api/v1/media?tags=",
		"/api/v1/media?tags=,",
	} {
		recorder := doRequest(t, router, "GET", target)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, recorder.Code)
			continue
		}
		envelope := decodeErrorEnvelope(t, recorder)
		if envelope.Error.Code != CodeValidationFailed {
			t.Errorf("%s: expected %s, got %s", target, CodeValidationFailed, envelope.Error.Code)
		}
	}
}

func TestSearchMediaNoMatchesIsEmptyList(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/api/v1/media?tags=nonexistent")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}
	if !bytes.Contains(recorder.Body.Bytes(), []byte(`"items":[]`)) {
		t.Errorf("Expected empty items array, got %s", recorder.Body.String())
	}
}

func TestTriggerRebuildQueued(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "POST", "/api/v1/index/rebuild?force=true")
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body map[string]string
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "queued" {
		t.Errorf("Expected status queued, got %q", body["status"])
	}
}

// newFreshSnapshotHandlers builds a handler set whose coordinator may
// satisfy non-forced rebuilds from a freshly stored snapshot.
func newFreshSnapshotHandlers(t *testing.T) *Handlers {
	t.Helper()

	mediaRoot := t.TempDir()
	cacheDir := t.TempDir()
	writeFile(t, mediaRoot, "sunset_coast.png", []byte("not-a-real-png"))

	store := cache.NewStore(cacheDir)
	walker := indexer.NewWalker(mediaRoot)
	walker.SetParallel(false)

	seed := indexer.NewCoordinator(store, walker, 0)
	if err := seed.Rebuild(context.Background(), true); err != nil {
		t.Fatalf("Seed rebuild failed: %v", err)
	}
	seed.Stop()

	coordinator := indexer.NewCoordinator(store, walker, time.Hour)
	t.Cleanup(coordinator.Stop)
	if err := coordinator.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	config := &startup.Config{
		MediaRoot:    mediaRoot,
		CacheDir:     cacheDir,
		ThumbnailDir: filepath.Join(cacheDir, "thumbnails"),
	}
	return New(coordinator, config)
}

func doRequestWithBody(t *testing.T, router *mux.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

func TestTriggerRebuildForceInBody(t *testing.T) {
	router := newTestRouter(newFreshSnapshotHandlers(t))

	// Without force the fresh stored snapshot satisfies the request.
	recorder := doRequest(t, router, "POST", "/api/v1/index/rebuild")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200 from fresh snapshot, got %d: %s", recorder.Code, recorder.Body.String())
	}

	// A body-forced request must bypass the stored snapshot and walk.
	recorder = doRequestWithBody(t, router, "POST", "/api/v1/index/rebuild", `{"force": true}`)
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("Expected 202 for body-forced rebuild, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var body map[string]string
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "queued" {
		t.Errorf("Expected status queued, got %q", body["status"])
	}
}

func TestTriggerRebuildMalformedBody(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequestWithBody(t, router, "POST", "/api/v1/index/rebuild", "{not json")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for malformed body, got %d", recorder.Code)
	}
	envelope := decodeErrorEnvelope(t, recorder)
	if envelope.Error.Code != CodeValidationFailed {
		t.Errorf("Expected %s, got %s", CodeValidationFailed, envelope.Error.Code)
	}
}

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/api/v1/nope")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", recorder.Code)
	}
	envelope := decodeErrorEnvelope(t, recorder)
	if envelope.Error.Code != CodeResourceNotFound {
		t.Errorf("Expected %s, got %s", CodeResourceNotFound, envelope.Error.Code)
	}
}

func TestWrongMethodReturnsEnvelope(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/api/v1/index/rebuild")
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected 405, got %d", recorder.Code)
	}
	envelope := decodeErrorEnvelope(t, recorder)
	if envelope.Error.Code != CodeValidationFailed {
		t.Errorf("Expected %s, got %s", CodeValidationFailed, envelope.Error.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/healthz")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200 from healthz, got %d", recorder.Code)
	}
	var health HealthResponse
	if err := json.NewDecoder(recorder.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != statusHealthy {
		t.Errorf("Expected %q, got %q", statusHealthy, health.Status)
	}
	if !health.Ready {
		t.Error("Expected ready after bootstrap")
	}
	if health.TotalFiles != 3 {
		t.Errorf("Expected 3 indexed files, got %d", health.TotalFiles)
	}

	if recorder := doRequest(t, router, "GET", "/livez"); recorder.Code != http.StatusOK {
		t.Errorf("Expected 200 from livez, got %d", recorder.Code)
	}
	if recorder := doRequest(t, router, "GET", "/readyz"); recorder.Code != http.StatusOK {
		t.Errorf("Expected 200 from readyz, got %d", recorder.Code)
	}
}

func TestReadinessBeforeBootstrap(t *testing.T) {
	store := cache.NewStore(t.TempDir())
	walker := indexer.NewWalker(t.TempDir())
	coordinator := indexer.NewCoordinator(store, walker, 0)
	t.Cleanup(coordinator.Stop)

	config := &startup.Config{MediaRoot: "/media", ThumbnailDir: t.TempDir()}
	router := newTestRouter(New(coordinator, config))

	recorder := doRequest(t, router, "GET", "/readyz")
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 before bootstrap, got %d", recorder.Code)
	}
	envelope := decodeErrorEnvelope(t, recorder)
	if envelope.Error.Code != CodeServiceUnavailable {
		t.Errorf("Expected %s, got %s", CodeServiceUnavailable, envelope.Error.Code)
	}
}

func TestGetVersion(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter(h)

	recorder := doRequest(t, router, "GET", "/version")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var info startup.BuildInfo
	if err := json.NewDecoder(recorder.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version == "" || info.GoVersion == "" {
		t.Errorf("Expected populated build info, got %+v", info)
	}
}
