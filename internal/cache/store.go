package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"galarie/internal/index"
	"galarie/internal/logging"
	"galarie/internal/metrics"
)

const snapshotFilename = "index.json"

// Sentinel errors for snapshot loading. Callers treat all three as
// "no usable cache" and fall back to a fresh walk.
var (
	// ErrNotFound indicates that no snapshot file exists yet.
	ErrNotFound = errors.New("snapshot cache not found")

	// ErrSchemaMismatch indicates a snapshot written by an incompatible
	// schema version.
	ErrSchemaMismatch = errors.New("snapshot schema mismatch")

	// ErrCorrupt indicates a snapshot file that could not be decoded.
	ErrCorrupt = errors.New("snapshot cache corrupt")
)

// snapshotFile is the durable on-disk representation. Only the flattened
// media array is persisted; the inverted indices are rebuilt in memory on
// load so they are always consistent with the data they index.
type snapshotFile struct {
	Version     string            `json:"version"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Media       []index.MediaFile `json:"media"`
}

// Store persists index snapshots as a versioned JSON file in the cache
// directory. Writes go to a temporary file first and are renamed into
// place, so a concurrent loader can never observe a half-written snapshot.
type Store struct {
	path string
}

// NewStore creates a store rooted at the given cache directory.
func NewStore(cacheDir string) *Store {
	return &Store{path: filepath.Join(cacheDir, snapshotFilename)}
}

// Path returns the location of the durable snapshot file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the durable snapshot and rebuilds its in-memory indices.
// Returns ErrNotFound, ErrSchemaMismatch or ErrCorrupt when the cache is
// unusable; these are cache-miss conditions, not crashes.
func (s *Store) Load() (*index.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		metrics.SnapshotCacheErrors.WithLabelValues("load").Inc()
		return nil, fmt.Errorf("failed to read snapshot cache: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		metrics.SnapshotCacheErrors.WithLabelValues("load").Inc()
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	if file.Version != index.SchemaVersion {
		return nil, fmt.Errorf("%w: found %s, expected %s", ErrSchemaMismatch, file.Version, index.SchemaVersion)
	}

	metrics.SnapshotCacheLoads.Inc()
	logging.Debug("Loaded snapshot cache: %d media, generated %v", len(file.Media), file.GeneratedAt)

	return index.Rebuild(file.Version, file.GeneratedAt, file.Media), nil
}

// Save persists a snapshot. The write is atomic from a reader's point of
// view: the payload is written to a temporary file in the same directory and
// renamed over the previous snapshot.
func (s *Store) Save(snap *index.Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		metrics.SnapshotCacheErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	payload, err := json.Marshal(snapshotFile{
		Version:     snap.Version,
		GeneratedAt: snap.GeneratedAt,
		Media:       snap.Media,
	})
	if err != nil {
		metrics.SnapshotCacheErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, snapshotFilename+".*.tmp")
	if err != nil {
		metrics.SnapshotCacheErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		metrics.SnapshotCacheErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		metrics.SnapshotCacheErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to close temp snapshot file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		metrics.SnapshotCacheErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	metrics.SnapshotCacheSaves.Inc()
	logging.Debug("Saved snapshot cache: %d media -> %s", snap.Len(), s.path)
	return nil
}
