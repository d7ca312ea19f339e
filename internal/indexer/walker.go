package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"galarie/internal/index"
	"galarie/internal/logging"
	"galarie/internal/mediatypes"
	"galarie/internal/metrics"
	"galarie/internal/tags"
	"galarie/internal/workers"
)

// Maximum workers for the parallel walker; beyond this the walk is
// filesystem-bound, not CPU-bound.
const maxWalkWorkers = 8

// ErrRootUnreadable indicates that the media root does not exist or cannot
// be traversed. It is fatal to the rebuild attempt that hit it, never
// retried automatically.
var ErrRootUnreadable = errors.New("media root unreadable")

// Walker traverses the media root and produces MediaFile records.
// Per-file errors are recorded as skipped-with-warning; only an unreadable
// root fails the whole walk.
type Walker struct {
	root       string
	parallel   bool
	numWorkers int
}

// NewWalker creates a walker for the given media root.
func NewWalker(root string) *Walker {
	return &Walker{
		root:       root,
		parallel:   true,
		numWorkers: workers.ForIO(maxWalkWorkers),
	}
}

// Root returns the media root this walker traverses.
func (w *Walker) Root() string {
	return w.root
}

// SetParallel enables or disables parallel walking.
func (w *Walker) SetParallel(enabled bool) {
	w.parallel = enabled
}

// SetWorkers overrides the parallel worker count.
func (w *Walker) SetWorkers(n int) {
	if n > 0 {
		w.numWorkers = n
	}
}

// Walk traverses the media root and returns a MediaFile record for every
// regular, non-hidden file found. Hidden entries (dot-prefixed) are skipped,
// as are entries that fail the stays-under-root check. All files carry the
// same IndexedAt timestamp, taken at the start of the walk.
func (w *Walker) Walk(ctx context.Context) ([]index.MediaFile, error) {
	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRootUnreadable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootUnreadable, w.root)
	}

	if w.parallel {
		return w.walkParallel(ctx)
	}
	return w.walkSequential(ctx)
}

// walkSequential walks the tree in a single goroutine.
func (w *Walker) walkSequential(ctx context.Context) ([]index.MediaFile, error) {
	scannedAt := time.Now().UTC()
	var files []index.MediaFile

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if path == w.root {
				return fmt.Errorf("%w: %v", ErrRootUnreadable, err)
			}
			logging.Warn("Skipping %s: %v", path, err)
			metrics.IndexerFilesSkipped.Inc()
			return nil
		}

		relPath, skip := w.checkEntry(path, d)
		if skip != nil {
			return skip
		}
		if relPath == "" || d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logging.Warn("Skipping %s: %v", path, err)
			metrics.IndexerFilesSkipped.Inc()
			return nil
		}

		files = append(files, buildMediaFile(relPath, info, scannedAt))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// checkEntry applies the hidden-entry and stays-under-root policies. It
// returns the slash-separated relative path ("" to skip the entry) and a
// non-nil control error (filepath.SkipDir) when a whole subtree is skipped.
func (w *Walker) checkEntry(path string, d fs.DirEntry) (string, error) {
	if strings.HasPrefix(d.Name(), ".") {
		if d.IsDir() {
			return "", filepath.SkipDir
		}
		return "", nil
	}

	relPath, err := filepath.Rel(w.root, path)
	if err != nil || relPath == "." {
		return "", nil
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) || filepath.IsAbs(relPath) {
		logging.Warn("Skipping %s: escapes media root", path)
		metrics.IndexerFilesSkipped.Inc()
		if d.IsDir() {
			return "", filepath.SkipDir
		}
		return "", nil
	}

	if !d.IsDir() && !d.Type().IsRegular() {
		// Symlinks and other special files are not followed.
		return "", nil
	}

	return filepath.ToSlash(relPath), nil
}

// buildMediaFile creates a MediaFile record from a relative path and its
// filesystem metadata, delegating tag extraction to the tags package.
func buildMediaFile(relPath string, info fs.FileInfo, scannedAt time.Time) index.MediaFile {
	name := info.Name()
	ext := strings.ToLower(filepath.Ext(name))
	mediaType := mediatypes.GetMediaType(ext)

	parsed := tags.Parse(name)
	attributes := make(map[string][]string)
	for _, tag := range parsed.Tags {
		if tag.Kind == tags.KindKeyValue {
			// All values per key are preserved: rating-5 and rating-3 on the
			// same file both survive.
			attributes[tag.Name] = append(attributes[tag.Name], tag.Value)
		}
	}

	id := index.StableID(relPath)

	file := index.MediaFile{
		ID:           id,
		RelativePath: relPath,
		MediaType:    mediaType,
		Tags:         parsed.Tags,
		Attributes:   attributes,
		Filesize:     uint64(info.Size()),
		IndexedAt:    scannedAt,
	}
	if mediatypes.IsPreviewable(mediaType) {
		file.ThumbnailPath = "/api/v1/media/" + id + "/thumbnail"
	}

	return file
}
