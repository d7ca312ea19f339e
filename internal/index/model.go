package index

import (
	"crypto/sha1"
	"fmt"
	"time"

	"galarie/internal/mediatypes"
	"galarie/internal/tags"
)

// MediaFile is one indexed file under the media root. Instances are created
// by the walker during a rebuild and are immutable once placed in a Snapshot.
type MediaFile struct {
	ID            string               `json:"id"`
	RelativePath  string               `json:"relativePath"`
	MediaType     mediatypes.MediaType `json:"mediaType"`
	Tags          []tags.Tag           `json:"tags"`
	Attributes    map[string][]string  `json:"attributes"`
	Filesize      uint64               `json:"filesize"`
	ThumbnailPath string               `json:"thumbnailPath,omitempty"`
	IndexedAt     time.Time            `json:"indexedAt"`
}

// StableID derives a deterministic media id from a slash-separated relative
// path. Renaming a file changes its identity; re-indexing the same path is
// idempotent.
func StableID(relativePath string) string {
	return fmt.Sprintf("%x", sha1.Sum([]byte(relativePath)))
}

// IDSet is a set of media ids.
type IDSet map[string]struct{}

// Snapshot is an immutable, fully self-consistent view of the index at one
// point in time. The inverted indices are derived entirely from Media and
// are never mutated after Build returns.
type Snapshot struct {
	Version     string
	GeneratedAt time.Time
	Media       []MediaFile

	// TagIndex maps a normalized tag (and, for key/value tags, the bare key
	// name) to the ids of media carrying it.
	TagIndex map[string]IDSet

	// AttributeIndex maps attribute key -> value -> ids.
	AttributeIndex map[string]map[string]IDSet

	byID map[string]*MediaFile
}

// Lookup returns the media file with the given id, if present.
func (s *Snapshot) Lookup(id string) (*MediaFile, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// Len returns the number of indexed media files.
func (s *Snapshot) Len() int {
	return len(s.Media)
}
