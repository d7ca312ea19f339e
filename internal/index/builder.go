package index

import (
	"time"

	"galarie/internal/tags"
)

// SchemaVersion identifies the snapshot schema. It is persisted with every
// durable snapshot; a stored snapshot with a different version is unusable.
const SchemaVersion = "1.0.0"

// Build constructs a Snapshot from a list of media files. Building is a pure
// fold over the input: every tag inserts the file's id into TagIndex, every
// attribute key/value pair inserts it into AttributeIndex. Empty input
// yields a valid, empty snapshot.
func Build(media []MediaFile) *Snapshot {
	snap := &Snapshot{
		Version:        SchemaVersion,
		GeneratedAt:    time.Now().UTC(),
		Media:          media,
		TagIndex:       make(map[string]IDSet),
		AttributeIndex: make(map[string]map[string]IDSet),
		byID:           make(map[string]*MediaFile, len(media)),
	}

	for i := range media {
		m := &media[i]
		snap.byID[m.ID] = m

		for _, tag := range m.Tags {
			addToIndex(snap.TagIndex, tag.Normalized, m.ID)
			if tag.Kind == tags.KindKeyValue {
				// Index the bare key name too, so tags=camera matches a
				// file tagged camera-alpha.
				addToIndex(snap.TagIndex, tag.Name, m.ID)
			}
		}

		for key, values := range m.Attributes {
			byValue := snap.AttributeIndex[key]
			if byValue == nil {
				byValue = make(map[string]IDSet)
				snap.AttributeIndex[key] = byValue
			}
			for _, value := range values {
				addToIndex(byValue, value, m.ID)
			}
		}
	}

	return snap
}

// Rebuild re-derives the in-memory indices for a stored snapshot, keeping
// its version and generation time. Used when loading from the durable cache,
// where only the media array is persisted.
func Rebuild(version string, generatedAt time.Time, media []MediaFile) *Snapshot {
	snap := Build(media)
	snap.Version = version
	snap.GeneratedAt = generatedAt
	return snap
}

func addToIndex(idx map[string]IDSet, key, id string) {
	set := idx[key]
	if set == nil {
		set = make(IDSet)
		idx[key] = set
	}
	set[id] = struct{}{}
}
