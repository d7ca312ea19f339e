package index

import (
	"testing"
	"time"

	"galarie/internal/mediatypes"
	"galarie/internal/tags"
)

func testFile(relPath string, fileTags ...tags.Tag) MediaFile {
	attrs := make(map[string][]string)
	for _, tag := range fileTags {
		if tag.Kind == tags.KindKeyValue {
			attrs[tag.Name] = append(attrs[tag.Name], tag.Value)
		}
	}

	return MediaFile{
		ID:           StableID(relPath),
		RelativePath: relPath,
		MediaType:    mediatypes.MediaTypeImage,
		Tags:         fileTags,
		Attributes:   attrs,
		IndexedAt:    time.Now(),
	}
}

func simpleTag(name string) tags.Tag {
	return tags.Tag{RawToken: name, Kind: tags.KindSimple, Name: name, Normalized: name}
}

func kvTag(key, value string) tags.Tag {
	return tags.Tag{
		RawToken:   key + "-" + value,
		Kind:       tags.KindKeyValue,
		Name:       key,
		Value:      value,
		Normalized: key + "=" + value,
	}
}

func TestBuildEmptyInput(t *testing.T) {
	snap := Build(nil)

	if snap.Len() != 0 {
		t.Errorf("Expected empty snapshot, got %d media", snap.Len())
	}
	if snap.Version != SchemaVersion {
		t.Errorf("Expected version %q, got %q", SchemaVersion, snap.Version)
	}
	if len(snap.TagIndex) != 0 || len(snap.AttributeIndex) != 0 {
		t.Error("Expected empty indices for empty input")
	}
}

func TestBuildIndexesTagsAndAttributes(t *testing.T) {
	snap := Build([]MediaFile{
		testFile("sunset_coast_rating-5.png", simpleTag("sunset"), simpleTag("coast"), kvTag("rating", "5")),
		testFile("macro_rating-4.gif", simpleTag("macro"), kvTag("rating", "4")),
	})

	sunsetID := StableID("sunset_coast_rating-5.png")
	macroID := StableID("macro_rating-4.gif")

	if _, ok := snap.TagIndex["sunset"][sunsetID]; !ok {
		t.Error("Expected sunset tag to index the first file")
	}
	if _, ok := snap.TagIndex["rating=5"][sunsetID]; !ok {
		t.Error("Expected normalized kv tag in the tag index")
	}
	// Bare key name is indexed alongside the full normalized form.
	if _, ok := snap.TagIndex["rating"][macroID]; !ok {
		t.Error("Expected kv tag name to index the second file")
	}
	if _, ok := snap.AttributeIndex["rating"]["4"][macroID]; !ok {
		t.Error("Expected attribute index entry rating=4")
	}
	if _, ok := snap.AttributeIndex["rating"]["5"][sunsetID]; !ok {
		t.Error("Expected attribute index entry rating=5")
	}
}

func TestBuildReferentialIntegrity(t *testing.T) {
	snap := Build([]MediaFile{
		testFile("a_rating-1.png", simpleTag("a"), kvTag("rating", "1")),
		testFile("b_rating-2.png", simpleTag("b"), kvTag("rating", "2")),
		testFile("c.png", simpleTag("c")),
	})

	known := make(map[string]bool)
	for _, m := range snap.Media {
		known[m.ID] = true
	}

	for tag, ids := range snap.TagIndex {
		for id := range ids {
			if !known[id] {
				t.Errorf("TagIndex[%q] references unknown id %s", tag, id)
			}
		}
	}
	for key, byValue := range snap.AttributeIndex {
		for value, ids := range byValue {
			for id := range ids {
				if !known[id] {
					t.Errorf("AttributeIndex[%q][%q] references unknown id %s", key, value, id)
				}
			}
		}
	}
}

func TestBuildMultiValuedAttributes(t *testing.T) {
	// A file tagged rating-5 and rating-3 keeps both values.
	snap := Build([]MediaFile{
		testFile("x_rating-5_rating-3.png", kvTag("rating", "5"), kvTag("rating", "3")),
	})

	id := StableID("x_rating-5_rating-3.png")
	if _, ok := snap.AttributeIndex["rating"]["5"][id]; !ok {
		t.Error("Expected rating=5 to be indexed")
	}
	if _, ok := snap.AttributeIndex["rating"]["3"][id]; !ok {
		t.Error("Expected rating=3 to be indexed")
	}
}

func TestLookup(t *testing.T) {
	file := testFile("nested/example.jpg", simpleTag("nested"))
	snap := Build([]MediaFile{file})

	got, ok := snap.Lookup(file.ID)
	if !ok {
		t.Fatal("Expected Lookup to find the file")
	}
	if got.RelativePath != "nested/example.jpg" {
		t.Errorf("Expected relativePath %q, got %q", "nested/example.jpg", got.RelativePath)
	}

	if _, ok := snap.Lookup("nope"); ok {
		t.Error("Expected Lookup miss for unknown id")
	}
}

func TestStableIDDeterministic(t *testing.T) {
	a := StableID("foo/bar.jpg")
	b := StableID("foo/bar.jpg")
	c := StableID("foo/baz.jpg")

	if a != b {
		t.Error("Expected identical ids for identical paths")
	}
	if a == c {
		t.Error("Expected different ids for different paths")
	}
	if len(a) != 40 {
		t.Errorf("Expected 40-char hex id, got %d chars", len(a))
	}
}

func TestRebuildPreservesVersionAndTime(t *testing.T) {
	generated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := Rebuild("0.9.0", generated, []MediaFile{testFile("a.png", simpleTag("a"))})

	if snap.Version != "0.9.0" {
		t.Errorf("Expected version %q, got %q", "0.9.0", snap.Version)
	}
	if !snap.GeneratedAt.Equal(generated) {
		t.Errorf("Expected generatedAt %v, got %v", generated, snap.GeneratedAt)
	}
	if len(snap.TagIndex) == 0 {
		t.Error("Expected indices to be rebuilt")
	}
}
