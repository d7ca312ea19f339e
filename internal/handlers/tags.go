package handlers

import (
	"net/http"
	"sort"
)

// TagCount is one entry of the tag inventory.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagsResponse lists every indexed tag with its media count.
type TagsResponse struct {
	Tags  []TagCount `json:"tags"`
	Total int        `json:"total"`
}

// GetAllTags handles GET /api/v1/tags. Tags are sorted by descending count,
// ties broken alphabetically, so the most used tags come first.
func (h *Handlers) GetAllTags(w http.ResponseWriter, _ *http.Request) {
	snap := h.coordinator.Current()

	tags := make([]TagCount, 0, len(snap.TagIndex))
	for name, ids := range snap.TagIndex {
		tags = append(tags, TagCount{Name: name, Count: len(ids)})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Name < tags[j].Name
	})

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, TagsResponse{Tags: tags, Total: len(tags)})
}
