package search

import (
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"galarie/internal/index"
	"galarie/internal/metrics"
)

const (
	// DefaultPageSize is used when a query does not specify one.
	DefaultPageSize = 60
	// MaxPageSize caps how many items a single page may return.
	MaxPageSize = 200
)

// TagFilter is a validated search request. RequiredTags use AND semantics;
// AttributeFilters are OR within a key and AND across keys.
type TagFilter struct {
	RequiredTags     []string
	AttributeFilters map[string][]string
	Page             int
	PageSize         int
}

// Validate enforces pagination bounds. Tag and attribute values need no
// validation: unknown terms yield empty results, not errors.
func (f TagFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Page, validation.Required, validation.Min(1)),
		validation.Field(&f.PageSize, validation.Required, validation.Min(1), validation.Max(MaxPageSize)),
	)
}

// Normalize lowercases tag and attribute terms, applies pagination
// defaults for unset fields and clamps oversized pages to MaxPageSize.
// Explicitly invalid values are left for Validate to reject.
func (f *TagFilter) Normalize() {
	for i, tag := range f.RequiredTags {
		f.RequiredTags[i] = strings.ToLower(strings.TrimSpace(tag))
	}
	if f.AttributeFilters != nil {
		normalized := make(map[string][]string, len(f.AttributeFilters))
		for key, values := range f.AttributeFilters {
			lowered := make([]string, len(values))
			for i, v := range values {
				lowered[i] = strings.ToLower(strings.TrimSpace(v))
			}
			normalized[strings.ToLower(strings.TrimSpace(key))] = lowered
		}
		f.AttributeFilters = normalized
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// Result is one page of matches. Total counts all matches before
// pagination, so Total >= len(Items) always holds.
type Result struct {
	Items    []index.MediaFile `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// Search evaluates a filter against a snapshot. Results are sorted by
// relative path ascending, so pagination is deterministic against the same
// snapshot generation. Requesting a page past the end returns empty items
// with the correct total.
func Search(filter TagFilter, snap *index.Snapshot) Result {
	start := time.Now()

	ids := matchIDs(filter, snap)

	matched := make([]index.MediaFile, 0, len(ids))
	for id := range ids {
		if m, ok := snap.Lookup(id); ok {
			matched = append(matched, *m)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].RelativePath < matched[j].RelativePath
	})

	total := len(matched)
	startIdx := (filter.Page - 1) * filter.PageSize
	if startIdx > total {
		startIdx = total
	}
	endIdx := startIdx + filter.PageSize
	if endIdx > total {
		endIdx = total
	}

	result := Result{
		Items:    matched[startIdx:endIdx],
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	metrics.SearchQueryDuration.Observe(time.Since(start).Seconds())
	metrics.SearchResultsReturned.Observe(float64(len(result.Items)))
	return result
}

// matchIDs computes the id set satisfying every filter term. The running
// set starts as all media and only shrinks, so an empty intermediate set
// short-circuits.
func matchIDs(filter TagFilter, snap *index.Snapshot) index.IDSet {
	ids := make(index.IDSet, snap.Len())
	for _, m := range snap.Media {
		ids[m.ID] = struct{}{}
	}

	for _, tag := range filter.RequiredTags {
		if tag == "" {
			continue
		}
		ids = intersect(ids, snap.TagIndex[tag])
		if len(ids) == 0 {
			return ids
		}
	}

	for key, values := range filter.AttributeFilters {
		// Union over the listed values, then intersect into the result.
		// An unknown key or value contributes nothing to the union.
		union := make(index.IDSet)
		for _, v := range values {
			for id := range snap.AttributeIndex[key][v] {
				union[id] = struct{}{}
			}
		}
		ids = intersect(ids, union)
		if len(ids) == 0 {
			return ids
		}
	}

	return ids
}

func intersect(a, b index.IDSet) index.IDSet {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(index.IDSet, len(a))
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}
