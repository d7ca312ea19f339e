package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"galarie/internal/index"
	"galarie/internal/metrics"
	"galarie/internal/search"
)

// SearchMedia handles GET /api/v1/media. Query parameters:
//
//	tags=a,b,c            required tags, AND semantics
//	attributes[key]=v1,v2 repeated per key; OR within a key, AND across keys
//	page, pageSize        pagination (defaults 1 and 60, capped at 200)
func (h *Handlers) SearchMedia(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSearchQuery(r)
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	filter.Normalize()
	if err := filter.Validate(); err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	result := search.Search(filter, h.coordinator.Current())
	if result.Items == nil {
		result.Items = []index.MediaFile{}
	}

	metrics.SearchQueriesTotal.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, result)
}

// parseSearchQuery builds a TagFilter from the request query string. Absent
// pagination parameters fall back to defaults; present but non-numeric or
// non-positive values are rejected.
func parseSearchQuery(r *http.Request) (search.TagFilter, error) {
	var filter search.TagFilter
	query := r.URL.Query()

	if query.Has("tags") {
		for _, tag := range strings.Split(query.Get("tags"), ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.RequiredTags = append(filter.RequiredTags, tag)
			}
		}
		// A present tags parameter must carry at least one value, so a
		// typo like "tags=" fails loudly instead of matching everything.
		if len(filter.RequiredTags) == 0 {
			return filter, errors.New("tags must contain at least one value")
		}
	}

	for key, values := range query {
		attrKey, ok := attributeKey(key)
		if !ok {
			continue
		}
		for _, raw := range values {
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					if filter.AttributeFilters == nil {
						filter.AttributeFilters = make(map[string][]string)
					}
					filter.AttributeFilters[attrKey] = append(filter.AttributeFilters[attrKey], v)
				}
			}
		}
	}

	var err error
	if filter.Page, err = parsePositiveInt(query.Get("page"), "page"); err != nil {
		return filter, err
	}
	if filter.PageSize, err = parsePositiveInt(query.Get("pageSize"), "pageSize"); err != nil {
		return filter, err
	}

	return filter, nil
}

// attributeKey extracts key from a query parameter of the form
// "attributes[key]".
func attributeKey(param string) (string, bool) {
	if !strings.HasPrefix(param, "attributes[") || !strings.HasSuffix(param, "]") {
		return "", false
	}
	key := param[len("attributes[") : len(param)-1]
	if key == "" {
		return "", false
	}
	return key, true
}

// parsePositiveInt parses a pagination parameter. An empty value yields 0,
// which means "use the default".
func parsePositiveInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &queryError{name: name, value: raw}
	}
	if n < 1 {
		return 0, &queryError{name: name, value: raw}
	}
	return n, nil
}

type queryError struct {
	name  string
	value string
}

func (e *queryError) Error() string {
	return e.name + " must be a positive integer, got " + strconv.Quote(e.value)
}
