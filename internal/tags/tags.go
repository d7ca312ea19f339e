package tags

import (
	"strings"
	"unicode"

	"galarie/internal/logging"
)

// Kind distinguishes bare keyword tags from key/value attribute tags.
type Kind string

const (
	// KindSimple is a bare keyword token with no associated value.
	KindSimple Kind = "simple"
	// KindKeyValue is a token encoding a named attribute and its value.
	KindKeyValue Kind = "keyvalue"
)

// Tag is an immutable, normalized tag parsed from a filename token.
// Normalized is lowercase; for key/value tags it is "name=value".
type Tag struct {
	RawToken   string `json:"rawToken"`
	Kind       Kind   `json:"type"`
	Name       string `json:"name"`
	Value      string `json:"value,omitempty"`
	Normalized string `json:"normalized"`
}

// ParseResult holds the tags recovered from a filename plus the raw tokens
// that were skipped as malformed.
type ParseResult struct {
	Tags          []Tag
	InvalidTokens []string
}

// Parse extracts tags from a filename. The stem (everything before the first
// dot) is split on underscores, plus signs, and whitespace. A token that
// contains a ':' or '-' with non-empty text on both sides becomes a
// key/value tag; otherwise the token is a simple tag. Malformed tokens are
// collected in InvalidTokens and logged, never fatal to the parse.
//
// Duplicate tags (by normalized form) collapse to the first occurrence, and
// output order matches the order tokens appeared in the filename.
func Parse(filename string) ParseResult {
	stem := filename
	if i := strings.IndexByte(filename, '.'); i >= 0 {
		stem = filename[:i]
	}

	var result ParseResult
	seen := make(map[string]bool)

	tokens := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '+' || unicode.IsSpace(r)
	})

	for _, token := range tokens {
		raw := strings.TrimSpace(token)
		if raw == "" {
			continue
		}

		tag, ok := classify(raw)
		if !ok {
			logging.Warn("Skipping invalid tag token %q in %q", raw, filename)
			result.InvalidTokens = append(result.InvalidTokens, raw)
			continue
		}

		if seen[tag.Normalized] {
			continue
		}
		seen[tag.Normalized] = true
		result.Tags = append(result.Tags, tag)
	}

	return result
}

// classify turns a trimmed, non-empty token into a Tag. It returns false for
// tokens that carry no usable text: key/value separators with an empty side,
// or tokens without a single letter or digit.
func classify(raw string) (Tag, bool) {
	if !hasAlphanumeric(raw) {
		return Tag{}, false
	}

	if strings.ContainsAny(raw, ":-") {
		key, value, ok := splitKeyValue(raw, ':')
		if !ok {
			key, value, ok = splitKeyValue(raw, '-')
		}
		if !ok {
			return Tag{}, false
		}

		name := normalize(key)
		normalizedValue := normalize(value)
		return Tag{
			RawToken:   raw,
			Kind:       KindKeyValue,
			Name:       name,
			Value:      normalizedValue,
			Normalized: name + "=" + normalizedValue,
		}, true
	}

	name := normalize(raw)
	return Tag{
		RawToken:   raw,
		Kind:       KindSimple,
		Name:       name,
		Normalized: name,
	}, true
}

// splitKeyValue splits a token on the first occurrence of sep, requiring
// non-empty trimmed text on both sides.
func splitKeyValue(token string, sep rune) (key, value string, ok bool) {
	idx := strings.IndexRune(token, sep)
	if idx < 0 {
		return "", "", false
	}

	key = strings.TrimSpace(token[:idx])
	value = strings.TrimSpace(token[idx+len(string(sep)):])
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
