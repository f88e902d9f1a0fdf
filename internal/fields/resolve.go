// Package fields resolves field paths against raw Jira issue payloads and
// formats the resolved values for display.
package fields

import (
	"strconv"
	"strings"
)

// segment is one parsed element of a field path: a member name followed by
// zero or more array indices, e.g. "labels[0]".
type segment struct {
	name    string
	indices []int
}

// parsePath splits a dotted field path into segments. Bracketed integer
// indices are attached to the preceding name; a malformed bracket expression
// makes the segment unresolvable (nil name match) rather than an error.
func parsePath(path string) []segment {
	parts := strings.Split(path, ".")
	segments := make([]segment, 0, len(parts))

	for _, part := range parts {
		seg := segment{name: part}
		if open := strings.IndexByte(part, '['); open != -1 {
			seg.name = part[:open]
			rest := part[open:]
			for strings.HasPrefix(rest, "[") {
				end := strings.IndexByte(rest, ']')
				if end == -1 {
					// Unterminated bracket: keep the raw text as the name so
					// resolution misses instead of panicking.
					return append(segments, segment{name: part})
				}
				idx, err := strconv.Atoi(rest[1:end])
				if err != nil {
					return append(segments, segment{name: part})
				}
				seg.indices = append(seg.indices, idx)
				rest = rest[end+1:]
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// normalizePath applies the shorthand rule: a path not rooted at "fields",
// "key" or "id" is implicitly prefixed with "fields.".
func normalizePath(path string) string {
	root := path
	if i := strings.IndexAny(path, ".["); i != -1 {
		root = path[:i]
	}
	switch root {
	case "fields", "key", "id":
		return path
	}
	return "fields." + path
}

// Resolve walks a dotted, optionally array-indexed field path against an
// issue payload and returns the value found there, or nil. Traversal stops
// the moment an intermediate segment is absent, a non-object is indexed by
// name, a non-array is indexed by position, or an index is out of bounds.
// Resolve never panics; absence is always representable as nil.
func Resolve(doc map[string]any, path string) any {
	if doc == nil || path == "" {
		return nil
	}

	var current any = doc
	for _, seg := range parsePath(normalizePath(path)) {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = obj[seg.name]
		if !ok || current == nil {
			return nil
		}
		for _, idx := range seg.indices {
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil
			}
			current = arr[idx]
			if current == nil {
				return nil
			}
		}
	}
	return current
}
