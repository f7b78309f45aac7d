package navigator

import "strings"

// Normalize canonicalizes a workspace-relative path: any mix of forward and
// backward separators is accepted, empty segments and surrounding whitespace
// are dropped, and segments are rejoined with "/". The empty string is the
// workspace root.
//
// Dot and dot-dot segments are dropped too. Ascending is only ever the
// explicit Parent computation, so no path can spell an escape above the
// workspace root.
func Normalize(p string) string {
	return strings.Join(splitSegments(p), "/")
}

// Join appends a child segment (or a relative sub-path) to a normalized path.
func Join(p, name string) string {
	segments := splitSegments(p)
	segments = append(segments, splitSegments(name)...)
	return strings.Join(segments, "/")
}

// Parent ascends exactly one segment. The parent of a single-segment path,
// or of the root, is the root ("").
func Parent(p string) string {
	segments := splitSegments(p)
	if len(segments) <= 1 {
		return ""
	}
	return strings.Join(segments[:len(segments)-1], "/")
}

// Breadcrumb returns the path's segments in order, root first.
// The root itself has an empty breadcrumb.
func Breadcrumb(p string) []string {
	return splitSegments(p)
}

// splitSegments splits on either separator, trims whitespace, and drops
// empty, dot, and dot-dot segments. This is the single place path strings
// are picked apart.
func splitSegments(p string) []string {
	parts := strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "." || part == ".." {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}
