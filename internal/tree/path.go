package tree

import "strings"

// labelSeparator joins a file name and its directory in a flat label.
const labelSeparator = "  •  "

// normalize rewrites backslashes to forward slashes so every path the
// package handles uses the same separator.
func normalize(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// FormatLabel renders a flat file label as "name  •  directory". The
// directory part is empty for top-level paths; the separator is always
// present so labels align in the flat presentation.
func FormatLabel(rel string) string {
	rel = normalize(rel)
	name, dir := rel, ""
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		name = rel[i+1:]
		dir = rel[:i]
	}
	return name + labelSeparator + dir
}

// SplitSegments splits a path on slashes (either direction), dropping the
// empty segments produced by leading, trailing or doubled separators.
func SplitSegments(path string) []string {
	parts := strings.Split(normalize(path), "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// RelativeTo computes path relative to base, forward-slash separated. Both
// build and transform go through here so the two sides can never disagree
// on normalization.
func RelativeTo(base, path string) string {
	baseSegments := SplitSegments(base)
	pathSegments := SplitSegments(path)

	common := 0
	for common < len(baseSegments) && common < len(pathSegments) &&
		baseSegments[common] == pathSegments[common] {
		common++
	}

	segments := make([]string, 0, len(baseSegments)-common+len(pathSegments)-common)
	for range baseSegments[common:] {
		segments = append(segments, "..")
	}
	segments = append(segments, pathSegments[common:]...)
	return strings.Join(segments, "/")
}

// joinPath appends one segment to a path prefix with exactly one slash.
func joinPath(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "/" + segment
}
