package browse

import "strings"

// Crumb is one breadcrumb segment: the segment name and the cumulative
// logical path up to it.
type Crumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Breadcrumbs splits a logical path into cumulative navigation segments.
// Both slash styles are accepted; empty input yields an empty slice.
func Breadcrumbs(current string) []Crumb {
	crumbs := []Crumb{}
	if current == "" {
		return crumbs
	}

	var parts []string
	for _, part := range strings.Split(strings.ReplaceAll(current, "\\", "/"), "/") {
		if part == "" {
			continue
		}
		parts = append(parts, part)
		crumbs = append(crumbs, Crumb{Name: part, Path: strings.Join(parts, "/")})
	}
	return crumbs
}

// ParentPath returns the logical path one level up, or "" at the root.
func ParentPath(current string) string {
	if current == "" {
		return ""
	}

	parts := strings.Split(strings.ReplaceAll(current, "\\", "/"), "/")
	if len(parts) > 1 {
		return strings.Join(parts[:len(parts)-1], "/")
	}
	return ""
}

// CleanPath sanitizes a decoded request path before it may be joined to
// the root: ".." sequences are stripped, duplicate slashes collapsed and
// surrounding slashes trimmed. Callers must run every incoming path
// through this before any model operation.
func CleanPath(raw string) string {
	p := strings.ReplaceAll(raw, "\\", "/")
	p = strings.ReplaceAll(p, "..", "")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return strings.Trim(p, "/")
}

// joinLogical joins a parent logical path and a child name with a
// forward slash.
func joinLogical(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
