package element

import (
	"fmt"
	"regexp"
	"strings"
)

// PathRefEntry is one human-readable landmark path assigned by
// GeneratePathRefs, alongside the index of the element it names and that
// element's stable C8 reference. Path refs are a supplemental convenience
// layer on top of the reference codec — they never appear on the wire and
// never replace Element.Ref; they exist so a caller (or the CLI's "do"
// batch runner) can name an element as "toolbar/search" instead of
// recomputing its structural or positional reference by hand.
type PathRefEntry struct {
	Path string
	Ref  string
	Index int
}

var pathSlugRe = regexp.MustCompile(`[^a-z0-9-]+`)

func pathSlugify(s string) string {
	s = strings.ToLower(s)
	s = pathSlugRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	if len(s) > 40 {
		s = strings.TrimRight(s[:40], "-")
	}
	return s
}

func pathLabel(e Element) string {
	if e.Title != "" {
		return e.Title
	}
	if e.AccessibilityDescription != "" {
		return e.AccessibilityDescription
	}
	return ""
}

var pathLandmarkRoles = map[string]bool{
	"AXToolbar": true,
	"AXMenu":    true,
	"AXList":    true,
	"AXTabGroup": true,
}

var pathDialogSubroles = map[string]bool{
	"AXDialog":       true,
	"AXSheet":        true,
	"AXSystemDialog": true,
}

var pathSkippedRoles = map[string]bool{
	"AXWindow":     true,
	"AXScrollArea": true,
	"AXWebArea":    true,
}

func isPathLandmark(e Element) bool {
	if pathLandmarkRoles[e.Role] {
		return true
	}
	if pathDialogSubroles[e.Subrole] {
		return true
	}
	if e.Role == "AXGroup" && pathLabel(e) != "" {
		return true
	}
	return false
}

func isSkippedInPath(e Element) bool {
	if pathSkippedRoles[e.Role] {
		return true
	}
	if pathLabel(e) == "" {
		switch e.Role {
		case "AXGroup", "AXUnknown", "AXRow", "AXCell":
			return !isPathLandmark(e)
		}
	}
	return false
}

func pathSegment(e Element) string {
	if label := pathLabel(e); label != "" {
		if slug := pathSlugify(label); slug != "" {
			return slug
		}
	}
	if pathDialogSubroles[e.Subrole] {
		return "dialog"
	}
	return strings.TrimPrefix(e.Role, RolePrefix)
}

func isPathInteresting(e Element) bool {
	for _, a := range e.Actions {
		if a == "AXPress" {
			return true
		}
	}
	if e.Role == "AXStaticText" && e.Value != "" {
		return true
	}
	switch e.Role {
	case "AXTextField", "AXTextArea", "AXCheckBox", "AXRadioButton", "AXSlider", "AXPopUpButton":
		return true
	}
	return false
}

// GeneratePathRefs walks elements — a preorder, depth-annotated flat
// traversal as produced by the walker — and returns one PathRefEntry per
// "interesting" element (interactive, or static text carrying a value).
// Landmarks (toolbars, menus, labeled groups, dialog containers) extend the
// path; everything else either extends it with its own label or is
// transparent. Duplicate paths are disambiguated with a ".N" suffix in
// discovery order.
func GeneratePathRefs(elements []Element) []PathRefEntry {
	var entries []PathRefEntry
	pathByDepth := map[int]string{-1: ""}

	for i, e := range elements {
		parentPath := pathByDepth[e.Depth-1]

		switch {
		case isPathLandmark(e):
			seg := pathSegment(e)
			pathByDepth[e.Depth] = joinPath(parentPath, seg)
		case isSkippedInPath(e):
			pathByDepth[e.Depth] = parentPath
		default:
			pathByDepth[e.Depth] = parentPath
		}

		if isPathInteresting(e) {
			entries = append(entries, PathRefEntry{
				Path:  joinPath(parentPath, pathSegment(e)),
				Ref:   EncodeReference(e),
				Index: i,
			})
		}
	}

	deduplicatePathRefs(entries)
	return entries
}

func joinPath(parent, seg string) string {
	if parent == "" {
		return seg
	}
	return parent + "/" + seg
}

func deduplicatePathRefs(entries []PathRefEntry) {
	counts := make(map[string][]int)
	for i, e := range entries {
		counts[e.Path] = append(counts[e.Path], i)
	}
	for path, idxs := range counts {
		if len(idxs) <= 1 {
			continue
		}
		for n, idx := range idxs {
			entries[idx].Path = fmt.Sprintf("%s.%d", path, n+1)
		}
	}
}

// FindByPathRef looks up path among entries, trying an exact match first
// and falling back to a unique trailing-segment match (so "search" resolves
// "toolbar/search" when it is the only entry ending that way).
func FindByPathRef(entries []PathRefEntry, path string) (PathRefEntry, error) {
	for _, e := range entries {
		if e.Path == path {
			return e, nil
		}
	}

	var matches []PathRefEntry
	for _, e := range entries {
		if strings.HasSuffix(e.Path, "/"+path) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return PathRefEntry{}, fmt.Errorf("no element matches path ref %q", path)
	case 1:
		return matches[0], nil
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "multiple elements match path ref %q:\n", path)
		for _, m := range matches {
			fmt.Fprintf(&b, "  path=%q ref=%q\n", m.Path, m.Ref)
		}
		return PathRefEntry{}, fmt.Errorf("%s", b.String())
	}
}
