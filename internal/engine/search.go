package engine

import (
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

// Searcher evaluates an ElementQuery against the accessibility forest (C2).
type Searcher struct {
	Walker      *Walker
	Screenshots platform.Screenshotter // optional; nil skips display-bounds fallback
}

// NewSearcher builds a Searcher over walker, optionally consulting
// screenshotter for the main display's bounds when no window or scroll
// container frame is available for visibility annotation.
func NewSearcher(walker *Walker, screenshotter platform.Screenshotter) *Searcher {
	return &Searcher{Walker: walker, Screenshots: screenshotter}
}

// Find evaluates query against every root in scope (query.Application if
// set, otherwise every regular application) and returns the matches,
// annotated with visibility, plus timing and the total node count visited.
//
// When neither disambiguation flag is set, a positive Limit stops the
// traversal at the first Limit matches (§4.2's "limit = 1: traversal stops
// at first match"). Disambiguating requires seeing every candidate before
// picking a winner, so either flag suspends that stop-at-first-match
// optimization for the duration of this call; Limit is still honored, just
// applied after narrowing instead of during the walk.
func (s *Searcher) Find(query element.ElementQuery) (element.SearchResult, error) {
	start := time.Now()

	roots, err := s.rootsFor(query.Application)
	if err != nil {
		return element.SearchResult{}, err
	}

	disambiguating := query.DisambiguateByFocus || query.DisambiguateByInteractivity

	annotator := NewAnnotator()
	var result element.SearchResult
	var focused *element.Element
	limitReached := false

	for _, root := range roots {
		if limitReached {
			break
		}
		windowFrame := rootWindowFrame(root)
		displayFrame := s.displayFrameFor(root)

		s.Walker.traverseWithAncestors(root, query.MaxDepth, func(e element.Element, ancestors []ancestor) bool {
			result.SearchedCount++
			if focused == nil && e.Focused {
				f := e
				focused = &f
			}
			if query.Matches(e) {
				annotator.Annotate(&e, ancestors, windowFrame, displayFrame)
				result.Elements = append(result.Elements, e)
				if !disambiguating && query.Limit > 0 && len(result.Elements) >= query.Limit {
					limitReached = true
					return false
				}
			}
			return true
		})
	}

	if disambiguating && len(result.Elements) > 1 {
		if query.DisambiguateByFocus && focused != nil {
			result.Elements = narrowByFocusProximity(result.Elements, *focused)
		}
		if query.DisambiguateByInteractivity && len(result.Elements) > 1 {
			result.Elements = preferInteractiveElements(result.Elements)
		}
		if query.Limit > 0 && len(result.Elements) > query.Limit {
			result.Elements = result.Elements[:query.Limit]
		}
	}

	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}

// narrowByFocusProximity filters matches to those sharing the deepest common
// path prefix with the currently focused element, preferring elements in the
// same window/dialog as focus over background matches elsewhere in the tree.
// Grounded on the teacher's resolveElementByText disambiguation
// (cmd/helpers.go's narrowByFocusProximity), adapted from ID-path comparison
// to this engine's role-path (Element.Path) comparison. Returns matches
// unchanged if no match shares any path prefix with focus.
func narrowByFocusProximity(matches []element.Element, focused element.Element) []element.Element {
	bestScore := 0
	scores := make([]int, len(matches))
	for i, m := range matches {
		scores[i] = commonPrefixLen(focused.Path, m.Path)
		if scores[i] > bestScore {
			bestScore = scores[i]
		}
	}
	if bestScore == 0 {
		return matches
	}
	narrowed := make([]element.Element, 0, len(matches))
	for i, m := range matches {
		if scores[i] == bestScore {
			narrowed = append(narrowed, m)
		}
	}
	return narrowed
}

// commonPrefixLen returns the length of the longest common prefix of a and b.
func commonPrefixLen(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// preferInteractiveElements filters matches down to interactive (non-static)
// roles when the match set mixes interactive and static roles — the
// Calculator case where digit "3" matches both a static display and a
// button. Returns matches unchanged when every match is static or every
// match is interactive. Grounded on the teacher's preferInteractiveElements.
func preferInteractiveElements(matches []element.Element) []element.Element {
	interactive := make([]element.Element, 0, len(matches))
	for _, m := range matches {
		if !element.IsStaticRole(m.Role) {
			interactive = append(interactive, m)
		}
	}
	if len(interactive) > 0 && len(interactive) < len(matches) {
		return interactive
	}
	return matches
}

// rootsFor resolves query scope to a list of root nodes: every window of
// the named application, or every window of every regular application when
// application is empty. A named application that isn't running yields an
// empty (non-fatal) root list, per §4.2.
func (s *Searcher) rootsFor(application string) ([]platform.Node, error) {
	if application == "" {
		return s.Walker.AllApplicationElements()
	}
	roots, ok, err := s.Walker.ApplicationElement(application)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return roots, nil
}

// rootWindowFrame returns root's own bounding rectangle, used as the
// visibility fallback viewport when an element has no scrollable ancestor.
// A window-scoped root IS the window, so this needs no extra read.
func rootWindowFrame(root platform.Node) element.Rect {
	if root == nil {
		return element.Rect{}
	}
	return root.Bounds()
}

// displayFrameFor asks the screenshotter for the main display's bounds, if
// a screenshotter was supplied; returns the zero Rect otherwise, which
// Annotate treats as "no display available" per §6's degrade-gracefully
// contract. This engine has no per-window-to-display mapping, so every root
// gets the same main-display frame; a multi-monitor setup where a window
// sits on a secondary display will fall back to the wrong display's bounds
// rather than the zero Rect, which is still a strictly better fallback tier
// than never firing at all.
func (s *Searcher) displayFrameFor(root platform.Node) element.Rect {
	if s.Screenshots == nil {
		return element.Rect{}
	}
	metrics, err := s.Screenshots.DisplayMetrics(platform.Scope{})
	if err != nil {
		return element.Rect{}
	}
	return metrics.Frame()
}
