package element

import (
	"fmt"
	"strings"
)

// ElementQuery is an immutable description of what to look for. The zero
// value matches everything (callers are expected to reject a query with no
// predicates at their own validation layer, per spec — the core itself has
// no opinion and will happily return everything up to Limit).
type ElementQuery struct {
	Text            string
	Role            string
	Application     string
	Identifier      string
	SiblingIndex    *int
	ParentRole      string
	MinWidth        *float64
	MaxWidth        *float64
	MinHeight       *float64
	MaxHeight       *float64
	FuzzyMatch      bool
	Limit           int // 0 = unlimited
	MaxDepth        int // 0 = unlimited

	// DisambiguateByFocus and DisambiguateByInteractivity are supplemental,
	// default-off tie-breaking passes a caller may opt into when a query
	// with Limit == 1 would otherwise return an arbitrary first match among
	// several. They never change the documented matching order (§4.2); they
	// only narrow an already-matching set. Setting either suspends the
	// stop-at-first-match traversal-limit optimization for this query, since
	// narrowing needs every candidate collected before Limit is applied.
	DisambiguateByFocus         bool
	DisambiguateByInteractivity bool
}

// HasPredicate reports whether the query specifies at least one filter.
func (q ElementQuery) HasPredicate() bool {
	return q.Text != "" || q.Role != "" || q.Application != "" || q.Identifier != "" ||
		q.SiblingIndex != nil || q.ParentRole != "" ||
		q.MinWidth != nil || q.MaxWidth != nil || q.MinHeight != nil || q.MaxHeight != nil
}

// String renders a compact description of the query, used in NotFoundError messages.
func (q ElementQuery) String() string {
	var parts []string
	if q.Text != "" {
		parts = append(parts, fmt.Sprintf("text=%q", q.Text))
	}
	if q.Role != "" {
		parts = append(parts, fmt.Sprintf("role=%q", q.Role))
	}
	if q.Application != "" {
		parts = append(parts, fmt.Sprintf("application=%q", q.Application))
	}
	if q.Identifier != "" {
		parts = append(parts, fmt.Sprintf("identifier=%q", q.Identifier))
	}
	if q.SiblingIndex != nil {
		parts = append(parts, fmt.Sprintf("siblingIndex=%d", *q.SiblingIndex))
	}
	if q.ParentRole != "" {
		parts = append(parts, fmt.Sprintf("parentRole=%q", q.ParentRole))
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Matches reports whether e satisfies every predicate set on q, following
// the documented matching order: role, text, identifier, sibling index,
// parent role, size bounds.
func (q ElementQuery) Matches(e Element) bool {
	if q.Role != "" && e.Role != NormalizeRole(q.Role) {
		return false
	}
	if q.Text != "" && !matchesText(e, q.Text, q.FuzzyMatch) {
		return false
	}
	if q.Identifier != "" && e.Identifier != q.Identifier {
		return false
	}
	if q.SiblingIndex != nil {
		if e.SiblingIndex == nil || *e.SiblingIndex != *q.SiblingIndex {
			return false
		}
	}
	if q.ParentRole != "" && e.ParentRole != NormalizeRole(q.ParentRole) {
		return false
	}
	if !sizeWithin(e.Size.Width, q.MinWidth, q.MaxWidth) {
		return false
	}
	if !sizeWithin(e.Size.Height, q.MinHeight, q.MaxHeight) {
		return false
	}
	return true
}

// sizeWithin implements the half-open [min, max) bound described in §4.2.
func sizeWithin(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v >= *max {
		return false
	}
	return true
}

func matchesText(e Element, needle string, fuzzy bool) bool {
	needleLower := strings.ToLower(needle)
	for _, candidate := range e.TextCandidates() {
		if candidate == "" {
			continue
		}
		candidateLower := strings.ToLower(candidate)
		if fuzzy {
			if isSubsequence(needleLower, candidateLower) {
				return true
			}
		} else if strings.Contains(candidateLower, needleLower) {
			return true
		}
	}
	return false
}

// isSubsequence reports whether needle occurs as an ordered, not necessarily
// contiguous, subsequence of haystack.
func isSubsequence(needle, haystack string) bool {
	if needle == "" {
		return true
	}
	ni := 0
	nr := []rune(needle)
	for _, r := range haystack {
		if nr[ni] == r {
			ni++
			if ni == len(nr) {
				return true
			}
		}
	}
	return false
}
