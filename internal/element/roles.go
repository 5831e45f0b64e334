package element

import "strings"

// RolePrefix is the accessibility convention's canonical role prefix.
const RolePrefix = "AX"

// NormalizeRole canonicalizes a caller-supplied short role name to the
// accessibility convention: prepend RolePrefix and upper-case the first
// character if the caller omitted the prefix.
//
//	NormalizeRole("button") -> "AXButton"
//	NormalizeRole("Button") -> "AXButton"
//	NormalizeRole("AXButton") -> "AXButton"
func NormalizeRole(role string) string {
	if role == "" {
		return ""
	}
	if strings.HasPrefix(role, RolePrefix) {
		return role
	}
	return RolePrefix + strings.ToUpper(role[:1]) + role[1:]
}

// scrollableRoles are roles C3 treats as scroll-container candidates when
// walking up the parent chain.
var scrollableRoles = map[string]bool{
	"AXScrollArea": true,
	"AXWebArea":    true,
	"AXTable":      true,
	"AXList":       true,
	"AXOutline":    true,
}

// IsScrollableRole reports whether role is a scroll-container candidate.
func IsScrollableRole(role string) bool {
	return scrollableRoles[NormalizeRole(strings.TrimPrefix(role, RolePrefix))]
}

// staticRoles are display-only roles that add no interactive affordance and
// should be deprioritized by PreferInteractiveRoles-style disambiguation
// when interactive elements also match the same query.
var staticRoles = map[string]bool{
	"AXStaticText": true,
	"AXImage":      true,
	"AXGroup":      true,
	"AXUnknown":    true,
}

// IsStaticRole reports whether role is a display-only, non-interactive role.
func IsStaticRole(role string) bool {
	return staticRoles[NormalizeRole(role)]
}

// HasWebContent reports whether elements contains an AXWebArea node,
// meaning the tree belongs to a browser or an embedded web view where a
// caller's role filter may need widening (see ExpandRolesForWeb).
func HasWebContent(elements []Element) bool {
	for i := range elements {
		if NormalizeRole(elements[i].Role) == "AXWebArea" {
			return true
		}
	}
	return false
}

// ExpandRolesForWeb auto-expands a caller's role filter to include
// AXUnknown when AXTextField is present and hasWeb is true. Chrome exposes
// some web input fields under role AXUnknown instead of AXTextField, so a
// literal role filter would otherwise silently miss them.
func ExpandRolesForWeb(roles []string, hasWeb bool) ([]string, bool) {
	if !hasWeb {
		return roles, false
	}
	hasField, hasUnknown := false, false
	for _, r := range roles {
		switch NormalizeRole(r) {
		case "AXTextField":
			hasField = true
		case "AXUnknown":
			hasUnknown = true
		}
	}
	if hasField && !hasUnknown {
		return append(roles, "AXUnknown"), true
	}
	return roles, false
}
