// Package engine is the element engine: the depth-first tree walker (C1),
// the query/matching and visibility/scroll analysis that ride on top of it
// (C2, C3), the scroll-into-view service (C4), and the humanized movement
// generator (C5). The action layer (C7) that composes these with a
// platform.Provider into click/type/read/capture/drag/scroll lives in
// package action.
//
// Everything here is exercised only through the platform.Node and
// platform.AccessibilityProvider interfaces — never a concrete darwin type
// — so the walker, matcher, and annotator can be driven by a fake in unit
// tests without an accessibility permission grant.
package engine

import (
	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

// Walker enumerates the accessibility forest through platform.Node and
// materializes element.Element values with correct path, depth, sibling
// index, and parent role.
type Walker struct {
	Accessibility platform.AccessibilityProvider
	Workspace     platform.Workspace
}

// NewWalker builds a Walker over the given platform backends.
func NewWalker(accessibility platform.AccessibilityProvider, workspace platform.Workspace) *Walker {
	return &Walker{Accessibility: accessibility, Workspace: workspace}
}

// ancestor pairs an already-materialized Element with the platform.Node it
// came from, so C3's nearest-scroll-container search can inspect both the
// element's geometry and re-read its live children (for scroll bars)
// without a second accessibility pass.
type ancestor struct {
	Element element.Element
	Node    platform.Node
}

// visitFunc is the internal per-node callback, carrying the full ancestor
// chain (root-to-parent, inclusive of neither the call's own node) so
// visibility annotation can walk it without touching the OS again. It
// returns false to abort the entire traversal immediately.
type visitFunc func(e element.Element, ancestors []ancestor) bool

// Traverse performs a depth-first walk rooted at root, calling visit for
// every element the walker can materialize. maxDepth of 0 means unlimited.
// visit returns false to stop the traversal early.
func (w *Walker) Traverse(root platform.Node, maxDepth int, visit func(element.Element) bool) error {
	visited := make(map[uintptr]bool)
	w.walk(root, nil, nil, 0, maxDepth, nil, visited, func(e element.Element, _ []ancestor) bool {
		return visit(e)
	})
	return nil
}

// traverseWithAncestors is Traverse's ancestor-carrying counterpart, used
// internally by Find and the annotator so they can compute visibility
// without a second accessibility pass.
func (w *Walker) traverseWithAncestors(root platform.Node, maxDepth int, visit visitFunc) {
	visited := make(map[uintptr]bool)
	w.walk(root, nil, nil, 0, maxDepth, nil, visited, visit)
}

// Collect runs Traverse and returns every element for which filter returns
// true (or every element, if filter is nil).
func (w *Walker) Collect(root platform.Node, maxDepth int, filter func(element.Element) bool) ([]element.Element, error) {
	var out []element.Element
	err := w.Traverse(root, maxDepth, func(e element.Element) bool {
		if filter == nil || filter(e) {
			out = append(out, e)
		}
		return true
	})
	return out, err
}

// walk is the ancestor-aware recursive step. ancestors is reused across
// sibling calls at the same depth and only ever appended to, never mutated
// in place, so a callback that stashes the slice sees a stable snapshot.
func (w *Walker) walk(node platform.Node, parentElement *element.Element, ancestors []ancestor, depth, maxDepth int, siblingIndex *int, visited map[uintptr]bool, visit visitFunc) bool {
	if node == nil {
		return true
	}

	handle := node.Handle()
	if handle != nil {
		id := handle.Identity()
		if visited[id] {
			return true
		}
		visited[id] = true
	}

	role := element.NormalizeRole(node.Role())
	if role == "" {
		// Required attribute unreadable: this node is skipped entirely,
		// subtree included — a malformed node's children are assumed
		// equally unreadable.
		return true
	}

	path := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		path = append(path, a.Element.Role)
	}
	path = append(path, role)

	parentRole := ""
	if parentElement != nil {
		parentRole = parentElement.Role
	}

	e := element.Element{
		Title:                    node.Title(),
		AccessibilityDescription: node.Description(),
		Role:                     role,
		Subrole:                  node.Subrole(),
		Value:                    node.Value(),
		Position:                 node.Bounds().Position,
		Size:                     node.Bounds().Size,
		Path:                     path,
		Depth:                    depth,
		Identifier:               node.Identifier(),
		SiblingIndex:             siblingIndex,
		DOMIdentifier:            node.DOMIdentifier(),
		DOMClassList:             node.DOMClassList(),
		ParentRole:               parentRole,
		Focused:                  node.Focused(),
		Enabled:                  node.Enabled(),
		Actions:                  node.Actions(),
		Handle:                   handle,
	}
	e.Ref = element.EncodeReference(e)

	if !visit(e, ancestors) {
		return false
	}

	if maxDepth > 0 && depth >= maxDepth {
		return true
	}

	children, err := node.Children()
	if err != nil {
		return true
	}

	childAncestors := append(append([]ancestor{}, ancestors...), ancestor{Element: e, Node: node})
	for i, child := range children {
		idx := i
		if !w.walk(child, &e, childAncestors, depth+1, maxDepth, &idx, visited, visit) {
			return false
		}
	}
	return true
}

// WindowsOf lists the windows owned by app.
func (w *Walker) WindowsOf(app string) ([]element.Window, error) {
	return w.Workspace.ListWindows(platform.ListOptions{App: app})
}

// ApplicationElement returns one root platform.Node per window owned by
// the named application, or ok=false if the application is not running.
func (w *Walker) ApplicationElement(name string) (roots []platform.Node, ok bool, err error) {
	windows, err := w.WindowsOf(name)
	if err != nil {
		return nil, false, err
	}
	if len(windows) == 0 {
		return nil, false, nil
	}
	for _, win := range windows {
		nodes, err := w.Accessibility.RootNodes(platform.Scope{App: name, WindowID: win.ID})
		if err != nil || len(nodes) == 0 {
			continue
		}
		roots = append(roots, nodes...)
	}
	return roots, len(roots) > 0, nil
}

// AllApplicationElements returns one root platform.Node per window across
// every running application with a regular activation policy.
func (w *Walker) AllApplicationElements() ([]platform.Node, error) {
	apps, err := w.Workspace.ListApplications()
	if err != nil {
		return nil, err
	}
	var all []platform.Node
	for _, app := range apps {
		if !app.RegularActivationPolicy {
			continue
		}
		roots, ok, err := w.ApplicationElement(app.Name)
		if err != nil || !ok {
			continue
		}
		all = append(all, roots...)
	}
	return all, nil
}

// ElementAtPosition performs the system-wide hit test and materializes the
// single element found there, if any.
func (w *Walker) ElementAtPosition(x, y float64) (*element.Element, error) {
	node, err := w.Accessibility.ElementAtPosition(element.Point{X: x, Y: y})
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	return w.materializeSingle(node), nil
}

// FocusedElement materializes the element currently holding keyboard
// focus, if any.
func (w *Walker) FocusedElement() (*element.Element, error) {
	node, err := w.Accessibility.FocusedElement()
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	return w.materializeSingle(node), nil
}

// materializeSingle builds an Element for a node reached outside of a
// traversal (hit test, focused element): depth 0, a one-element path, no
// sibling index or parent role.
func (w *Walker) materializeSingle(node platform.Node) *element.Element {
	role := element.NormalizeRole(node.Role())
	if role == "" {
		return nil
	}
	e := element.Element{
		Title:                    node.Title(),
		AccessibilityDescription: node.Description(),
		Role:                     role,
		Subrole:                  node.Subrole(),
		Value:                    node.Value(),
		Position:                 node.Bounds().Position,
		Size:                     node.Bounds().Size,
		Path:                     []string{role},
		Depth:                    0,
		Identifier:               node.Identifier(),
		DOMIdentifier:            node.DOMIdentifier(),
		DOMClassList:             node.DOMClassList(),
		Focused:                  node.Focused(),
		Enabled:                  node.Enabled(),
		Actions:                  node.Actions(),
		Handle:                   node.Handle(),
	}
	e.Ref = element.EncodeReference(e)
	return &e
}
