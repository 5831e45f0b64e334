package engine

import (
	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

// fakeHandle is a trivial platform.Handle whose identity is its own address,
// distinguishing every fakeNode without needing a real OS reference.
type fakeHandle struct{ id uintptr }

func (h fakeHandle) Identity() uintptr { return h.id }

// fakeNode is an in-memory platform.Node used to drive the walker, matcher,
// and annotator without cgo or an accessibility permission grant.
type fakeNode struct {
	id       uintptr
	role     string
	title    string
	desc     string
	value    string
	bounds   element.Rect
	ident    string
	focused  bool
	enabled  *bool
	actions  []string
	children []*fakeNode
}

func (n *fakeNode) Handle() element.Handle    { return fakeHandle{id: n.id} }
func (n *fakeNode) Role() string              { return n.role }
func (n *fakeNode) Subrole() string           { return "" }
func (n *fakeNode) Title() string             { return n.title }
func (n *fakeNode) Description() string       { return n.desc }
func (n *fakeNode) Value() string             { return n.value }
func (n *fakeNode) Bounds() element.Rect      { return n.bounds }
func (n *fakeNode) Identifier() string        { return n.ident }
func (n *fakeNode) DOMIdentifier() string     { return "" }
func (n *fakeNode) DOMClassList() []string    { return nil }
func (n *fakeNode) Focused() bool             { return n.focused }
func (n *fakeNode) Enabled() *bool            { return n.enabled }
func (n *fakeNode) Actions() []string         { return n.actions }
func (n *fakeNode) Children() ([]platform.Node, error) {
	out := make([]platform.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out, nil
}

// fakeAccessibility serves fixed root nodes per Scope.App, ignoring every
// other field, and is not wired for actions/hit-testing in tests that don't
// need them.
type fakeAccessibility struct {
	roots map[string][]platform.Node
}

func (a *fakeAccessibility) RootNodes(scope platform.Scope) ([]platform.Node, error) {
	return a.roots[scope.App], nil
}
func (a *fakeAccessibility) PerformAction(handle element.Handle, action string) error { return nil }
func (a *fakeAccessibility) SetAttribute(handle element.Handle, attribute, value string) error {
	return nil
}
func (a *fakeAccessibility) ElementAtPosition(at element.Point) (platform.Node, error) {
	return nil, nil
}
func (a *fakeAccessibility) FocusedElement() (platform.Node, error) { return nil, nil }

// fakeWorkspace answers ListWindows/ListApplications from a fixed fixture so
// AllApplicationElements and ApplicationElement can resolve app names to
// fakeAccessibility roots without cgo.
type fakeWorkspace struct {
	windows map[string][]element.Window
	apps    []element.Application
}

func (w *fakeWorkspace) ListWindows(opts platform.ListOptions) ([]element.Window, error) {
	return w.windows[opts.App], nil
}
func (w *fakeWorkspace) ListApplications() ([]element.Application, error) { return w.apps, nil }
func (w *fakeWorkspace) FrontmostApplication() (element.Application, error) {
	return element.Application{}, nil
}

func boolPtr(b bool) *bool { return &b }
