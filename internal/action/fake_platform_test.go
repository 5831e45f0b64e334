package action

import (
	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

// fakeHandle is a trivial platform.Handle whose identity is its own value.
type fakeHandle struct{ id uintptr }

func (h fakeHandle) Identity() uintptr { return h.id }

// fakeNode is an in-memory platform.Node, mirroring the engine package's
// test double, used here to drive Resolve/refresh through a real Searcher
// without cgo.
type fakeNode struct {
	id       uintptr
	role     string
	title    string
	value    string
	bounds   element.Rect
	ident    string
	actions  []string
	children []*fakeNode
}

func (n *fakeNode) Handle() element.Handle    { return fakeHandle{id: n.id} }
func (n *fakeNode) Role() string              { return n.role }
func (n *fakeNode) Subrole() string           { return "" }
func (n *fakeNode) Title() string             { return n.title }
func (n *fakeNode) Description() string       { return "" }
func (n *fakeNode) Value() string             { return n.value }
func (n *fakeNode) Bounds() element.Rect      { return n.bounds }
func (n *fakeNode) Identifier() string        { return n.ident }
func (n *fakeNode) DOMIdentifier() string     { return "" }
func (n *fakeNode) DOMClassList() []string    { return nil }
func (n *fakeNode) Focused() bool             { return false }
func (n *fakeNode) Enabled() *bool            { return nil }
func (n *fakeNode) Actions() []string         { return n.actions }
func (n *fakeNode) Children() ([]platform.Node, error) {
	out := make([]platform.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out, nil
}

// fakeAccessibility serves fixed root nodes and lets tests script
// SetAttribute's effect on the underlying fakeNode, so a readback re-query
// through a real Searcher observes the write.
type fakeAccessibility struct {
	roots        map[string][]platform.Node
	byHandle     map[uintptr]*fakeNode
	setAttrErr   error
	setAttrCalls []setAttrCall
	performCalls []string
}

type setAttrCall struct {
	attribute, value string
}

func (a *fakeAccessibility) RootNodes(scope platform.Scope) ([]platform.Node, error) {
	return a.roots[scope.App], nil
}

func (a *fakeAccessibility) PerformAction(handle element.Handle, action string) error {
	a.performCalls = append(a.performCalls, action)
	return nil
}

func (a *fakeAccessibility) SetAttribute(handle element.Handle, attribute, value string) error {
	a.setAttrCalls = append(a.setAttrCalls, setAttrCall{attribute: attribute, value: value})
	if a.setAttrErr != nil {
		return a.setAttrErr
	}
	if fh, ok := handle.(fakeHandle); ok {
		if node, ok := a.byHandle[fh.id]; ok && attribute == "AXValue" {
			node.value = value
		}
	}
	return nil
}

func (a *fakeAccessibility) ElementAtPosition(at element.Point) (platform.Node, error) {
	return nil, nil
}
func (a *fakeAccessibility) FocusedElement() (platform.Node, error) { return nil, nil }

// fakeWorkspace answers ListWindows/ListApplications from a fixed fixture.
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

// fakeInput records every dispatched event so tests can assert on the
// exact sequence Click/Type/Drag/ScrollHere post.
type fakeInput struct {
	moves       []element.Point
	mouseDowns  []mouseCall
	mouseUps    []mouseCall
	clicks      []clickCall
	drags       []dragCall
	dragEvents  []mouseCall
	scrolls     []scrollCall
	keyDowns    []keyCall
	keyUps      []keyCall
	typedText   []string
	keyCombos   [][]string
}

type mouseCall struct {
	at     element.Point
	button platform.MouseButton
}
type clickCall struct {
	at     element.Point
	button platform.MouseButton
	count  int
}
type dragCall struct{ from, to element.Point }
type scrollCall struct {
	at     element.Point
	dx, dy float64
}
type keyCall struct {
	code uint16
	mods platform.ModifierSet
}

func (f *fakeInput) MoveMouse(to element.Point) error { f.moves = append(f.moves, to); return nil }
func (f *fakeInput) Click(at element.Point, button platform.MouseButton, count int) error {
	f.clicks = append(f.clicks, clickCall{at: at, button: button, count: count})
	return nil
}
func (f *fakeInput) MouseDown(at element.Point, button platform.MouseButton) error {
	f.mouseDowns = append(f.mouseDowns, mouseCall{at: at, button: button})
	return nil
}
func (f *fakeInput) MouseUp(at element.Point, button platform.MouseButton) error {
	f.mouseUps = append(f.mouseUps, mouseCall{at: at, button: button})
	return nil
}
func (f *fakeInput) Drag(from, to element.Point, button platform.MouseButton) error {
	f.drags = append(f.drags, dragCall{from: from, to: to})
	return nil
}
func (f *fakeInput) PostDragEvent(at element.Point, button platform.MouseButton) error {
	f.dragEvents = append(f.dragEvents, mouseCall{at: at, button: button})
	return nil
}
func (f *fakeInput) Scroll(at element.Point, dx, dy float64) error {
	f.scrolls = append(f.scrolls, scrollCall{at: at, dx: dx, dy: dy})
	return nil
}
func (f *fakeInput) KeyDown(keyCode uint16, mods platform.ModifierSet) error {
	f.keyDowns = append(f.keyDowns, keyCall{code: keyCode, mods: mods})
	return nil
}
func (f *fakeInput) KeyUp(keyCode uint16, mods platform.ModifierSet) error {
	f.keyUps = append(f.keyUps, keyCall{code: keyCode, mods: mods})
	return nil
}
func (f *fakeInput) TypeText(text string, delayMs int) error {
	f.typedText = append(f.typedText, text)
	return nil
}
func (f *fakeInput) KeyCombo(keys []string) error {
	f.keyCombos = append(f.keyCombos, keys)
	return nil
}

// fakeClipboard is a platform.ClipboardManager backed by an in-memory
// string, letting tests assert on the paste channel's snapshot/restore
// sequence without touching the real system pasteboard.
type fakeClipboard struct {
	text     string
	setCalls []string
	getErr   error
}

func (c *fakeClipboard) GetText() (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.text, nil
}
func (c *fakeClipboard) SetText(text string) error {
	c.text = text
	c.setCalls = append(c.setCalls, text)
	return nil
}
func (c *fakeClipboard) Clear() error {
	c.text = ""
	c.setCalls = append(c.setCalls, "")
	return nil
}

// fakeWindowManager records FocusWindow calls; GetFrontmostApp is unused by
// the action layer's own tests.
type fakeWindowManager struct {
	focusCalls []platform.FocusOptions
	focusErr   error
}

func (w *fakeWindowManager) FocusWindow(opts platform.FocusOptions) error {
	w.focusCalls = append(w.focusCalls, opts)
	return w.focusErr
}
func (w *fakeWindowManager) GetFrontmostApp() (string, int, error) { return "", 0, nil }
