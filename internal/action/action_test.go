package action

import (
	"math/rand"
	"testing"
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/engine"
	"github.com/deskauto/deskauto/internal/platform"
)

// testRig bundles an Actions built entirely from fakes plus handles to each
// fake so tests can assert on what was posted.
type testRig struct {
	Actions *Actions
	Input   *fakeInput
	Access  *fakeAccessibility
	Windows *fakeWindowManager
}

func newTestRig(root *fakeNode) *testRig {
	access := &fakeAccessibility{
		roots:    map[string][]platform.Node{"Safari": {root}},
		byHandle: map[uintptr]*fakeNode{},
	}
	indexByHandle(root, access.byHandle)
	workspace := &fakeWorkspace{
		windows: map[string][]element.Window{"Safari": {{App: "Safari", ID: 1, Bounds: element.Rect{Size: element.Size{Width: 800, Height: 600}}}}},
		apps:    []element.Application{{Name: "Safari", RegularActivationPolicy: true}},
	}
	walker := engine.NewWalker(access, workspace)
	searcher := engine.NewSearcher(walker, nil)
	input := &fakeInput{}
	windows := &fakeWindowManager{}

	actions := &Actions{
		Walker:        walker,
		Searcher:      searcher,
		Scroller:      engine.NewScrollService(walker, searcher, access, input),
		Accessibility: access,
		Workspace:     workspace,
		Input:         input,
		WindowManager: windows,
		Sleep:         func(time.Duration) {},
		Now:           time.Now,
		Rand:          rand.New(rand.NewSource(1)),
	}
	return &testRig{Actions: actions, Input: input, Access: access, Windows: windows}
}

func indexByHandle(n *fakeNode, out map[uintptr]*fakeNode) {
	out[n.id] = n
	for _, c := range n.children {
		indexByHandle(c, out)
	}
}

func TestResolve_ByIdentifierTierFindsTheElement(t *testing.T) {
	root := &fakeNode{
		id: 1, role: "AXWindow",
		children: []*fakeNode{
			{id: 2, role: "AXButton", title: "Submit", ident: "submit-btn", bounds: element.Rect{Size: element.Size{Width: 80, Height: 24}}, actions: []string{"AXPress"}},
		},
	}
	rig := newTestRig(root)

	got, err := rig.Actions.Resolve("@id:submit-btn", "Safari")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Submit" {
		t.Errorf("expected to resolve the Submit button, got %+v", got)
	}
}

func TestResolve_NotFoundReturnsNotFoundError(t *testing.T) {
	root := &fakeNode{id: 1, role: "AXWindow"}
	rig := newTestRig(root)

	_, err := rig.Actions.Resolve("@id:missing", "Safari")
	if _, ok := err.(*element.NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %v (%T)", err, err)
	}
}

func TestPerformNamedAction_InvokesAccessibilityPerformAction(t *testing.T) {
	root := &fakeNode{id: 1, role: "AXWindow"}
	rig := newTestRig(root)
	target := element.Element{Handle: fakeHandle{id: 2}}

	if err := rig.Actions.PerformNamedAction(target, "AXPress", PerformOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rig.Access.performCalls) != 1 || rig.Access.performCalls[0] != "AXPress" {
		t.Errorf("expected AXPress to be performed once, got %v", rig.Access.performCalls)
	}
}

func TestPerformNamedAction_NoHandleFails(t *testing.T) {
	root := &fakeNode{id: 1, role: "AXWindow"}
	rig := newTestRig(root)
	target := element.Element{}

	err := rig.Actions.PerformNamedAction(target, "AXPress", PerformOptions{})
	if _, ok := err.(*element.ActionFailedError); !ok {
		t.Fatalf("expected ActionFailedError, got %v (%T)", err, err)
	}
}

func TestSetValue_WritesTheMappedAttribute(t *testing.T) {
	root := &fakeNode{id: 1, role: "AXWindow"}
	rig := newTestRig(root)
	target := element.Element{Handle: fakeHandle{id: 2}}

	if err := rig.Actions.SetValue(target, "on", SetValueOptions{Attribute: "selected"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rig.Access.setAttrCalls) != 1 || rig.Access.setAttrCalls[0].attribute != "AXSelected" {
		t.Errorf("expected AXSelected to be written, got %v", rig.Access.setAttrCalls)
	}
}

func TestRead_PrefersValueOverTitleOverDescription(t *testing.T) {
	root := &fakeNode{id: 1, role: "AXWindow"}
	rig := newTestRig(root)

	got, err := rig.Actions.Read(element.Element{Value: "42", Title: "Count", AccessibilityDescription: "a counter"}, ReadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "42" {
		t.Errorf("expected the value to win, got %q", got)
	}
}

func TestRead_FallsBackToTitleWhenNoValue(t *testing.T) {
	root := &fakeNode{id: 1, role: "AXWindow"}
	rig := newTestRig(root)

	got, err := rig.Actions.Read(element.Element{Title: "Count"}, ReadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Count" {
		t.Errorf("expected the title fallback, got %q", got)
	}
}
