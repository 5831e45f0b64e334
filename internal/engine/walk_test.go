package engine

import (
	"testing"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

func buildToolbarFixture() *fakeNode {
	return &fakeNode{
		id: 1, role: "AXWindow", bounds: element.Rect{Size: element.Size{Width: 800, Height: 600}},
		children: []*fakeNode{
			{
				id: 2, role: "AXToolbar", bounds: element.Rect{Position: element.Point{X: 0, Y: 0}, Size: element.Size{Width: 800, Height: 40}},
				children: []*fakeNode{
					{id: 3, role: "AXButton", title: "Back", bounds: element.Rect{Position: element.Point{X: 10, Y: 5}, Size: element.Size{Width: 30, Height: 30}}, actions: []string{"AXPress"}},
					{id: 4, role: "AXTextField", title: "Search", bounds: element.Rect{Position: element.Point{X: 200, Y: 5}, Size: element.Size{Width: 400, Height: 30}}},
				},
			},
		},
	}
}

func TestWalker_Traverse_VisitsEveryNode(t *testing.T) {
	w := NewWalker(nil, nil)
	root := buildToolbarFixture()

	var roles []string
	err := w.Traverse(root, 0, func(e element.Element) bool {
		roles = append(roles, e.Role)
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"AXWindow", "AXToolbar", "AXButton", "AXTextField"}
	if len(roles) != len(want) {
		t.Fatalf("got %v, want %v", roles, want)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Errorf("roles[%d] = %q, want %q", i, roles[i], want[i])
		}
	}
}

func TestWalker_Traverse_PathAndDepth(t *testing.T) {
	w := NewWalker(nil, nil)
	root := buildToolbarFixture()

	var backButton element.Element
	_ = w.Traverse(root, 0, func(e element.Element) bool {
		if e.Title == "Back" {
			backButton = e
		}
		return true
	})

	wantPath := []string{"AXWindow", "AXToolbar", "AXButton"}
	if len(backButton.Path) != len(wantPath) {
		t.Fatalf("Path = %v, want %v", backButton.Path, wantPath)
	}
	for i := range wantPath {
		if backButton.Path[i] != wantPath[i] {
			t.Errorf("Path[%d] = %q, want %q", i, backButton.Path[i], wantPath[i])
		}
	}
	if backButton.Depth != 2 {
		t.Errorf("Depth = %d, want 2", backButton.Depth)
	}
	if backButton.ParentRole != "AXToolbar" {
		t.Errorf("ParentRole = %q, want AXToolbar", backButton.ParentRole)
	}
}

func TestWalker_Traverse_SiblingIndex(t *testing.T) {
	w := NewWalker(nil, nil)
	root := buildToolbarFixture()

	indices := map[string]int{}
	_ = w.Traverse(root, 0, func(e element.Element) bool {
		if e.SiblingIndex != nil {
			indices[e.Title] = *e.SiblingIndex
		}
		return true
	})
	if indices["Back"] != 0 {
		t.Errorf("Back sibling index = %d, want 0", indices["Back"])
	}
	if indices["Search"] != 1 {
		t.Errorf("Search sibling index = %d, want 1", indices["Search"])
	}
}

func TestWalker_Traverse_StopsEarly(t *testing.T) {
	w := NewWalker(nil, nil)
	root := buildToolbarFixture()

	visited := 0
	_ = w.Traverse(root, 0, func(e element.Element) bool {
		visited++
		return e.Role != "AXToolbar"
	})
	if visited != 2 {
		t.Errorf("expected traversal to stop after visiting the toolbar, got %d visits", visited)
	}
}

func TestWalker_Traverse_MaxDepth(t *testing.T) {
	w := NewWalker(nil, nil)
	root := buildToolbarFixture()

	var roles []string
	_ = w.Traverse(root, 1, func(e element.Element) bool {
		roles = append(roles, e.Role)
		return true
	})
	want := []string{"AXWindow", "AXToolbar"}
	if len(roles) != len(want) {
		t.Fatalf("got %v, want %v", roles, want)
	}
}

func TestWalker_Traverse_SkipsUnreadableRole(t *testing.T) {
	w := NewWalker(nil, nil)
	root := &fakeNode{
		id: 1, role: "AXWindow",
		children: []*fakeNode{
			{id: 2, role: "", title: "should be skipped"},
			{id: 3, role: "AXButton", title: "Visible"},
		},
	}
	var titles []string
	_ = w.Traverse(root, 0, func(e element.Element) bool {
		titles = append(titles, e.Title)
		return true
	})
	if len(titles) != 2 || titles[1] != "Visible" {
		t.Errorf("expected the blank-role node's subtree to be skipped, got %v", titles)
	}
}

func TestWalker_Collect_Filters(t *testing.T) {
	w := NewWalker(nil, nil)
	root := buildToolbarFixture()

	buttons, err := w.Collect(root, 0, func(e element.Element) bool { return e.Role == "AXButton" })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buttons) != 1 || buttons[0].Title != "Back" {
		t.Errorf("expected exactly the Back button, got %+v", buttons)
	}
}

func TestWalker_ApplicationElement(t *testing.T) {
	root := buildToolbarFixture()
	w := NewWalker(
		&fakeAccessibility{roots: map[string][]platform.Node{"Safari": {root}}},
		&fakeWorkspace{windows: map[string][]element.Window{"Safari": {{App: "Safari", ID: 1}}}},
	)

	roots, ok, err := w.ApplicationElement("Safari")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || len(roots) != 1 {
		t.Fatalf("expected one root for Safari, got ok=%v roots=%v", ok, roots)
	}
}

func TestWalker_ApplicationElement_NotRunning(t *testing.T) {
	w := NewWalker(&fakeAccessibility{}, &fakeWorkspace{})
	_, ok, err := w.ApplicationElement("NoSuchApp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for an application with no windows")
	}
}

func TestWalker_AllApplicationElements_SkipsBackgroundApps(t *testing.T) {
	root := buildToolbarFixture()
	w := NewWalker(
		&fakeAccessibility{roots: map[string][]platform.Node{"Finder": {root}}},
		&fakeWorkspace{
			windows: map[string][]element.Window{"Finder": {{App: "Finder", ID: 1}}},
			apps: []element.Application{
				{Name: "Finder", RegularActivationPolicy: true},
				{Name: "cfprefsd", RegularActivationPolicy: false},
			},
		},
	)

	all, err := w.AllApplicationElements()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected only Finder's root, got %d roots", len(all))
	}
}
