package engine

import (
	"testing"
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

// fakeScrollInput records every Scroll call and, when target is set, mutates
// target's position to simulate the requested scroll actually moving the
// underlying content — letting a real Searcher re-query see progress
// without a live window server.
type fakeScrollInput struct {
	scrollCalls []scrollCall
	target      *fakeNode
	onScroll    func()
}

type scrollCall struct {
	at     element.Point
	dx, dy float64
}

func (f *fakeScrollInput) Scroll(at element.Point, dx, dy float64) error {
	f.scrollCalls = append(f.scrollCalls, scrollCall{at: at, dx: dx, dy: dy})
	if f.target != nil {
		f.target.bounds.Position.Y += dy
		f.target.bounds.Position.X += dx
	}
	if f.onScroll != nil {
		f.onScroll()
	}
	return nil
}
func (f *fakeScrollInput) MoveMouse(to element.Point) error { return nil }
func (f *fakeScrollInput) Click(at element.Point, b platform.MouseButton, n int) error {
	return nil
}
func (f *fakeScrollInput) MouseDown(at element.Point, b platform.MouseButton) error { return nil }
func (f *fakeScrollInput) MouseUp(at element.Point, b platform.MouseButton) error   { return nil }
func (f *fakeScrollInput) Drag(from, to element.Point, b platform.MouseButton) error {
	return nil
}
func (f *fakeScrollInput) PostDragEvent(at element.Point, b platform.MouseButton) error {
	return nil
}
func (f *fakeScrollInput) KeyDown(keyCode uint16, mods platform.ModifierSet) error { return nil }
func (f *fakeScrollInput) KeyUp(keyCode uint16, mods platform.ModifierSet) error   { return nil }
func (f *fakeScrollInput) TypeText(text string, delayMs int) error                { return nil }
func (f *fakeScrollInput) KeyCombo(keys []string) error                           { return nil }

// fakeScrollAccessibility scripts a single PerformAction outcome for the
// native AXScrollToVisible path.
type fakeScrollAccessibility struct {
	performActionErr error
	performedActions []string
}

func (a *fakeScrollAccessibility) RootNodes(scope platform.Scope) ([]platform.Node, error) {
	return nil, nil
}
func (a *fakeScrollAccessibility) PerformAction(handle element.Handle, action string) error {
	a.performedActions = append(a.performedActions, action)
	return a.performActionErr
}
func (a *fakeScrollAccessibility) SetAttribute(handle element.Handle, attribute, value string) error {
	return nil
}
func (a *fakeScrollAccessibility) ElementAtPosition(at element.Point) (platform.Node, error) {
	return nil, nil
}
func (a *fakeScrollAccessibility) FocusedElement() (platform.Node, error) { return nil, nil }

func newScrollTestSearcher(root *fakeNode) *Searcher {
	walker := NewWalker(
		&fakeAccessibility{roots: map[string][]platform.Node{"Safari": {root}}},
		&fakeWorkspace{
			windows: map[string][]element.Window{"Safari": {{App: "Safari", ID: 1}}},
			apps:    []element.Application{{Name: "Safari", RegularActivationPolicy: true}},
		},
	)
	return NewSearcher(walker, nil)
}

// buildDeepLinkFixture models a scroll area containing one link starting at
// startY, used to exercise the synthetic scroll loop against a real Walker
// and Annotator.
func buildDeepLinkFixture(startY float64) (*fakeNode, *fakeNode) {
	target := &fakeNode{
		id: 3, role: "AXLink", title: "Deep Link",
		bounds: rect(100, startY, 100, 20),
	}
	scrollArea := &fakeNode{
		id: 2, role: "AXScrollArea",
		bounds:   rect(0, 0, 800, 500),
		children: []*fakeNode{target},
	}
	root := &fakeNode{id: 1, role: "AXWindow", bounds: rect(0, 0, 800, 600), children: []*fakeNode{scrollArea}}
	return root, target
}

func TestScrollIntoView_AlreadyVisibleShortCircuits(t *testing.T) {
	target := element.Element{
		Position:   element.Point{X: 10, Y: 10},
		Size:       element.Size{Width: 20, Height: 20},
		Visibility: &element.Visibility{InViewport: true, Reason: element.ReasonFullyVisible, PercentVisible: 1},
	}
	svc := NewScrollService(nil, nil, &fakeScrollAccessibility{}, &fakeScrollInput{})
	svc.Sleep = func(time.Duration) {}

	result, err := svc.ScrollIntoView(target, "Safari")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.Method != element.ScrollMethodNone {
		t.Errorf("expected an immediate success via ScrollMethodNone, got %+v", result)
	}
}

func TestScrollIntoView_NativeActionSucceeds(t *testing.T) {
	root, targetNode := buildDeepLinkFixture(230) // already within the 0-500 viewport
	targetNode.actions = []string{"AXScrollToVisible"}
	searcher := newScrollTestSearcher(root)
	access := &fakeScrollAccessibility{}
	svc := NewScrollService(searcher.Walker, searcher, access, &fakeScrollInput{})
	svc.Sleep = func(time.Duration) {}

	target := element.Element{
		Title:      "Deep Link",
		Role:       "AXLink",
		Position:   element.Point{X: 100, Y: 900}, // stale position; a real re-query supersedes it
		Size:       element.Size{Width: 100, Height: 20},
		Actions:    []string{"AXScrollToVisible"},
		Visibility: &element.Visibility{Reason: element.ReasonBelowViewport},
	}

	result, err := svc.ScrollIntoView(target, "Safari")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.Method != element.ScrollMethodNative {
		t.Errorf("expected success via ScrollMethodNative, got %+v", result)
	}
	if len(access.performedActions) != 1 || access.performedActions[0] != "AXScrollToVisible" {
		t.Errorf("expected AXScrollToVisible to be performed, got %v", access.performedActions)
	}
}

// TestScrollIntoView_SyntheticScrollBringsOffscreenElementIntoView is the
// off-screen click + auto-scroll end-to-end scenario: a link parked far
// below its scroll container's viewport should converge within a handful
// of synthetic scroll iterations, and the accumulated ScrolledBy.Y should
// land at the true distance scrolled, ~1900px.
func TestScrollIntoView_SyntheticScrollBringsOffscreenElementIntoView(t *testing.T) {
	const startY = 2140.0 // chosen so the capped-step descent totals exactly 1900px
	root, targetNode := buildDeepLinkFixture(startY)
	searcher := newScrollTestSearcher(root)
	input := &fakeScrollInput{target: targetNode}
	svc := NewScrollService(searcher.Walker, searcher, &fakeScrollAccessibility{}, input)
	svc.Sleep = func(time.Duration) {}

	result, err := searcher.Find(element.ElementQuery{Application: "Safari", Text: "Deep Link", Limit: 1})
	if err != nil || len(result.Elements) != 1 {
		t.Fatalf("fixture setup: expected exactly one match, got %+v, err=%v", result, err)
	}
	start := result.Elements[0]
	if start.Visibility == nil || start.Visibility.Reason == element.ReasonFullyVisible {
		t.Fatalf("fixture setup: expected the link to start off-screen, got %+v", start.Visibility)
	}

	scrollResult, err := svc.ScrollIntoView(start, "Safari")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !scrollResult.Success {
		t.Fatalf("expected the synthetic scroll loop to converge, got %+v", scrollResult)
	}
	if scrollResult.Method != element.ScrollMethodSynthetic {
		t.Errorf("expected ScrollMethodSynthetic, got %v", scrollResult.Method)
	}
	if want := 1900.0; absf(scrollResult.ScrolledBy.Y-want) > 0.001 {
		t.Errorf("expected ScrolledBy.Y == %v, got %v", want, scrollResult.ScrolledBy.Y)
	}
	if scrollResult.Attempts != 5 {
		t.Errorf("expected exactly 5 scroll attempts, got %d", scrollResult.Attempts)
	}
	if len(input.scrollCalls) != 5 {
		t.Errorf("expected exactly 5 posted scroll events, got %d", len(input.scrollCalls))
	}
}

func TestScrollIntoView_NoScrollContainerErrors(t *testing.T) {
	target := element.Element{
		Position:   element.Point{X: 10, Y: 900},
		Size:       element.Size{Width: 20, Height: 20},
		Visibility: &element.Visibility{Reason: element.ReasonBelowViewport},
	}
	svc := NewScrollService(nil, nil, &fakeScrollAccessibility{}, &fakeScrollInput{})
	svc.Sleep = func(time.Duration) {}

	_, err := svc.ScrollIntoView(target, "Safari")
	if _, ok := err.(*element.NoScrollContainerError); !ok {
		t.Fatalf("expected NoScrollContainerError, got %v (%T)", err, err)
	}
}

func TestScrollIntoView_NoMeaningfulProgressWhenDeltaBelowThreshold(t *testing.T) {
	target := element.Element{
		Position: element.Point{X: 10, Y: 260},
		Size:     element.Size{Width: 20, Height: 20},
		ScrollContainer: &element.ScrollContainer{
			Role:          "AXScrollArea",
			VisibleFrame:  rect(0, 0, 800, 500),
			CanScrollDown: true,
		},
		Visibility: &element.Visibility{
			Reason:         element.ReasonPartiallyVisible,
			RequiresScroll: &element.RequiresScroll{Direction: element.ScrollDown, EstimatedPixels: 1},
		},
	}
	svc := NewScrollService(nil, nil, &fakeScrollAccessibility{}, &fakeScrollInput{})
	svc.Sleep = func(time.Duration) {}

	_, err := svc.ScrollIntoView(target, "Safari")
	if _, ok := err.(*element.NoMeaningfulProgressError); !ok {
		t.Fatalf("expected NoMeaningfulProgressError, got %v (%T)", err, err)
	}
}

func TestScrollIntoView_HardTimeoutStopsTheLoop(t *testing.T) {
	target := element.Element{
		Position: element.Point{X: 10, Y: 900},
		Size:     element.Size{Width: 20, Height: 20},
		ScrollContainer: &element.ScrollContainer{
			Role:          "AXScrollArea",
			VisibleFrame:  rect(0, 0, 800, 500),
			CanScrollDown: true,
		},
		Visibility: &element.Visibility{
			Reason:         element.ReasonBelowViewport,
			RequiresScroll: &element.RequiresScroll{Direction: element.ScrollDown, EstimatedPixels: 900},
		},
	}
	svc := NewScrollService(nil, nil, &fakeScrollAccessibility{}, &fakeScrollInput{})
	svc.Sleep = func(time.Duration) {}

	base := time.Unix(0, 0)
	calls := 0
	svc.Now = func() time.Time {
		calls++
		if calls == 1 {
			return base // deadline = base + scrollHardTimeout
		}
		return base.Add(scrollHardTimeout + time.Second) // every subsequent call is already past it
	}

	_, err := svc.ScrollIntoView(target, "Safari")
	if _, ok := err.(*element.HardTimeoutError); !ok {
		t.Fatalf("expected HardTimeoutError, got %v (%T)", err, err)
	}
}

// TestScrollIntoView_MaxAttemptsExceededWhenNeverConverging models a link
// so far below its container that eight capped scroll steps still can't
// close the gap within the attempt budget.
func TestScrollIntoView_MaxAttemptsExceededWhenNeverConverging(t *testing.T) {
	root, targetNode := buildDeepLinkFixture(50000)
	searcher := newScrollTestSearcher(root)
	input := &fakeScrollInput{target: targetNode}
	svc := NewScrollService(searcher.Walker, searcher, &fakeScrollAccessibility{}, input)
	svc.Sleep = func(time.Duration) {}

	result, err := searcher.Find(element.ElementQuery{Application: "Safari", Text: "Deep Link", Limit: 1})
	if err != nil || len(result.Elements) != 1 {
		t.Fatalf("fixture setup failed: %+v, err=%v", result, err)
	}

	_, err = svc.ScrollIntoView(result.Elements[0], "Safari")
	if _, ok := err.(*element.MaxScrollAttemptsExceededError); !ok {
		t.Fatalf("expected MaxScrollAttemptsExceededError, got %v (%T)", err, err)
	}
	if len(input.scrollCalls) != scrollMaxAttempts {
		t.Errorf("expected exactly %d scroll attempts, got %d", scrollMaxAttempts, len(input.scrollCalls))
	}
}

// TestScrollIntoView_NoProgressWhenElementDisappears removes the target
// from the tree after the first scroll, simulating a web view that
// reorders or drops focusable children on scroll.
func TestScrollIntoView_NoProgressWhenElementDisappears(t *testing.T) {
	root, targetNode := buildDeepLinkFixture(2140)
	scrollArea := root.children[0]
	input := &fakeScrollInput{target: targetNode}
	input.onScroll = func() {
		scrollArea.children = nil
	}
	searcher := newScrollTestSearcher(root)
	svc := NewScrollService(searcher.Walker, searcher, &fakeScrollAccessibility{}, input)
	svc.Sleep = func(time.Duration) {}

	result, err := searcher.Find(element.ElementQuery{Application: "Safari", Text: "Deep Link", Limit: 1})
	if err != nil || len(result.Elements) != 1 {
		t.Fatalf("fixture setup failed: %+v, err=%v", result, err)
	}

	_, err = svc.ScrollIntoView(result.Elements[0], "Safari")
	if _, ok := err.(*element.NoProgressError); !ok {
		t.Fatalf("expected NoProgressError, got %v (%T)", err, err)
	}
}
