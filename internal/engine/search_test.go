package engine

import (
	"testing"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

func newTestSearcher(root *fakeNode) *Searcher {
	walker := NewWalker(
		&fakeAccessibility{roots: map[string][]platform.Node{"Safari": {root}}},
		&fakeWorkspace{
			windows: map[string][]element.Window{"Safari": {{App: "Safari", ID: 1}}},
			apps:    []element.Application{{Name: "Safari", RegularActivationPolicy: true}},
		},
	)
	return NewSearcher(walker, nil)
}

func TestSearcher_Find_MatchesByText(t *testing.T) {
	s := newTestSearcher(buildToolbarFixture())
	result, err := s.Find(element.ElementQuery{Application: "Safari", Text: "back"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Elements) != 1 || result.Elements[0].Title != "Back" {
		t.Errorf("expected exactly the Back button, got %+v", result.Elements)
	}
}

func TestSearcher_Find_RespectsLimit(t *testing.T) {
	root := &fakeNode{
		id: 1, role: "AXWindow",
		children: []*fakeNode{
			{id: 2, role: "AXButton", title: "One", actions: []string{"AXPress"}},
			{id: 3, role: "AXButton", title: "Two", actions: []string{"AXPress"}},
			{id: 4, role: "AXButton", title: "Three", actions: []string{"AXPress"}},
		},
	}
	s := newTestSearcher(root)
	result, err := s.Find(element.ElementQuery{Application: "Safari", Role: "button", Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Elements) != 2 {
		t.Errorf("expected 2 matches under the limit, got %d", len(result.Elements))
	}
}

func TestSearcher_Find_NoMatchingApp(t *testing.T) {
	s := newTestSearcher(buildToolbarFixture())
	result, err := s.Find(element.ElementQuery{Application: "NoSuchApp", Text: "anything"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Elements) != 0 {
		t.Errorf("expected no matches for an application that isn't running, got %+v", result.Elements)
	}
}

func TestSearcher_Find_CountsSearchedNodes(t *testing.T) {
	s := newTestSearcher(buildToolbarFixture())
	result, err := s.Find(element.ElementQuery{Application: "Safari", Role: "button"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SearchedCount != 4 {
		t.Errorf("expected all 4 fixture nodes to be searched, got %d", result.SearchedCount)
	}
}

// buildAmbiguousDialogsFixture models two sibling containers each holding a
// "Submit" button, with the second container's button focused — the case
// narrowByFocusProximity exists to disambiguate. The containers use distinct
// roles (AXGroup vs. AXSheet) so their role-paths actually diverge; two
// containers sharing one role would produce identical paths and defeat the
// path-prefix comparison entirely.
func buildAmbiguousDialogsFixture() *fakeNode {
	return &fakeNode{
		id: 1, role: "AXWindow",
		children: []*fakeNode{
			{
				id: 2, role: "AXGroup",
				children: []*fakeNode{
					{id: 3, role: "AXButton", title: "Submit", actions: []string{"AXPress"}},
				},
			},
			{
				id: 4, role: "AXSheet",
				children: []*fakeNode{
					{id: 5, role: "AXButton", title: "Submit", focused: true, actions: []string{"AXPress"}},
				},
			},
		},
	}
}

func TestSearcher_Find_DisambiguateByFocus_NarrowsToFocusedSubtree(t *testing.T) {
	s := newTestSearcher(buildAmbiguousDialogsFixture())
	result, err := s.Find(element.ElementQuery{
		Application:         "Safari",
		Text:                "Submit",
		Limit:               1,
		DisambiguateByFocus: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Elements) != 1 {
		t.Fatalf("expected disambiguation to narrow to exactly one match, got %d", len(result.Elements))
	}
	if !result.Elements[0].Focused {
		t.Errorf("expected the focused Submit button to win, got %+v", result.Elements[0])
	}
}

func TestSearcher_Find_DisambiguateByFocus_NoOpWithoutFocusedElement(t *testing.T) {
	root := &fakeNode{
		id: 1, role: "AXWindow",
		children: []*fakeNode{
			{id: 2, role: "AXButton", title: "Submit", actions: []string{"AXPress"}},
			{id: 3, role: "AXButton", title: "Submit", actions: []string{"AXPress"}},
		},
	}
	s := newTestSearcher(root)
	result, err := s.Find(element.ElementQuery{Application: "Safari", Text: "Submit", DisambiguateByFocus: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Elements) != 2 {
		t.Errorf("expected no narrowing without a focused element, got %d matches", len(result.Elements))
	}
}

// buildCalculatorFixture models one static display and one button both
// showing "3" — the classic case preferInteractiveElements exists for.
func buildCalculatorFixture() *fakeNode {
	return &fakeNode{
		id: 1, role: "AXWindow",
		children: []*fakeNode{
			{id: 2, role: "AXStaticText", title: "3"},
			{id: 3, role: "AXButton", title: "3", actions: []string{"AXPress"}},
		},
	}
}

func TestSearcher_Find_DisambiguateByInteractivity_PrefersButton(t *testing.T) {
	s := newTestSearcher(buildCalculatorFixture())
	result, err := s.Find(element.ElementQuery{
		Application:                 "Safari",
		Text:                        "3",
		Limit:                       1,
		DisambiguateByInteractivity: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Elements) != 1 || result.Elements[0].Role != "AXButton" {
		t.Errorf("expected the interactive button to win, got %+v", result.Elements)
	}
}

func TestSearcher_Find_DisambiguateByInteractivity_NoOpWhenAllStatic(t *testing.T) {
	root := &fakeNode{
		id: 1, role: "AXWindow",
		children: []*fakeNode{
			{id: 2, role: "AXStaticText", title: "3"},
			{id: 3, role: "AXStaticText", title: "3"},
		},
	}
	s := newTestSearcher(root)
	result, err := s.Find(element.ElementQuery{Application: "Safari", Text: "3", DisambiguateByInteractivity: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Elements) != 2 {
		t.Errorf("expected no narrowing when every match is static, got %d matches", len(result.Elements))
	}
}

func TestSearcher_Find_WithoutDisambiguation_StopsAtFirstMatch(t *testing.T) {
	s := newTestSearcher(buildCalculatorFixture())
	result, err := s.Find(element.ElementQuery{Application: "Safari", Text: "3", Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Elements) != 1 {
		t.Fatalf("expected exactly one match under limit=1, got %d", len(result.Elements))
	}
	if result.Elements[0].Role != "AXStaticText" {
		t.Errorf("expected the plain matching order to return the first match (the static text), got %+v", result.Elements[0])
	}
}

func TestCommonPrefixLen(t *testing.T) {
	tests := []struct {
		a, b []string
		want int
	}{
		{[]string{"AXWindow", "AXGroup", "AXButton"}, []string{"AXWindow", "AXGroup", "AXButton"}, 3},
		{[]string{"AXWindow", "AXGroup"}, []string{"AXWindow", "AXOther"}, 1},
		{[]string{"AXWindow"}, []string{"AXDialog"}, 0},
		{nil, []string{"AXWindow"}, 0},
	}
	for _, tt := range tests {
		if got := commonPrefixLen(tt.a, tt.b); got != tt.want {
			t.Errorf("commonPrefixLen(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPreferInteractiveElements_MixedReturnsInteractiveOnly(t *testing.T) {
	matches := []element.Element{
		{Role: "AXStaticText", Title: "3"},
		{Role: "AXButton", Title: "3"},
	}
	got := preferInteractiveElements(matches)
	if len(got) != 1 || got[0].Role != "AXButton" {
		t.Errorf("expected only the button to survive, got %+v", got)
	}
}

func TestPreferInteractiveElements_AllStaticReturnsUnchanged(t *testing.T) {
	matches := []element.Element{
		{Role: "AXStaticText", Title: "3"},
		{Role: "AXImage", Title: "3"},
	}
	got := preferInteractiveElements(matches)
	if len(got) != 2 {
		t.Errorf("expected both static matches to survive unchanged, got %+v", got)
	}
}
