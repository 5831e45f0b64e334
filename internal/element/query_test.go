package element

import "testing"

func TestElementQuery_Matches_Role(t *testing.T) {
	e := Element{Role: "AXButton", Title: "Submit"}
	if !(ElementQuery{Role: "button"}).Matches(e) {
		t.Error("expected role query to match with short-name normalization")
	}
	if (ElementQuery{Role: "textField"}).Matches(e) {
		t.Error("expected mismatched role to not match")
	}
}

func TestElementQuery_Matches_Text(t *testing.T) {
	e := Element{Title: "Submit Form", Value: "", AccessibilityDescription: ""}
	if !(ElementQuery{Text: "submit"}).Matches(e) {
		t.Error("expected case-insensitive substring match")
	}
	if (ElementQuery{Text: "cancel"}).Matches(e) {
		t.Error("expected no match for absent substring")
	}
}

func TestElementQuery_Matches_TextFuzzy(t *testing.T) {
	e := Element{Title: "Submit Form"}
	if !(ElementQuery{Text: "sbmfrm", FuzzyMatch: true}).Matches(e) {
		t.Error("expected fuzzy subsequence match")
	}
	if (ElementQuery{Text: "zzz", FuzzyMatch: true}).Matches(e) {
		t.Error("expected no fuzzy match for unrelated needle")
	}
}

func TestElementQuery_Matches_Identifier(t *testing.T) {
	e := Element{Identifier: "submit-btn"}
	if !(ElementQuery{Identifier: "submit-btn"}).Matches(e) {
		t.Error("expected identifier match")
	}
	if (ElementQuery{Identifier: "other"}).Matches(e) {
		t.Error("expected identifier mismatch to fail")
	}
}

func TestElementQuery_Matches_SiblingIndex(t *testing.T) {
	idx := 3
	e := Element{SiblingIndex: &idx}
	q := ElementQuery{SiblingIndex: &idx}
	if !q.Matches(e) {
		t.Error("expected matching sibling index to match")
	}
	other := 4
	q2 := ElementQuery{SiblingIndex: &other}
	if q2.Matches(e) {
		t.Error("expected mismatched sibling index to not match")
	}
	if (ElementQuery{SiblingIndex: &idx}).Matches(Element{}) {
		t.Error("expected element with nil sibling index to not match a sibling-index query")
	}
}

func TestElementQuery_Matches_SizeBounds(t *testing.T) {
	e := Element{Size: Size{Width: 100, Height: 40}}
	minW, maxW := 50.0, 200.0
	if !(ElementQuery{MinWidth: &minW, MaxWidth: &maxW}).Matches(e) {
		t.Error("expected width within [min, max) to match")
	}
	tooWide := 100.0
	if (ElementQuery{MaxWidth: &tooWide}).Matches(e) {
		t.Error("expected half-open upper bound to exclude an exact match")
	}
}

func TestElementQuery_HasPredicate(t *testing.T) {
	if (ElementQuery{}).HasPredicate() {
		t.Error("expected zero-value query to report no predicate")
	}
	if !(ElementQuery{Text: "x"}).HasPredicate() {
		t.Error("expected text predicate to be detected")
	}
	if !(ElementQuery{Role: "button"}).HasPredicate() {
		t.Error("expected role predicate to be detected")
	}
}

func TestElementQuery_String(t *testing.T) {
	q := ElementQuery{Text: "Submit", Role: "button"}
	got := q.String()
	want := `{text="Submit", role="button"}`
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if (ElementQuery{}).String() != "{}" {
		t.Errorf("expected empty query to render as {}")
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct{ in, want string }{
		{"button", "AXButton"},
		{"Button", "AXButton"},
		{"AXButton", "AXButton"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeRole(tt.in); got != tt.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsScrollableRole(t *testing.T) {
	if !IsScrollableRole("AXScrollArea") {
		t.Error("expected AXScrollArea to be scrollable")
	}
	if !IsScrollableRole("scrollArea") {
		t.Error("expected short-name scrollArea to normalize and match")
	}
	if IsScrollableRole("AXButton") {
		t.Error("expected AXButton to not be scrollable")
	}
}

func TestExpandRolesForWeb(t *testing.T) {
	roles, expanded := ExpandRolesForWeb([]string{"AXTextField"}, true)
	if !expanded {
		t.Error("expected expansion when web content is present and AXTextField requested")
	}
	found := false
	for _, r := range roles {
		if r == "AXUnknown" {
			found = true
		}
	}
	if !found {
		t.Error("expected AXUnknown to be appended")
	}

	roles2, expanded2 := ExpandRolesForWeb([]string{"AXTextField"}, false)
	if expanded2 || len(roles2) != 1 {
		t.Error("expected no expansion without web content")
	}
}
