package element

import (
	"encoding/json"
	"testing"
)

func TestElement_JSONKeys(t *testing.T) {
	el := Element{Role: "AXButton", Title: "OK", Position: Point{X: 10, Y: 20}, Size: Size{Width: 100, Height: 30}, Path: []string{"AXButton"}}
	data, err := json.Marshal(el)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"role", "title", "position", "size", "path"} {
		if _, ok := m[key]; !ok {
			t.Errorf("expected key %q in JSON output", key)
		}
	}
	if _, ok := m["handle"]; ok {
		t.Error("Handle must never be serialized")
	}
}

func TestElement_OmitEmpty(t *testing.T) {
	el := Element{Role: "AXButton", Path: []string{"AXButton"}}
	data, err := json.Marshal(el)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"title", "value", "ref", "identifier", "visibility", "scroll_container"} {
		if _, ok := m[key]; ok {
			t.Errorf("empty field %q should be omitted", key)
		}
	}
}

func TestRect_Center(t *testing.T) {
	r := Rect{Position: Point{X: 10, Y: 20}, Size: Size{Width: 100, Height: 50}}
	got := r.Center()
	want := Point{X: 60, Y: 45}
	if got != want {
		t.Errorf("Center() = %+v, want %+v", got, want)
	}
}

func TestRect_Intersect(t *testing.T) {
	a := Rect{Position: Point{X: 0, Y: 0}, Size: Size{Width: 100, Height: 100}}
	b := Rect{Position: Point{X: 50, Y: 50}, Size: Size{Width: 100, Height: 100}}
	got, ok := a.Intersect(b)
	if !ok {
		t.Fatal("expected overlapping rects to intersect")
	}
	want := Rect{Position: Point{X: 50, Y: 50}, Size: Size{Width: 50, Height: 50}}
	if got != want {
		t.Errorf("Intersect() = %+v, want %+v", got, want)
	}

	c := Rect{Position: Point{X: 200, Y: 200}, Size: Size{Width: 10, Height: 10}}
	if _, ok := a.Intersect(c); ok {
		t.Error("expected non-overlapping rects to not intersect")
	}
}

func TestElement_ZeroSize(t *testing.T) {
	if !(Element{Size: Size{Width: 0, Height: 10}}).ZeroSize() {
		t.Error("expected zero width to report ZeroSize")
	}
	if (Element{Size: Size{Width: 10, Height: 10}}).ZeroSize() {
		t.Error("expected non-zero size to not report ZeroSize")
	}
}

func TestElement_Validate(t *testing.T) {
	if err := (Element{Role: "AXButton", Path: []string{"AXButton"}}).Validate(); err != nil {
		t.Errorf("expected valid element to pass, got: %v", err)
	}
	if err := (Element{Path: []string{"AXButton"}}).Validate(); err == nil {
		t.Error("expected missing role to fail validation")
	}
	if err := (Element{Role: "AXButton", Path: []string{"AXWindow"}}).Validate(); err == nil {
		t.Error("expected path not ending in role to fail validation")
	}
	if err := (Element{Role: "AXButton", Path: []string{"AXButton"}, Size: Size{Width: -1}}).Validate(); err == nil {
		t.Error("expected negative size to fail validation")
	}
}

func TestElement_TextCandidates(t *testing.T) {
	e := Element{Title: "Submit", AccessibilityDescription: "Submit the form", Value: "42"}
	got := e.TextCandidates()
	want := []string{"Submit", "Submit the form", "42"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TextCandidates()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
