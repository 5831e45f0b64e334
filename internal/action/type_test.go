package action

import (
	"testing"

	"github.com/deskauto/deskauto/internal/element"
)

func focusableTarget(handle element.Handle, ref, identifier string) element.Element {
	return element.Element{
		Title:      "Search",
		Role:       "AXTextField",
		Identifier: identifier,
		Ref:        ref,
		Position:   element.Point{X: 10, Y: 10},
		Size:       element.Size{Width: 200, Height: 24},
		Handle:     handle,
		Visibility: &element.Visibility{InViewport: true, Reason: element.ReasonFullyVisible, PercentVisible: 1},
	}
}

// TestType_DirectValueSetSucceedsWithoutKeystrokes covers the fast path: the
// accessibility attribute write sticks (a real re-query's Value matches),
// so no keystrokes are posted at all.
func TestType_DirectValueSetSucceedsWithoutKeystrokes(t *testing.T) {
	node := &fakeNode{id: 2, role: "AXTextField", title: "Search", ident: "search-field", bounds: element.Rect{Position: element.Point{X: 10, Y: 10}, Size: element.Size{Width: 200, Height: 24}}}
	root := &fakeNode{id: 1, role: "AXWindow", children: []*fakeNode{node}}
	rig := newTestRig(root)

	target := focusableTarget(fakeHandle{id: 2}, "@id:search-field", "search-field")
	if err := rig.Actions.Type(target, "hello", TypeOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rig.Input.keyDowns) != 0 || len(rig.Input.keyUps) != 0 {
		t.Errorf("expected no keystrokes when the direct value write sticks, got downs=%d ups=%d", len(rig.Input.keyDowns), len(rig.Input.keyUps))
	}
	found := false
	for _, c := range rig.Access.setAttrCalls {
		if c.attribute == "AXValue" && c.value == "hello" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected AXValue to be written with %q, got %v", "hello", rig.Access.setAttrCalls)
	}
}

// TestType_FallsBackToKeystrokesWhenNoHandle is the type-into-web-field
// scenario: a custom-drawn field exposes no settable accessibility value
// (target.Handle is nil), so Type must fall back to posting exactly one
// key-down/up pair per character.
func TestType_FallsBackToKeystrokesWhenNoHandle(t *testing.T) {
	root := &fakeNode{id: 1, role: "AXWindow"}
	rig := newTestRig(root)

	target := element.Element{
		Title:      "Search",
		Position:   element.Point{X: 10, Y: 10},
		Size:       element.Size{Width: 200, Height: 24},
		Visibility: &element.Visibility{InViewport: true, Reason: element.ReasonFullyVisible, PercentVisible: 1},
	}

	const text = "hello"
	if err := rig.Actions.Type(target, text, TypeOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rig.Input.keyDowns) != len(text) {
		t.Fatalf("expected exactly %d key-down events, got %d", len(text), len(rig.Input.keyDowns))
	}
	if len(rig.Input.keyUps) != len(text) {
		t.Fatalf("expected exactly %d key-up events, got %d", len(text), len(rig.Input.keyUps))
	}
	for i, ch := range text {
		want := charKeyTable[ch]
		if rig.Input.keyDowns[i].code != want.code {
			t.Errorf("key %d: expected keycode %#x for %q, got %#x", i, want.code, ch, rig.Input.keyDowns[i].code)
		}
		if rig.Input.keyUps[i].code != want.code {
			t.Errorf("key %d: expected matching key-up keycode %#x for %q, got %#x", i, want.code, ch, rig.Input.keyUps[i].code)
		}
	}
}

// TestType_FallsBackToKeystrokesWhenValueDoesNotStick exercises the other
// fallback path: the attribute write succeeds but the readback (via a real
// re-query) doesn't match, so Type still falls through to keystrokes.
func TestType_FallsBackToKeystrokesWhenValueDoesNotStick(t *testing.T) {
	node := &fakeNode{id: 2, role: "AXTextField", title: "Search", ident: "search-field", bounds: element.Rect{Position: element.Point{X: 10, Y: 10}, Size: element.Size{Width: 200, Height: 24}}}
	root := &fakeNode{id: 1, role: "AXWindow", children: []*fakeNode{node}}
	rig := newTestRig(root)
	// The custom control ignores the AXValue write entirely: byHandle has
	// no entry for this handle id, so SetAttribute records the call but
	// never mutates node.value, and the readback comparison will fail.
	delete(rig.Access.byHandle, 2)

	target := focusableTarget(fakeHandle{id: 2}, "@id:search-field", "search-field")
	const text = "hi"
	if err := rig.Actions.Type(target, text, TypeOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rig.Input.keyDowns) != len(text) {
		t.Errorf("expected the keystroke fallback to fire when the write doesn't stick, got %d key-downs", len(rig.Input.keyDowns))
	}
}

// TestType_PasteChannelSnapshotsAndRestoresClipboard covers §5's paste
// channel: when UsePasteChannel is set and no accessibility handle is
// available, Type pastes via Cmd+V instead of one keystroke per character,
// and restores whatever was on the clipboard beforehand.
func TestType_PasteChannelSnapshotsAndRestoresClipboard(t *testing.T) {
	root := &fakeNode{id: 1, role: "AXWindow"}
	rig := newTestRig(root)
	clip := &fakeClipboard{text: "previous contents"}
	rig.Actions.Clipboard = clip

	target := element.Element{
		Position:   element.Point{X: 10, Y: 10},
		Size:       element.Size{Width: 200, Height: 24},
		Visibility: &element.Visibility{InViewport: true, Reason: element.ReasonFullyVisible, PercentVisible: 1},
	}

	if err := rig.Actions.Type(target, "hello world", TypeOptions{UsePasteChannel: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rig.Input.keyDowns) != 0 || len(rig.Input.keyUps) != 0 {
		t.Errorf("expected no per-character keystrokes when pasting, got downs=%d ups=%d", len(rig.Input.keyDowns), len(rig.Input.keyUps))
	}
	if len(rig.Input.keyCombos) != 1 || rig.Input.keyCombos[0][0] != "cmd" || rig.Input.keyCombos[0][1] != "v" {
		t.Errorf("expected exactly one cmd+v key combo, got %v", rig.Input.keyCombos)
	}
	if clip.text != "previous contents" {
		t.Errorf("expected the clipboard to be restored to its prior contents, got %q", clip.text)
	}
	if len(clip.setCalls) != 2 || clip.setCalls[0] != "hello world" {
		t.Errorf("expected the paste payload to be set before the restore, got %v", clip.setCalls)
	}
}

func TestType_UnmappableCharacterFallsBackToTypeText(t *testing.T) {
	root := &fakeNode{id: 1, role: "AXWindow"}
	rig := newTestRig(root)

	target := element.Element{
		Position:   element.Point{X: 10, Y: 10},
		Size:       element.Size{Width: 200, Height: 24},
		Visibility: &element.Visibility{InViewport: true, Reason: element.ReasonFullyVisible, PercentVisible: 1},
	}

	if err := rig.Actions.Type(target, "a中", TypeOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rig.Input.keyDowns) != 1 {
		t.Errorf("expected exactly one keycode-table keystroke for 'a', got %d", len(rig.Input.keyDowns))
	}
	if len(rig.Input.typedText) != 1 || rig.Input.typedText[0] != "中" {
		t.Errorf("expected the unmapped character to be posted via TypeText, got %v", rig.Input.typedText)
	}
}
