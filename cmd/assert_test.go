package cmd

import (
	"testing"

	"github.com/deskauto/deskauto/internal/element"
)

// buildAssertElements returns a flat set of elements standing in for a
// single-app tree, covering the property combinations assert checks.
func buildAssertElements() map[string]element.Element {
	enabledTrue := true
	enabledFalse := false
	return map[string]element.Element{
		"submit":    {Ref: "id:2", Role: "button", Title: "Submit", Enabled: &enabledTrue},
		"save":      {Ref: "id:3", Role: "button", Title: "Save", Enabled: &enabledFalse},
		"search":    {Ref: "id:4", Role: "textField", Title: "Search", Value: "hello world", Focused: true},
		"checked":   {Ref: "id:5", Role: "checkBox", Title: "Remember me", Value: "1"},
		"unchecked": {Ref: "id:6", Role: "checkBox", Title: "Agree to terms", Value: "0"},
		"status":    {Ref: "id:7", Role: "staticText", Title: "Status", Value: "Success"},
	}
}

func TestCheckPropertyAssertions_Value(t *testing.T) {
	elems := buildAssertElements()
	elem := elems["search"]

	if err := checkPropertyAssertions(elem, assertOptions{hasValueCheck: true, value: "hello world"}); err != nil {
		t.Errorf("expected pass for correct value, got: %v", err)
	}
	if err := checkPropertyAssertions(elem, assertOptions{hasValueCheck: true, value: "wrong"}); err == nil {
		t.Error("expected fail for wrong value")
	}
	if err := checkPropertyAssertions(elem, assertOptions{hasValueCheck: true, value: ""}); err == nil {
		t.Error("expected fail when asserting empty value on element with value")
	}
}

func TestCheckPropertyAssertions_ValueContains(t *testing.T) {
	elem := buildAssertElements()["search"]

	if err := checkPropertyAssertions(elem, assertOptions{valueContains: "hello"}); err != nil {
		t.Errorf("expected pass for substring match, got: %v", err)
	}
	if err := checkPropertyAssertions(elem, assertOptions{valueContains: "HELLO"}); err != nil {
		t.Errorf("expected pass for case-insensitive match, got: %v", err)
	}
	if err := checkPropertyAssertions(elem, assertOptions{valueContains: "missing"}); err == nil {
		t.Error("expected fail when value doesn't contain substring")
	}
}

func TestCheckPropertyAssertions_Checked(t *testing.T) {
	elems := buildAssertElements()

	if err := checkPropertyAssertions(elems["checked"], assertOptions{checked: true}); err != nil {
		t.Errorf("expected pass for checked element, got: %v", err)
	}
	if err := checkPropertyAssertions(elems["unchecked"], assertOptions{checked: true}); err == nil {
		t.Error("expected fail when asserting checked on unchecked element")
	}
}

func TestCheckPropertyAssertions_Unchecked(t *testing.T) {
	elems := buildAssertElements()

	if err := checkPropertyAssertions(elems["unchecked"], assertOptions{unchecked: true}); err != nil {
		t.Errorf("expected pass for unchecked element, got: %v", err)
	}
	if err := checkPropertyAssertions(elems["checked"], assertOptions{unchecked: true}); err == nil {
		t.Error("expected fail when asserting unchecked on checked element")
	}
}

func TestCheckPropertyAssertions_Disabled(t *testing.T) {
	elems := buildAssertElements()

	if err := checkPropertyAssertions(elems["save"], assertOptions{disabled: true}); err != nil {
		t.Errorf("expected pass for disabled element, got: %v", err)
	}
	if err := checkPropertyAssertions(elems["submit"], assertOptions{disabled: true}); err == nil {
		t.Error("expected fail when asserting disabled on enabled element")
	}
}

func TestCheckPropertyAssertions_Enabled(t *testing.T) {
	elems := buildAssertElements()

	if err := checkPropertyAssertions(elems["submit"], assertOptions{enabled: true}); err != nil {
		t.Errorf("expected pass for enabled element, got: %v", err)
	}
	if err := checkPropertyAssertions(elems["save"], assertOptions{enabled: true}); err == nil {
		t.Error("expected fail when asserting enabled on disabled element")
	}
	if err := checkPropertyAssertions(elems["status"], assertOptions{enabled: true}); err != nil {
		t.Errorf("expected pass for nil-enabled element (default enabled), got: %v", err)
	}
}

func TestCheckPropertyAssertions_Focused(t *testing.T) {
	elems := buildAssertElements()

	if err := checkPropertyAssertions(elems["search"], assertOptions{isFocused: true}); err != nil {
		t.Errorf("expected pass for focused element, got: %v", err)
	}
	if err := checkPropertyAssertions(elems["submit"], assertOptions{isFocused: true}); err == nil {
		t.Error("expected fail when asserting focused on unfocused element")
	}
}

func TestCheckPropertyAssertions_NoAssertions(t *testing.T) {
	elem := buildAssertElements()["submit"]

	if err := checkPropertyAssertions(elem, assertOptions{}); err != nil {
		t.Errorf("expected pass with no assertions, got: %v", err)
	}
}

func TestCheckPropertyAssertions_MultipleCombined(t *testing.T) {
	elems := buildAssertElements()

	err := checkPropertyAssertions(elems["search"], assertOptions{
		hasValueCheck: true,
		value:         "hello world",
		isFocused:     true,
	})
	if err != nil {
		t.Errorf("expected pass for combined assertions, got: %v", err)
	}

	err = checkPropertyAssertions(elems["status"], assertOptions{
		valueContains: "Success",
		isFocused:     true,
	})
	if err == nil {
		t.Error("expected fail when one combined assertion fails")
	}
}

func TestCheckAssert_Gone_ElementNotFound(t *testing.T) {
	// actions is nil so findAssertElement errors, which checkAssert treats
	// as "gone" being satisfied.
	result := checkAssert(assertOptions{text: "nonexistent", gone: true})
	if !result.Pass {
		t.Errorf("expected pass when gone=true and element not found, got error: %s", result.Error)
	}
}

func TestDescribeElement(t *testing.T) {
	elem := element.Element{Ref: "id:42", Role: "button", Title: "Submit"}
	desc := describeElement(elem)
	expected := `ref=id:42 role=button title="Submit"`
	if desc != expected {
		t.Errorf("expected %q, got %q", expected, desc)
	}

	elem2 := element.Element{Ref: "id:7", Role: "staticText", Value: "Success"}
	desc2 := describeElement(elem2)
	expected2 := `ref=id:7 role=staticText value="Success"`
	if desc2 != expected2 {
		t.Errorf("expected %q, got %q", expected2, desc2)
	}
}
