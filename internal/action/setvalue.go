package action

import (
	"time"

	"github.com/deskauto/deskauto/internal/element"
)

// SetValueOptions tunes a single SetValue call.
type SetValueOptions struct {
	App        string
	Attribute  string // "value" (default), "selected", or "focused"
	ResolvedAt time.Time
}

// axAttributeFor maps the CLI's short attribute names onto their
// accessibility API constants.
func axAttributeFor(attribute string) string {
	switch attribute {
	case "", "value":
		return "AXValue"
	case "selected":
		return "AXSelected"
	case "focused":
		return "AXFocused"
	default:
		return attribute
	}
}

// SetValue writes value directly to target's accessibility attribute
// without simulating keystrokes or mouse events, per §4.7's set-value
// contract: faster and more reliable than Type for long text, slider
// positions, or toggle state, at the cost of not exercising the app's own
// input validation the way a real keystroke would.
func (a *Actions) SetValue(target element.Element, value string, opts SetValueOptions) error {
	target, err := a.refresh(target, opts.App, opts.ResolvedAt)
	if err != nil {
		return err
	}
	if target.Handle == nil {
		return &element.ActionFailedError{Name: "set-value"}
	}
	return a.Accessibility.SetAttribute(target.Handle, axAttributeFor(opts.Attribute), value)
}
