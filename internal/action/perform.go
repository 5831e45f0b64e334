package action

import (
	"time"

	"github.com/deskauto/deskauto/internal/element"
)

// PerformOptions scopes a PerformNamedAction call.
type PerformOptions struct {
	App        string
	ResolvedAt time.Time
}

// PerformNamedAction implements §4.7's pass-through to the OS's
// perform-action primitive, for actions such as "AXPress" or
// "AXShowMenu" that don't warrant a dedicated Actions method.
func (a *Actions) PerformNamedAction(target element.Element, name string, opts PerformOptions) error {
	target, err := a.refresh(target, opts.App, opts.ResolvedAt)
	if err != nil {
		return err
	}
	if target.Handle == nil {
		return &element.ActionFailedError{Name: name}
	}
	return a.Accessibility.PerformAction(target.Handle, name)
}
