package action

import (
	"time"

	"github.com/deskauto/deskauto/internal/element"
)

// ReadOptions scopes a Read call.
type ReadOptions struct {
	App        string
	ResolvedAt time.Time
}

// Read implements §4.7's Read: the first present of the live value, live
// title, live description attributes, falling back to the snapshot's own
// label (the value target was discovered with) when the element can no
// longer be re-queried.
func (a *Actions) Read(target element.Element, opts ReadOptions) (string, error) {
	if fresh, err := a.refresh(target, opts.App, opts.ResolvedAt); err == nil {
		target = fresh
	}

	for _, candidate := range []string{target.Value, target.Title, target.AccessibilityDescription} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return "", nil
}
