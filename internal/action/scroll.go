package action

import (
	"time"

	"github.com/deskauto/deskauto/internal/element"
)

// ScrollTarget resolves the point ScrollHere posts a wheel event at: either
// a literal screen coordinate, or the center of a scrollable ancestor of a
// named element, per §4.7's "scroll here" contract.
type ScrollTarget struct {
	Point    *element.Point
	Element  *element.Element
	App      string
	ResolvedAt time.Time
}

// ScrollHereOptions tunes a single ScrollHere call.
type ScrollHereOptions struct {
	DX, DY float64
}

// ScrollHere moves the pointer to target's resolved point and posts a
// single scroll event there, without invoking C4's scroll-into-view loop.
func (a *Actions) ScrollHere(target ScrollTarget, opts ScrollHereOptions) error {
	at, err := a.resolveScrollPoint(target)
	if err != nil {
		return err
	}
	if err := a.Input.MoveMouse(at); err != nil {
		return err
	}
	a.lastPointer, a.havePointer = at, true
	return a.Input.Scroll(at, opts.DX, opts.DY)
}

// resolveScrollPoint implements the two forms ScrollTarget may take: a
// literal point, or the center of the nearest scroll container of a named
// element (falling back to the element's own center when it has none).
func (a *Actions) resolveScrollPoint(target ScrollTarget) (element.Point, error) {
	if target.Point != nil {
		return *target.Point, nil
	}
	if target.Element == nil {
		return element.Point{}, &element.InvalidCoordinatesError{}
	}
	e, err := a.refresh(*target.Element, target.App, target.ResolvedAt)
	if err != nil {
		return element.Point{}, err
	}
	if e.ScrollContainer != nil {
		return e.ScrollContainer.VisibleFrame.Center(), nil
	}
	return e.Bounds().Center(), nil
}

// ScrollToElementOptions tunes a single ScrollToElement call.
type ScrollToElementOptions struct {
	App        string
	ResolvedAt time.Time
}

// ScrollToElement implements §4.7's "scroll to element": a thin pass-
// through to C4's scroll-into-view service.
func (a *Actions) ScrollToElement(target element.Element, opts ScrollToElementOptions) (element.ScrollIntoViewResult, error) {
	target, err := a.refresh(target, opts.App, opts.ResolvedAt)
	if err != nil {
		return element.ScrollIntoViewResult{}, err
	}
	return a.Scroller.ScrollIntoView(target, opts.App)
}
