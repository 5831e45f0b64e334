package action

import (
	"math/rand"
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/engine"
	"github.com/deskauto/deskauto/internal/platform"
)

const (
	appActivateSettle = 50 * time.Millisecond
	clickDwellMin     = 50 * time.Millisecond
	clickDwellRange   = 100 * time.Millisecond
)

// ClickOptions tunes a single Click call. The zero value clicks the left
// button once, warping the pointer directly (Humanized is false), with
// auto-scroll enabled.
type ClickOptions struct {
	App        string
	Button     platform.MouseButton
	Count      int
	Humanized  bool // false warps the pointer directly instead of stepping C5's trajectory
	NoAutoScroll bool
	ResolvedAt time.Time // when the caller obtained target; zero means "just now"
}

// Click implements §4.7's Click: validate visibility, bring target on
// screen if needed, activate its application, move the pointer to its
// center, and post a button-down/hold/button-up sequence.
func (a *Actions) Click(target element.Element, opts ClickOptions) error {
	target, err := a.refresh(target, opts.App, opts.ResolvedAt)
	if err != nil {
		return err
	}

	if !opts.NoAutoScroll && needsScroll(target) {
		target, err = a.bringIntoView(target, opts.App)
		if err != nil {
			return err
		}
	}
	if target.ZeroSize() {
		return &element.NotVisibleError{Label: target.Title}
	}

	if err := a.activateOwner(opts.App); err != nil {
		return err
	}

	center := target.Bounds().Center()
	if err := a.movePointer(center, target.Size.Width, opts.Humanized); err != nil {
		return err
	}

	count := opts.Count
	if count < 1 {
		count = 1
	}
	if count > 1 {
		return a.Input.Click(center, opts.Button, count)
	}
	if err := a.Input.MouseDown(center, opts.Button); err != nil {
		return err
	}
	a.Sleep(clickDwellMin + jitterDuration(a.Rand, clickDwellRange))
	return a.Input.MouseUp(center, opts.Button)
}

// needsScroll reports whether target's own recorded visibility means C7's
// auto-scroll policy should run before acting on it: zero size, or a
// visibility record that says it isn't fully in its viewport.
func needsScroll(e element.Element) bool {
	if e.ZeroSize() {
		return true
	}
	return e.Visibility != nil && !e.Visibility.InViewport
}

// bringIntoView invokes C4 then re-resolves target by its own reference so
// callers act on refreshed coordinates, per §4.7's auto-scroll policy.
func (a *Actions) bringIntoView(target element.Element, app string) (element.Element, error) {
	if _, err := a.Scroller.ScrollIntoView(target, app); err != nil {
		return target, err
	}
	if target.Ref == "" {
		return target, nil
	}
	return a.Resolve(target.Ref, app)
}

// activateOwner brings app's process to the foreground and waits the §4.7
// settle delay. An empty app leaves the current foreground application
// alone, since there is nothing yet to activate it by.
func (a *Actions) activateOwner(app string) error {
	if app == "" {
		return nil
	}
	if err := a.WindowManager.FocusWindow(platform.FocusOptions{Scope: platform.Scope{App: app}}); err != nil {
		return err
	}
	a.Sleep(appActivateSettle)
	return nil
}

// movePointer moves the cursor to dest, either warping directly or
// stepping C5's humanized trajectory through C6 one point at a time,
// posting each point to the trail sink as it goes. The dispatcher is
// post-only (no pointer-position query), so the first humanized move of a
// session warps instead of fabricating a start point; every move after
// that humanizes from the last point this process posted.
func (a *Actions) movePointer(dest element.Point, targetWidth float64, humanized bool) error {
	if !humanized || !a.havePointer {
		if err := a.Input.MoveMouse(dest); err != nil {
			return err
		}
		a.lastPointer, a.havePointer = dest, true
		return nil
	}

	opts := engine.DefaultMovementOptions()
	opts.Rand = a.Rand
	for _, step := range engine.GenerateMovement(a.lastPointer, dest, targetWidth, opts) {
		if err := a.Input.MoveMouse(step.Point); err != nil {
			return err
		}
		a.postTrail(step.Point)
		if step.Delay > 0 {
			a.Sleep(time.Duration(step.Delay * float64(time.Second)))
		}
	}
	a.lastPointer = dest
	return nil
}

func jitterDuration(r *rand.Rand, span time.Duration) time.Duration {
	if r == nil {
		return span / 2
	}
	return time.Duration(r.Float64() * float64(span))
}
