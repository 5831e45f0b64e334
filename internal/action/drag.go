package action

import (
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/engine"
	"github.com/deskauto/deskauto/internal/platform"
)

const dragDownHold = 50 * time.Millisecond

// DragMethod selects how Drag interpolates between source and destination,
// per §4.7's three options.
type DragMethod int

const (
	// DragDirect posts a single drag event straight to the destination.
	DragDirect DragMethod = iota
	// DragLinear interpolates evenly-spaced drag events at ~60Hz over
	// DragOptions.Duration, with wall-clock-anchored sleeps.
	DragLinear
	// DragHumanized steps C5's trajectory and emits each point as a drag
	// event instead of a pointer move.
	DragHumanized
)

// DragOptions tunes a single Drag call.
type DragOptions struct {
	App      string
	Button   platform.MouseButton
	Method   DragMethod
	Duration time.Duration // used by DragLinear; defaults to 300ms
}

// Drag implements §4.7's Drag: warp to the source, button-down, hold,
// interpolate to the destination by the requested method, button-up.
func (a *Actions) Drag(from, to element.Point, opts DragOptions) error {
	if err := a.Input.MoveMouse(from); err != nil {
		return err
	}
	a.lastPointer, a.havePointer = from, true
	a.postTrail(from)

	if err := a.Input.MouseDown(from, opts.Button); err != nil {
		return err
	}
	a.Sleep(dragDownHold)

	var err error
	switch opts.Method {
	case DragLinear:
		err = a.dragLinear(from, to, opts)
	case DragHumanized:
		err = a.dragHumanized(from, to, opts)
	default:
		err = a.Input.PostDragEvent(to, opts.Button)
		a.postTrail(to)
	}
	if err != nil {
		return err
	}

	a.lastPointer = to
	return a.Input.MouseUp(to, opts.Button)
}

// dragLinear emits evenly spaced drag events at ~60Hz over opts.Duration,
// anchoring each sleep to the wall clock it started from rather than to
// the previous sleep's nominal length, so per-step scheduling jitter does
// not accumulate into drift over a long drag.
func (a *Actions) dragLinear(from, to element.Point, opts DragOptions) error {
	duration := opts.Duration
	if duration <= 0 {
		duration = 300 * time.Millisecond
	}
	const hz = 60.0
	steps := int(duration.Seconds() * hz)
	if steps < 1 {
		steps = 1
	}
	interval := duration / time.Duration(steps)
	start := a.Now()

	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := element.Point{X: from.X + (to.X-from.X)*t, Y: from.Y + (to.Y-from.Y)*t}
		if err := a.Input.PostDragEvent(p, opts.Button); err != nil {
			return err
		}
		a.postTrail(p)
		deadline := start.Add(interval * time.Duration(i))
		if wait := deadline.Sub(a.Now()); wait > 0 {
			a.Sleep(wait)
		}
	}
	return nil
}

func (a *Actions) dragHumanized(from, to element.Point, opts DragOptions) error {
	genOpts := engine.DefaultMovementOptions()
	genOpts.Rand = a.Rand
	for _, step := range engine.GenerateMovement(from, to, 0, genOpts) {
		if err := a.Input.PostDragEvent(step.Point, opts.Button); err != nil {
			return err
		}
		a.postTrail(step.Point)
		if step.Delay > 0 {
			a.Sleep(time.Duration(step.Delay * float64(time.Second)))
		}
	}
	return nil
}
