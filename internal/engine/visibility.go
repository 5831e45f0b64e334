package engine

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

const maxAncestorSteps = 50

// containerMemoSize bounds the per-container memoization table. A batch of
// sibling matches rarely spans more than a handful of distinct scroll
// containers, so this comfortably covers real trees while still capping
// memory for a pathological one.
const containerMemoSize = 256

// Annotator computes visibility and scroll-container annotations (C3). It
// memoizes per-container work across a batch of sibling elements keyed by
// the container's handle identity, so annotating N matches under the same
// scroll area only walks that area's scroll bars once. The memo is a
// bounded LRU rather than a plain map since an Annotator can be reused
// across an unbounded number of searches over a process's lifetime.
type Annotator struct {
	memo *lru.Cache[uintptr, containerInfo]
}

// NewAnnotator returns an Annotator with an empty memoization table. Reuse
// one Annotator across every element produced by a single search so the
// memoization pays off.
func NewAnnotator() *Annotator {
	memo, _ := lru.New[uintptr, containerInfo](containerMemoSize)
	return &Annotator{memo: memo}
}

type containerInfo struct {
	role   string
	frame  element.Rect
	detail element.ScrollContainer
}

// Annotate computes target's Visibility and ScrollContainer fields given
// its ancestor chain (root-to-parent) and the frames to fall back to when
// no scrollable ancestor exists.
func (a *Annotator) Annotate(target *element.Element, ancestors []ancestor, windowFrame, displayFrame element.Rect) {
	if target.ZeroSize() {
		target.Visibility = &element.Visibility{Reason: element.ReasonZeroSize}
		target.ScrollContainer = nil
		return
	}

	containerIdx, found := nearestScrollContainer(ancestors)

	var viewport element.Rect
	switch {
	case found:
		containerAncestor := ancestors[containerIdx]
		info := a.containerInfoFor(containerAncestor)
		target.ScrollContainer = &info.detail
		viewport = info.frame
	case windowFrame.Size.Width > 0 && windowFrame.Size.Height > 0:
		target.ScrollContainer = nil
		viewport = windowFrame
	case displayFrame.Size.Width > 0 && displayFrame.Size.Height > 0:
		target.ScrollContainer = nil
		viewport = displayFrame
	default:
		target.Visibility = &element.Visibility{Reason: element.ReasonNoScrollContainer}
		target.ScrollContainer = nil
		return
	}

	target.Visibility = computeVisibility(target.Bounds(), viewport, found, windowFrame)
}

// computeVisibility implements §4.3 steps 4-5: intersect, classify, and
// (when not fully visible) compute the scroll delta that would center the
// target in viewport.
func computeVisibility(target, viewport element.Rect, hasContainer bool, windowFrame element.Rect) *element.Visibility {
	inter, ok := target.Intersect(viewport)
	if !ok {
		reason := sideOf(target, viewport)
		if !hasContainer && windowFrame != (element.Rect{}) {
			if _, insideWindow := target.Intersect(windowFrame); !insideWindow {
				reason = element.ReasonOutsideWindow
			}
		}
		return &element.Visibility{
			InViewport:     false,
			PercentVisible: 0,
			Reason:         reason,
			RequiresScroll: scrollDelta(target, viewport),
		}
	}

	targetArea := target.Area()
	percent := 1.0
	if targetArea > 0 {
		percent = inter.Area() / targetArea
	}
	if percent >= 0.99 {
		return &element.Visibility{InViewport: true, PercentVisible: min1(percent), Reason: element.ReasonFullyVisible}
	}
	return &element.Visibility{
		InViewport:     false,
		PercentVisible: percent,
		Reason:         element.ReasonPartiallyVisible,
		RequiresScroll: scrollDelta(target, viewport),
	}
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

// sideOf reports which edge of viewport the target's center lies beyond.
func sideOf(target, viewport element.Rect) element.VisibilityReason {
	tc := target.Center()
	vc := viewport.Center()
	dx := tc.X - vc.X
	dy := tc.Y - vc.Y
	// Primary axis is whichever has the larger deviation relative to the
	// viewport's own extent. scrollDelta compares raw pixel deltas instead,
	// so for a center beyond a corner of a non-square viewport the two can
	// pick different axes.
	if absf(dy)/maxf(viewport.Size.Height, 1) >= absf(dx)/maxf(viewport.Size.Width, 1) {
		if dy < 0 {
			return element.ReasonAboveViewport
		}
		return element.ReasonBelowViewport
	}
	if dx < 0 {
		return element.ReasonLeftOfViewport
	}
	return element.ReasonRightOfViewport
}

// scrollDelta computes the direction and pixel distance needed to move
// target's center onto viewport's center, per §4.3 step 4: primary axis is
// whichever delta is larger.
func scrollDelta(target, viewport element.Rect) *element.RequiresScroll {
	tc := target.Center()
	vc := viewport.Center()
	dx := tc.X - vc.X
	dy := tc.Y - vc.Y

	if absf(dy) >= absf(dx) {
		if dy < 0 {
			return &element.RequiresScroll{Direction: element.ScrollUp, EstimatedPixels: absf(dy)}
		}
		return &element.RequiresScroll{Direction: element.ScrollDown, EstimatedPixels: absf(dy)}
	}
	if dx < 0 {
		return &element.RequiresScroll{Direction: element.ScrollLeft, EstimatedPixels: absf(dx)}
	}
	return &element.RequiresScroll{Direction: element.ScrollRight, EstimatedPixels: absf(dx)}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// nearestScrollContainer walks ancestors from the immediate parent upward,
// up to maxAncestorSteps, looking for the nearest scrollable role.
func nearestScrollContainer(ancestors []ancestor) (idx int, ok bool) {
	steps := 0
	for i := len(ancestors) - 1; i >= 0 && steps < maxAncestorSteps; i-- {
		if element.IsScrollableRole(ancestors[i].Element.Role) {
			return i, true
		}
		steps++
	}
	return 0, false
}

// containerInfoFor computes (or returns the memoized) container detail for
// the scroll ancestor at a. Memoization key is the ancestor node's handle
// identity, matching §4.3's "batched variant".
func (a *Annotator) containerInfoFor(anc ancestor) containerInfo {
	var key uintptr
	if h := anc.Element.Handle; h != nil {
		key = h.Identity()
	}
	if info, ok := a.memo.Get(key); ok {
		return info
	}

	frame := anc.Element.Bounds()
	detail := element.ScrollContainer{
		Role:         anc.Element.Role,
		VisibleFrame: frame,
	}
	detail.CanScrollUp, detail.CanScrollDown, detail.CanScrollLeft, detail.CanScrollRight = scrollBarState(anc.Node)

	info := containerInfo{role: anc.Element.Role, frame: frame, detail: detail}
	a.memo.Add(key, info)
	return info
}

// scrollBarState walks container's direct children once looking for scroll
// bars, classifying each as vertical or horizontal by aspect ratio (the
// accessibility API's AXOrientation attribute isn't exposed through
// platform.Node, so geometry is the next best signal) and reading its
// value — a [0,1] fraction — to decide which directions remain available.
// A scroll bar with no readable value is assumed to allow both directions
// it governs.
func scrollBarState(container platform.Node) (up, down, left, right bool) {
	if container == nil {
		return false, false, false, false
	}
	children, err := container.Children()
	if err != nil {
		return false, false, false, false
	}
	for _, c := range children {
		if c.Role() != "AXScrollBar" {
			continue
		}
		bounds := c.Bounds()
		vertical := bounds.Size.Height >= bounds.Size.Width
		value, err := strconv.ParseFloat(c.Value(), 64)
		if err != nil {
			if vertical {
				up, down = true, true
			} else {
				left, right = true, true
			}
			continue
		}
		if vertical {
			up = up || value > 0.01
			down = down || value < 0.99
		} else {
			left = left || value > 0.01
			right = right || value < 0.99
		}
	}
	return up, down, left, right
}
