package engine

import (
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

const (
	scrollSettleDelay   = 100 * time.Millisecond
	scrollMaxAttempts   = 8
	scrollHardTimeout   = 10 * time.Second
	scrollMinDeltaPx    = 5.0
	scrollOvershootCap  = 100.0
)

// ScrollService brings an element on-screen inside its scroll container (or
// window), per C4.
type ScrollService struct {
	Walker        *Walker
	Searcher      *Searcher
	Accessibility platform.AccessibilityProvider
	Input         platform.InputDispatcher

	// Sleep and Now are overridden in tests to avoid real wall-clock waits.
	Sleep func(time.Duration)
	Now   func() time.Time
}

// NewScrollService builds a ScrollService over the given collaborators,
// using real sleeps and the real clock.
func NewScrollService(walker *Walker, searcher *Searcher, accessibility platform.AccessibilityProvider, input platform.InputDispatcher) *ScrollService {
	return &ScrollService{
		Walker:        walker,
		Searcher:      searcher,
		Accessibility: accessibility,
		Input:         input,
		Sleep:         time.Sleep,
		Now:           time.Now,
	}
}

// ScrollIntoView makes target fully visible inside its scroll container (or
// window), trying the native scroll-to-visible action before falling back
// to synthetic wheel events. app scopes the re-query Find calls between
// iterations to the application target belongs to.
func (s *ScrollService) ScrollIntoView(target element.Element, app string) (element.ScrollIntoViewResult, error) {
	if isAlreadyVisible(target) {
		return element.ScrollIntoViewResult{
			Success:       true,
			FinalPosition: target.Bounds().Center(),
			Method:        element.ScrollMethodNone,
		}, nil
	}

	if hasAction(target, "AXScrollToVisible") {
		if err := s.Accessibility.PerformAction(target.Handle, "AXScrollToVisible"); err == nil {
			s.Sleep(scrollSettleDelay)
			if current, found := s.reQuery(target, app); found && isAlreadyVisible(current) {
				return element.ScrollIntoViewResult{
					Success:       true,
					FinalPosition: current.Bounds().Center(),
					Method:        element.ScrollMethodNative,
				}, nil
			}
		}
	}

	return s.scrollSynthetic(target, app)
}

func isAlreadyVisible(e element.Element) bool {
	return !e.ZeroSize() && e.Visibility != nil && e.Visibility.Reason == element.ReasonFullyVisible
}

func hasAction(e element.Element, name string) bool {
	for _, a := range e.Actions {
		if a == name {
			return true
		}
	}
	return false
}

// scrollSynthetic implements §4.4 step 3: locate the scroll container,
// center the pointer over it, and iteratively post bounded scroll deltas
// until the target is visible, progress stalls, attempts run out, or the
// hard timeout elapses.
func (s *ScrollService) scrollSynthetic(target element.Element, app string) (element.ScrollIntoViewResult, error) {
	deadline := s.Now().Add(scrollHardTimeout)
	current := target

	var totalScrolled element.Point
	attempts := 0

	for attempts < scrollMaxAttempts {
		if current.ScrollContainer == nil {
			return element.ScrollIntoViewResult{Attempts: attempts, Method: element.ScrollMethodFailed}, &element.NoScrollContainerError{}
		}
		if s.Now().After(deadline) {
			return element.ScrollIntoViewResult{Attempts: attempts, ScrolledBy: totalScrolled, Method: element.ScrollMethodFailed},
				&element.HardTimeoutError{ElapsedMillis: scrollHardTimeout.Milliseconds()}
		}

		container := *current.ScrollContainer
		dx, dy := desiredDelta(current.Visibility, container.VisibleFrame.Size.Width-scrollOvershootCap, container.VisibleFrame.Size.Height-scrollOvershootCap)
		if absf(dx) < scrollMinDeltaPx && absf(dy) < scrollMinDeltaPx {
			return element.ScrollIntoViewResult{Attempts: attempts, ScrolledBy: totalScrolled, Method: element.ScrollMethodFailed},
				&element.NoMeaningfulProgressError{Attempts: attempts}
		}

		attempts++
		at := container.VisibleFrame.Center()
		if err := s.Input.Scroll(at, -dx, -dy); err != nil {
			return element.ScrollIntoViewResult{Attempts: attempts, ScrolledBy: totalScrolled, Method: element.ScrollMethodFailed}, err
		}
		totalScrolled.X += dx
		totalScrolled.Y += dy

		s.Sleep(scrollSettleDelay)

		next, found := s.reQuery(current, app)
		if !found {
			return element.ScrollIntoViewResult{Attempts: attempts, ScrolledBy: totalScrolled, Method: element.ScrollMethodFailed}, &element.NoProgressError{}
		}
		current = next

		if isAlreadyVisible(current) {
			return element.ScrollIntoViewResult{
				Success:       true,
				Attempts:      attempts,
				FinalPosition: current.Bounds().Center(),
				ScrolledBy:    totalScrolled,
				Method:        element.ScrollMethodSynthetic,
			}, nil
		}
	}

	return element.ScrollIntoViewResult{Attempts: attempts, ScrolledBy: totalScrolled, Method: element.ScrollMethodFailed},
		&element.MaxScrollAttemptsExceededError{Attempts: attempts}
}

// desiredDelta converts a RequiresScroll hint into a signed (x, y) delta in
// the direction content must move, capped per axis to its viewport extent
// minus the overshoot margin.
func desiredDelta(v *element.Visibility, capX, capY float64) (dx, dy float64) {
	if v == nil || v.RequiresScroll == nil {
		return 0, 0
	}
	px := v.RequiresScroll.EstimatedPixels
	switch v.RequiresScroll.Direction {
	case element.ScrollDown:
		dy = clampPx(px, capY)
	case element.ScrollUp:
		dy = -clampPx(px, capY)
	case element.ScrollRight:
		dx = clampPx(px, capX)
	case element.ScrollLeft:
		dx = -clampPx(px, capX)
	}
	return dx, dy
}

func clampPx(px, cap float64) float64 {
	if cap <= 0 {
		return px
	}
	if px > cap {
		return cap
	}
	return px
}

// reQuery re-finds an element matching prev's identifying attributes,
// per the re-query recipe in §9's open questions: text, role, identifier,
// sibling index, parent role, and size within 5px. If that combination
// finds nothing — some web views reorder focusable children on scroll —
// it retries on role, text, and size alone.
func (s *ScrollService) reQuery(prev element.Element, app string) (element.Element, bool) {
	if found, ok := s.findOne(buildReQuery(prev, app, true)); ok {
		return found, true
	}
	if found, ok := s.findOne(buildReQuery(prev, app, false)); ok {
		return found, true
	}
	return element.Element{}, false
}

func (s *ScrollService) findOne(q element.ElementQuery) (element.Element, bool) {
	result, err := s.Searcher.Find(q)
	if err != nil || len(result.Elements) == 0 {
		return element.Element{}, false
	}
	return result.Elements[0], true
}

func buildReQuery(prev element.Element, app string, strict bool) element.ElementQuery {
	const tolerance = 5.0
	minW, maxW := prev.Size.Width-tolerance, prev.Size.Width+tolerance
	minH, maxH := prev.Size.Height-tolerance, prev.Size.Height+tolerance
	q := element.ElementQuery{
		Application: app,
		Role:        prev.Role,
		MinWidth:    &minW,
		MaxWidth:    &maxW,
		MinHeight:   &minH,
		MaxHeight:   &maxH,
		Limit:       1,
	}
	if text := firstNonEmpty(prev.TextCandidates()); text != "" {
		q.Text = text
	}
	if strict {
		q.Identifier = prev.Identifier
		q.SiblingIndex = prev.SiblingIndex
		q.ParentRole = prev.ParentRole
	}
	return q
}

func firstNonEmpty(candidates []string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
