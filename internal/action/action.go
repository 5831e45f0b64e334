// Package action implements C7, the element action layer: the four
// user-visible operations (click, type, read, capture) plus perform-named-action,
// drag, and scroll, composed from the engine (C1-C5) and a platform.Provider
// (C6's concrete backend). It is the only package that sequences sleeps,
// OS input events, and re-queries into a single user-visible step — the
// engine packages underneath stay synchronous and side-effect-free.
package action

import (
	"math/rand"
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/engine"
	"github.com/deskauto/deskauto/internal/platform"
)

// TrailSink receives pointer-trajectory points as the movement generator
// (C5) steps through them, so a debugging overlay can draw the path
// without the action layer importing any UI code. Post must not block.
type TrailSink interface {
	Post(p element.Point)
}

// Actions bundles the engine and platform collaborators C7 composes.
// Sleep and Now are swapped out in tests to avoid real wall-clock waits;
// Rand drives click-dwell and inter-keystroke jitter.
type Actions struct {
	Walker        *engine.Walker
	Searcher      *engine.Searcher
	Scroller      *engine.ScrollService
	Accessibility platform.AccessibilityProvider
	Workspace     platform.Workspace
	Input         platform.InputDispatcher
	WindowManager platform.WindowManager
	Screenshotter platform.Screenshotter
	Clipboard     platform.ClipboardManager

	Trail TrailSink // optional; nil disables trail posting

	Sleep func(time.Duration)
	Now   func() time.Time
	Rand  *rand.Rand

	// lastPointer tracks the cursor's last position this process moved it
	// to, since the input dispatcher is post-only and exposes no query.
	// Zero means unknown; movePointer then warps instead of humanizing the
	// first step, rather than fabricating a start point.
	lastPointer element.Point
	havePointer bool
}

// New builds an Actions layer over provider's backends, wiring a fresh
// Walker, Searcher, and ScrollService from it.
func New(provider *platform.Provider) *Actions {
	walker := engine.NewWalker(provider.Accessibility, provider.Workspace)
	searcher := engine.NewSearcher(walker, provider.Screenshotter)
	scroller := engine.NewScrollService(walker, searcher, provider.Accessibility, provider.Input)
	return &Actions{
		Walker:        walker,
		Searcher:      searcher,
		Scroller:      scroller,
		Accessibility: provider.Accessibility,
		Workspace:     provider.Workspace,
		Input:         provider.Input,
		WindowManager: provider.WindowManager,
		Screenshotter: provider.Screenshotter,
		Clipboard:     provider.ClipboardManager,
		Sleep:         time.Sleep,
		Now:           time.Now,
		Rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// staleAfter is the freshness window spec.md §3's Lifecycle section names
// ("a few hundred milliseconds") past which a caller-held Element must be
// re-queried before the action layer acts on it.
const staleAfter = 300 * time.Millisecond

// Resolve finds the single element a reference or ad hoc query names,
// scoped to app (empty means every regular application). It is the entry
// point cmd and internal/server use to turn user input into an Element
// before calling a Click/Type/Read/Capture/Drag below.
func (a *Actions) Resolve(ref string, app string) (element.Element, error) {
	decoded, err := element.DecodeReference(ref)
	if err != nil {
		return element.Element{}, err
	}
	query := decoded.Query
	query.Application = app
	result, err := a.Searcher.Find(query)
	if err != nil {
		return element.Element{}, err
	}
	if len(result.Elements) == 0 {
		return element.Element{}, &element.NotFoundError{Query: query}
	}
	if decoded.Tier != element.TierPosition {
		return result.Elements[0], nil
	}
	return nearestToGrid(result.Elements, decoded.Grid), nil
}

// Find runs an ad hoc query, for callers (the "find" command, "do" steps)
// that describe an element by text/role/etc. rather than by a stored ref.
func (a *Actions) Find(query element.ElementQuery) (element.SearchResult, error) {
	return a.Searcher.Find(query)
}

func nearestToGrid(elements []element.Element, grid element.Point) element.Element {
	best := elements[0]
	bestDist := distance(best.Position, grid)
	for _, e := range elements[1:] {
		if d := distance(e.Position, grid); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

func distance(a, b element.Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// refresh re-queries target by its own reference if it is older than
// staleAfter, per §3's lifecycle rule. asOf is when the caller obtained
// target (the CLI and MCP server stamp this at resolve time); a zero asOf
// is treated as "just resolved" and skips the re-query.
func (a *Actions) refresh(target element.Element, app string, asOf time.Time) (element.Element, error) {
	if asOf.IsZero() || a.Now().Sub(asOf) < staleAfter {
		return target, nil
	}
	if target.Ref == "" {
		return target, nil
	}
	fresh, err := a.Resolve(target.Ref, app)
	if err != nil {
		return target, nil // best-effort; act on the stale value rather than fail the whole operation
	}
	return fresh, nil
}

func (a *Actions) postTrail(p element.Point) {
	if a.Trail != nil {
		a.Trail.Post(p)
	}
}
