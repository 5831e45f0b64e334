package platform

import "github.com/deskauto/deskauto/internal/element"

// Node is one accessibility node as exposed by the OS layer. The walker
// (internal/engine) only ever sees this interface, never a darwin AX
// handle directly, so the traversal, cycle detection, and query evaluation
// in C1/C2 can be unit-tested without an accessibility permission grant.
type Node interface {
	Handle() element.Handle
	Role() string
	Subrole() string
	Title() string
	Description() string
	Value() string
	Bounds() element.Rect
	Identifier() string
	DOMIdentifier() string
	DOMClassList() []string
	Focused() bool
	Enabled() *bool
	Actions() []string
	// Children returns this node's immediate children. Each call may touch
	// the accessibility layer, so callers walking deep trees should expect
	// it to be the dominant cost of a read.
	Children() ([]Node, error)
}

// AccessibilityProvider roots a traversal and performs actions against the
// nodes it returns.
type AccessibilityProvider interface {
	// RootNodes returns the top-level nodes (typically one per matching
	// window) for scope.
	RootNodes(scope Scope) ([]Node, error)

	// PerformAction runs a named accessibility action (e.g. "AXPress") on
	// the node identified by handle.
	PerformAction(handle element.Handle, action string) error

	// SetAttribute writes value to the named accessibility attribute on
	// the node identified by handle.
	SetAttribute(handle element.Handle, attribute, value string) error

	// ElementAtPosition performs a system-wide hit test at a screen point.
	// Returns a nil Node (no error) when nothing is found there.
	ElementAtPosition(at element.Point) (Node, error)

	// FocusedElement returns the element currently holding keyboard focus,
	// regardless of which application owns it. Returns a nil Node (no
	// error) when nothing is focused.
	FocusedElement() (Node, error)
}

// Workspace enumerates running applications and their windows.
type Workspace interface {
	ListWindows(opts ListOptions) ([]element.Window, error)
	ListApplications() ([]element.Application, error)
	FrontmostApplication() (element.Application, error)
}

// InputDispatcher issues trusted mouse and keyboard events to the window
// server. Coordinates are screen-space, top-left origin, matching
// element.Point throughout the engine; a darwin implementation is
// responsible for any bottom-left conversion CGEvent requires internally.
type InputDispatcher interface {
	MoveMouse(to element.Point) error
	Click(at element.Point, button MouseButton, count int) error
	MouseDown(at element.Point, button MouseButton) error
	MouseUp(at element.Point, button MouseButton) error
	Drag(from, to element.Point, button MouseButton) error
	// PostDragEvent posts a single dragged-type event at a point, distinct
	// from MoveMouse's plain mouse-moved event, for callers that manage
	// their own button-down/button-up around a multi-step drag gesture.
	PostDragEvent(at element.Point, button MouseButton) error
	Scroll(at element.Point, dx, dy float64) error
	KeyDown(keyCode uint16, mods ModifierSet) error
	KeyUp(keyCode uint16, mods ModifierSet) error
	TypeText(text string, delayMs int) error
	KeyCombo(keys []string) error
}

// WindowManager manages window focus and raises the frontmost application.
type WindowManager interface {
	FocusWindow(opts FocusOptions) error
	GetFrontmostApp() (string, int, error)
}

// Screenshotter captures window or screen pixels.
type Screenshotter interface {
	// CaptureWindow returns image bytes in the format opts.Format requests.
	CaptureWindow(opts ScreenshotOptions) ([]byte, error)
	// DisplayMetrics reports display dimensions for scope, used by
	// coordinate conversions that need an origin flip and as the outermost
	// visibility viewport. The darwin backend always reports the main
	// display; it does not look up which display the scope's window is on.
	DisplayMetrics(scope Scope) (element.DisplayMetrics, error)
}

// ClipboardManager reads and writes the system clipboard's text content.
type ClipboardManager interface {
	GetText() (string, error)
	SetText(text string) error
	Clear() error
}

// Permissions checks and requests the OS privacy grants the engine needs:
// accessibility control for reads/actions, screen recording for captures.
type Permissions interface {
	CheckAccessibility() error
	IsAccessibilityTrusted() bool
	RequestScreenRecording()
}
