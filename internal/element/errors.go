package element

import "fmt"

// PermissionError reports that a required OS permission is not granted.
// Which is one of "accessibility" or "screen-recording".
type PermissionError struct {
	Which string
	Hint  string
}

func (e *PermissionError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s permission required: %s", e.Which, e.Hint)
	}
	return fmt.Sprintf("%s permission required", e.Which)
}

// EventCreationFailedError reports that the OS refused to create or post an
// input event. No retry is attempted by the dispatcher.
type EventCreationFailedError struct {
	Kind string // "mouse move", "mouse down", "scroll wheel", "drag", etc.
}

func (e *EventCreationFailedError) Error() string {
	return fmt.Sprintf("failed to create %s event", e.Kind)
}

// InvalidCoordinatesError reports a precondition failure on a point passed
// to the input dispatcher.
type InvalidCoordinatesError struct {
	X, Y float64
}

func (e *InvalidCoordinatesError) Error() string {
	return fmt.Sprintf("invalid coordinates (%.1f, %.1f)", e.X, e.Y)
}

// InvalidKeyCodeError reports a virtual keycode the dispatcher rejected.
type InvalidKeyCodeError struct {
	KeyCode uint16
}

func (e *InvalidKeyCodeError) Error() string {
	return fmt.Sprintf("invalid key code %d", e.KeyCode)
}

// UnmappableCharacterError reports a rune the static keycode table has no
// entry for and that could not be posted as a Unicode-string payload.
type UnmappableCharacterError struct {
	Rune rune
}

func (e *UnmappableCharacterError) Error() string {
	return fmt.Sprintf("cannot type character %q", e.Rune)
}

// NotFoundError reports that a query matched nothing.
type NotFoundError struct {
	Query fmt.Stringer
}

func (e *NotFoundError) Error() string {
	if e.Query != nil {
		return fmt.Sprintf("no element matched query %s", e.Query.String())
	}
	return "no element matched query"
}

// NotVisibleError reports that an element exists but has zero size.
type NotVisibleError struct {
	Label string
}

func (e *NotVisibleError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("element %q is not visible (zero size)", e.Label)
	}
	return "element is not visible (zero size)"
}

// ActionFailedError reports that the OS rejected a perform-action or
// set-attribute call.
type ActionFailedError struct {
	Name   string
	OSCode int
}

func (e *ActionFailedError) Error() string {
	return fmt.Sprintf("action %q failed (os code %d)", e.Name, e.OSCode)
}

// ReadFailedError reports that a required attribute could not be read,
// causing the owning node to be dropped from traversal.
type ReadFailedError struct {
	Attribute string
}

func (e *ReadFailedError) Error() string {
	return fmt.Sprintf("failed to read required attribute %q", e.Attribute)
}

// InvariantError reports an Element that failed its own documented
// invariants; this should never happen in well-formed walker output and is
// surfaced for tests and defensive callers.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("element invariant violated: %s", e.Detail)
}

// NoScrollContainerError reports that an element is not visible and has no
// scrollable ancestor to bring it into view with.
type NoScrollContainerError struct{}

func (e *NoScrollContainerError) Error() string { return "no scroll container found" }

// MaxScrollAttemptsExceededError reports that scrolling made progress but
// did not reach the target within the attempt budget.
type MaxScrollAttemptsExceededError struct {
	Attempts int
}

func (e *MaxScrollAttemptsExceededError) Error() string {
	return fmt.Sprintf("max scroll attempts (%d) exceeded", e.Attempts)
}

// NoProgressError reports that the element disappeared from the tree
// between scroll iterations.
type NoProgressError struct{}

func (e *NoProgressError) Error() string { return "element disappeared between scroll iterations" }

// NoMeaningfulProgressError reports that the computed scroll delta fell
// below the minimum-pixel threshold on both axes before the target became
// visible — further scrolling would not move the content, distinct from
// simply running out of attempts.
type NoMeaningfulProgressError struct {
	Attempts int
}

func (e *NoMeaningfulProgressError) Error() string {
	return fmt.Sprintf("scroll delta below minimum threshold after %d attempts, no further progress possible", e.Attempts)
}

// HardTimeoutError reports that a multi-step operation crossed its wall
// clock ceiling before completing.
type HardTimeoutError struct {
	ElapsedMillis int64
}

func (e *HardTimeoutError) Error() string {
	return fmt.Sprintf("operation timed out after %dms", e.ElapsedMillis)
}

// CaptureFailedError reports that the capture collaborator could not
// produce an image.
type CaptureFailedError struct {
	Reason string
}

func (e *CaptureFailedError) Error() string {
	return fmt.Sprintf("capture failed: %s", e.Reason)
}

// AppNotFoundError reports that a named application could not be resolved.
type AppNotFoundError struct {
	Name string
}

func (e *AppNotFoundError) Error() string {
	return fmt.Sprintf("application %q not found", e.Name)
}

// AppNotRunningError reports that a named application is not currently running.
type AppNotRunningError struct {
	Name string
}

func (e *AppNotRunningError) Error() string {
	return fmt.Sprintf("application %q is not running", e.Name)
}

// WindowNotFoundError reports that a window lookup failed.
type WindowNotFoundError struct {
	Detail string
}

func (e *WindowNotFoundError) Error() string {
	return fmt.Sprintf("window not found: %s", e.Detail)
}
