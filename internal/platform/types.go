package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// MouseButton identifies which physical button an input operation uses.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// ParseMouseButton converts a CLI flag value to a MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "left":
		return MouseLeft, nil
	case "right":
		return MouseRight, nil
	case "middle":
		return MouseMiddle, nil
	default:
		return MouseLeft, fmt.Errorf("unknown mouse button: %q (expected left, right, or middle)", s)
	}
}

// Modifier identifies a keyboard modifier an input operation may hold down
// for the duration of a click, move, or key event.
type Modifier int

const (
	ModShift Modifier = iota
	ModControl
	ModOption
	ModCommand
)

// ModifierSet is a bitmask of Modifier values.
type ModifierSet uint8

// Has reports whether m is set in the mask.
func (s ModifierSet) Has(m Modifier) bool {
	return s&(1<<uint(m)) != 0
}

// WithModifier returns s with m added.
func (s ModifierSet) WithModifier(m Modifier) ModifierSet {
	return s | (1 << uint(m))
}

// BBox is a screen rectangle in integer pixels, the unit the CLI's -bbox
// flag and the visible-only read filter operate in.
type BBox struct {
	X, Y, Width, Height int
}

// ParseBBox parses a "x,y,w,h" string into a BBox.
func ParseBBox(s string) (*BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid bbox %q: expected x,y,w,h", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid bbox %q: %w", s, err)
		}
		vals[i] = v
	}
	return &BBox{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// Scope narrows an accessibility read, action, or window operation to one
// application, window, or process. The zero Scope means "frontmost window
// of the frontmost application".
type Scope struct {
	App         string
	WindowTitle string
	WindowID    int
	PID         int
}

// ReadOptions controls a tree read beyond its Scope.
type ReadOptions struct {
	Scope
	MaxDepth    int      // 0 = unlimited
	Roles       []string // empty = all roles
	VisibleOnly bool
	BBox        *BBox
}

// ListOptions controls window/application enumeration.
type ListOptions struct {
	Apps bool
	PID  int
	App  string
}

// FocusOptions specifies what to bring to the foreground.
type FocusOptions struct {
	Scope
}

// ScreenshotOptions configures a window or screen capture.
type ScreenshotOptions struct {
	Scope
	Format  string  // "png" or "jpg"
	Quality int     // JPEG quality 1-100, ignored for PNG
	Scale   float64 // 0.1-1.0, default 0.5
}
