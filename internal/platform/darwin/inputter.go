//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework Foundation -framework Carbon
#include <CoreGraphics/CoreGraphics.h>
#include <Carbon/Carbon.h>
#include <unistd.h>

static CGEventRef make_mouse_event(CGEventType type, float x, float y, int button) {
    CGPoint point = CGPointMake(x, y);
    CGMouseButton cgButton = kCGMouseButtonLeft;
    switch (button) {
        case 1: cgButton = kCGMouseButtonRight; break;
        case 2: cgButton = kCGMouseButtonCenter; break;
    }
    return CGEventCreateMouseEvent(NULL, type, point, cgButton);
}

static int cg_mouse_down(float x, float y, int button) {
    CGEventType downType = kCGEventLeftMouseDown;
    if (button == 1) downType = kCGEventRightMouseDown;
    if (button == 2) downType = kCGEventOtherMouseDown;
    CGEventRef ev = make_mouse_event(downType, x, y, button);
    if (!ev) return -1;
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}

static int cg_drag_event(float x, float y, int button) {
    CGEventType dragType = kCGEventLeftMouseDragged;
    if (button == 1) dragType = kCGEventRightMouseDragged;
    if (button == 2) dragType = kCGEventOtherMouseDragged;
    CGEventRef ev = make_mouse_event(dragType, x, y, button);
    if (!ev) return -1;
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}

static int cg_mouse_up(float x, float y, int button) {
    CGEventType upType = kCGEventLeftMouseUp;
    if (button == 1) upType = kCGEventRightMouseUp;
    if (button == 2) upType = kCGEventOtherMouseUp;
    CGEventRef ev = make_mouse_event(upType, x, y, button);
    if (!ev) return -1;
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}

// Click at screen coordinates with specified button and click count.
// button: 0=left, 1=right, 2=middle (maps to kCGMouseButton*)
static int cg_click(float x, float y, int button, int count) {
    CGEventType downType, upType;
    switch (button) {
        case 1: downType = kCGEventRightMouseDown; upType = kCGEventRightMouseUp; break;
        case 2: downType = kCGEventOtherMouseDown; upType = kCGEventOtherMouseUp; break;
        default: downType = kCGEventLeftMouseDown; upType = kCGEventLeftMouseUp; break;
    }
    for (int i = 0; i < count; i++) {
        CGEventRef down = make_mouse_event(downType, x, y, button);
        CGEventRef up = make_mouse_event(upType, x, y, button);
        if (!down || !up) {
            if (down) CFRelease(down);
            if (up) CFRelease(up);
            return -1;
        }
        CGEventSetIntegerValueField(down, kCGMouseEventClickState, i + 1);
        CGEventSetIntegerValueField(up, kCGMouseEventClickState, i + 1);
        CGEventPost(kCGHIDEventTap, down);
        CGEventPost(kCGHIDEventTap, up);
        CFRelease(down);
        CFRelease(up);
    }
    return 0;
}

static int cg_move_mouse(float x, float y) {
    CGEventRef move = make_mouse_event(kCGEventMouseMoved, x, y, 0);
    if (!move) return -1;
    CGEventPost(kCGHIDEventTap, move);
    CFRelease(move);
    return 0;
}

static void cg_type_char(UniChar ch) {
    CGEventRef keyDown = CGEventCreateKeyboardEvent(NULL, 0, true);
    CGEventRef keyUp = CGEventCreateKeyboardEvent(NULL, 0, false);
    CGEventKeyboardSetUnicodeString(keyDown, 1, &ch);
    CGEventKeyboardSetUnicodeString(keyUp, 1, &ch);
    CGEventPost(kCGHIDEventTap, keyDown);
    CGEventPost(kCGHIDEventTap, keyUp);
    CFRelease(keyDown);
    CFRelease(keyUp);
}

static int cg_key_down(CGKeyCode keyCode, CGEventFlags modifiers) {
    CGEventRef ev = CGEventCreateKeyboardEvent(NULL, keyCode, true);
    if (!ev) return -1;
    CGEventSetFlags(ev, modifiers);
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}

static int cg_key_up(CGKeyCode keyCode, CGEventFlags modifiers) {
    CGEventRef ev = CGEventCreateKeyboardEvent(NULL, keyCode, false);
    if (!ev) return -1;
    CGEventSetFlags(ev, modifiers);
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}

static void cg_key_combo(CGKeyCode keyCode, CGEventFlags modifiers) {
    cg_key_down(keyCode, modifiers);
    cg_key_up(keyCode, modifiers);
}

// dy: vertical scroll (positive = up, negative = down)
// dx: horizontal scroll (positive = left, negative = right)
static int cg_scroll(int dy, int dx) {
    CGEventRef scroll = CGEventCreateScrollWheelEvent(NULL, kCGScrollEventUnitLine, 2, dy, dx);
    if (!scroll) return -1;
    CGEventPost(kCGHIDEventTap, scroll);
    CFRelease(scroll);
    return 0;
}

// Drag from (fromX,fromY) to (toX,toY), interpolating intermediate dragged
// events over duration_ms so the receiving app sees a real gesture instead
// of a single teleporting jump.
static int cg_drag(float fromX, float fromY, float toX, float toY, int button, int duration_ms) {
    CGEventType dragType = kCGEventLeftMouseDragged;
    if (button == 1) dragType = kCGEventRightMouseDragged;
    if (button == 2) dragType = kCGEventOtherMouseDragged;

    CGEventRef move = make_mouse_event(kCGEventMouseMoved, fromX, fromY, button);
    if (!move) return -1;
    CGEventPost(kCGHIDEventTap, move);
    CFRelease(move);
    usleep(10000);

    if (cg_mouse_down(fromX, fromY, button) != 0) return -1;

    int steps = 20;
    if (duration_ms <= 0) duration_ms = 100;
    int delay_per_step = (duration_ms * 1000) / steps;

    for (int i = 1; i <= steps; i++) {
        float t = (float)i / (float)steps;
        float x = fromX + (toX - fromX) * t;
        float y = fromY + (toY - fromY) * t;
        CGEventRef drag = make_mouse_event(dragType, x, y, button);
        if (!drag) {
            cg_mouse_up(x, y, button);
            return -1;
        }
        CGEventPost(kCGHIDEventTap, drag);
        CFRelease(drag);
        usleep(delay_per_step);
    }

    return cg_mouse_up(toX, toY, button);
}
*/
import "C"

import (
	"fmt"
	"strings"
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

// Inputter implements platform.InputDispatcher for macOS by posting
// trusted CGEvents at the HID event tap.
type Inputter struct{}

// NewInputter creates a new macOS input dispatcher.
func NewInputter() *Inputter {
	return &Inputter{}
}

func cButtonOf(button platform.MouseButton) C.int {
	switch button {
	case platform.MouseRight:
		return 1
	case platform.MouseMiddle:
		return 2
	default:
		return 0
	}
}

func (inp *Inputter) Click(at element.Point, button platform.MouseButton, count int) error {
	if count < 1 {
		count = 1
	}
	if C.cg_click(C.float(at.X), C.float(at.Y), cButtonOf(button), C.int(count)) != 0 {
		return &element.EventCreationFailedError{Kind: "mouse click"}
	}
	return nil
}

func (inp *Inputter) MouseDown(at element.Point, button platform.MouseButton) error {
	if C.cg_mouse_down(C.float(at.X), C.float(at.Y), cButtonOf(button)) != 0 {
		return &element.EventCreationFailedError{Kind: "mouse down"}
	}
	return nil
}

func (inp *Inputter) MouseUp(at element.Point, button platform.MouseButton) error {
	if C.cg_mouse_up(C.float(at.X), C.float(at.Y), cButtonOf(button)) != 0 {
		return &element.EventCreationFailedError{Kind: "mouse up"}
	}
	return nil
}

func (inp *Inputter) MoveMouse(to element.Point) error {
	if C.cg_move_mouse(C.float(to.X), C.float(to.Y)) != 0 {
		return &element.EventCreationFailedError{Kind: "mouse move"}
	}
	return nil
}

func (inp *Inputter) Scroll(at element.Point, dx, dy float64) error {
	if at.X != 0 || at.Y != 0 {
		if C.cg_move_mouse(C.float(at.X), C.float(at.Y)) != 0 {
			return &element.EventCreationFailedError{Kind: "mouse move for scroll"}
		}
		time.Sleep(10 * time.Millisecond)
	}
	if C.cg_scroll(C.int(dy), C.int(dx)) != 0 {
		return &element.EventCreationFailedError{Kind: "scroll wheel"}
	}
	return nil
}

func (inp *Inputter) Drag(from, to element.Point, button platform.MouseButton) error {
	rc := C.cg_drag(C.float(from.X), C.float(from.Y), C.float(to.X), C.float(to.Y), cButtonOf(button), C.int(100))
	if rc != 0 {
		return &element.EventCreationFailedError{Kind: "drag"}
	}
	return nil
}

func (inp *Inputter) PostDragEvent(at element.Point, button platform.MouseButton) error {
	if C.cg_drag_event(C.float(at.X), C.float(at.Y), cButtonOf(button)) != 0 {
		return &element.EventCreationFailedError{Kind: "drag event"}
	}
	return nil
}

func (inp *Inputter) TypeText(text string, delayMs int) error {
	for _, ch := range text {
		if ch > 0xFFFF {
			return &element.UnmappableCharacterError{Rune: ch}
		}
		C.cg_type_char(C.UniChar(ch))
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}
	}
	return nil
}

func (inp *Inputter) KeyDown(keyCode uint16, mods platform.ModifierSet) error {
	if C.cg_key_down(C.CGKeyCode(keyCode), cgFlagsOf(mods)) != 0 {
		return &element.InvalidKeyCodeError{KeyCode: keyCode}
	}
	return nil
}

func (inp *Inputter) KeyUp(keyCode uint16, mods platform.ModifierSet) error {
	if C.cg_key_up(C.CGKeyCode(keyCode), cgFlagsOf(mods)) != 0 {
		return &element.InvalidKeyCodeError{KeyCode: keyCode}
	}
	return nil
}

func (inp *Inputter) KeyCombo(keys []string) error {
	keyCode, modifiers, err := parseKeyCombo(keys)
	if err != nil {
		return err
	}
	C.cg_key_combo(C.CGKeyCode(keyCode), C.CGEventFlags(modifiers))
	return nil
}

func cgFlagsOf(mods platform.ModifierSet) C.CGEventFlags {
	var flags uint64
	if mods.Has(platform.ModShift) {
		flags |= uint64(C.kCGEventFlagMaskShift)
	}
	if mods.Has(platform.ModControl) {
		flags |= uint64(C.kCGEventFlagMaskControl)
	}
	if mods.Has(platform.ModOption) {
		flags |= uint64(C.kCGEventFlagMaskAlternate)
	}
	if mods.Has(platform.ModCommand) {
		flags |= uint64(C.kCGEventFlagMaskCommand)
	}
	return C.CGEventFlags(flags)
}

// macOS virtual key codes from Carbon Events.h.
var keyCodeMap = map[string]uint16{
	"a": 0x00, "b": 0x0B, "c": 0x08, "d": 0x02, "e": 0x0E, "f": 0x03,
	"g": 0x05, "h": 0x04, "i": 0x22, "j": 0x26, "k": 0x28, "l": 0x25,
	"m": 0x2E, "n": 0x2D, "o": 0x1F, "p": 0x23, "q": 0x0C, "r": 0x0F,
	"s": 0x01, "t": 0x11, "u": 0x20, "v": 0x09, "w": 0x0D, "x": 0x07,
	"y": 0x10, "z": 0x06,
	"0": 0x1D, "1": 0x12, "2": 0x13, "3": 0x14, "4": 0x15,
	"5": 0x17, "6": 0x16, "7": 0x1A, "8": 0x1C, "9": 0x19,
	"return": 0x24, "enter": 0x24, "tab": 0x30, "space": 0x31,
	"delete": 0x33, "backspace": 0x33, "escape": 0x35, "esc": 0x35,
	"up": 0x7E, "down": 0x7D, "left": 0x7B, "right": 0x7C,
	"home": 0x73, "end": 0x77, "pageup": 0x74, "pagedown": 0x79,
	"f1": 0x7A, "f2": 0x78, "f3": 0x63, "f4": 0x76, "f5": 0x60,
	"f6": 0x61, "f7": 0x62, "f8": 0x64, "f9": 0x65, "f10": 0x6D,
	"f11": 0x67, "f12": 0x6F,
}

// macOS modifier key flags.
var modifierMap = map[string]uint64{
	"cmd": uint64(C.kCGEventFlagMaskCommand), "command": uint64(C.kCGEventFlagMaskCommand),
	"shift": uint64(C.kCGEventFlagMaskShift),
	"ctrl": uint64(C.kCGEventFlagMaskControl), "control": uint64(C.kCGEventFlagMaskControl),
	"alt": uint64(C.kCGEventFlagMaskAlternate), "opt": uint64(C.kCGEventFlagMaskAlternate), "option": uint64(C.kCGEventFlagMaskAlternate),
}

func parseKeyCombo(keys []string) (C.CGKeyCode, C.CGEventFlags, error) {
	var modifiers uint64
	var keyCode uint16
	found := false

	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if mod, ok := modifierMap[k]; ok {
			modifiers |= mod
		} else if code, ok := keyCodeMap[k]; ok {
			keyCode = code
			found = true
		} else {
			return 0, 0, fmt.Errorf("unknown key: %q", k)
		}
	}
	if !found {
		return 0, 0, fmt.Errorf("no key specified in combo, only modifiers")
	}
	return C.CGKeyCode(keyCode), C.CGEventFlags(modifiers), nil
}
