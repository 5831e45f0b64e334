//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit -framework ApplicationServices -framework CoreFoundation -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <AppKit/AppKit.h>
#include <stdlib.h>
#include <string.h>

extern AXError _AXUIElementGetWindow(AXUIElementRef element, CGWindowID *outWindow);

static char *wm_copy_cstring(CFStringRef s) {
    if (!s) return NULL;
    CFIndex len = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
    char *buf = malloc(len);
    if (!CFStringGetCString(s, buf, len, kCFStringEncodingUTF8)) { free(buf); return NULL; }
    return buf;
}

static int ax_raise_window(pid_t pid, const char *windowTitle, int windowID) {
    AXUIElementRef app = AXUIElementCreateApplication(pid);
    if (!app) return -1;

    CFTypeRef windowsValue = NULL;
    if (AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, &windowsValue) != kAXErrorSuccess || !windowsValue) {
        CFRelease(app);
        return -2;
    }
    if (CFGetTypeID(windowsValue) != CFArrayGetTypeID()) {
        CFRelease(windowsValue);
        CFRelease(app);
        return -2;
    }

    CFArrayRef windows = (CFArrayRef)windowsValue;
    CFIndex n = CFArrayGetCount(windows);
    int rc = -3;

    for (CFIndex i = 0; i < n; i++) {
        AXUIElementRef win = (AXUIElementRef)CFArrayGetValueAtIndex(windows, i);
        int matched = 0;
        if (windowID > 0) {
            CGWindowID wid = 0;
            matched = (_AXUIElementGetWindow(win, &wid) == kAXErrorSuccess && (int)wid == windowID);
        } else if (windowTitle && windowTitle[0] != '\0') {
            char *title = NULL;
            CFTypeRef titleValue = NULL;
            if (AXUIElementCopyAttributeValue(win, kAXTitleAttribute, &titleValue) == kAXErrorSuccess && titleValue) {
                title = wm_copy_cstring((CFStringRef)titleValue);
                CFRelease(titleValue);
            }
            matched = title && strcasestr(title, windowTitle) != NULL;
            if (title) free(title);
        } else {
            matched = 1;
        }
        if (matched) {
            AXUIElementSetAttributeValue(win, kAXMainAttribute, kCFBooleanTrue);
            AXUIElementPerformAction(win, kAXRaiseAction);
            rc = 0;
            break;
        }
    }

    CFRelease(windowsValue);
    CFRelease(app);
    return rc;
}

static int ns_activate_app(pid_t pid) {
    NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid];
    if (!app) return -1;
    BOOL ok = [app activateWithOptions:NSApplicationActivateIgnoringOtherApps];
    return ok ? 0 : -2;
}
*/
import "C"

import (
	"unsafe"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

// WindowManager implements platform.WindowManager for macOS: raising a
// specific window via the accessibility API, or activating an application
// wholesale via NSRunningApplication.
type WindowManager struct{}

// NewWindowManager creates a new macOS window manager.
func NewWindowManager() *WindowManager {
	return &WindowManager{}
}

func (wm *WindowManager) FocusWindow(opts platform.FocusOptions) error {
	if err := CheckAccessibilityPermission(); err != nil {
		return err
	}

	pid, windowTitle, windowID := resolvePIDAndWindow(opts.Scope)
	if pid == 0 {
		return &element.WindowNotFoundError{Detail: "no target specified: app, window, window id, or pid required"}
	}

	if windowTitle != "" || windowID > 0 {
		var cTitle *C.char
		if windowTitle != "" {
			cTitle = C.CString(windowTitle)
			defer C.free(unsafe.Pointer(cTitle))
		}
		if C.ax_raise_window(C.pid_t(pid), cTitle, C.int(windowID)) != 0 {
			return &element.WindowNotFoundError{Detail: "failed to raise matching window"}
		}
		return nil
	}

	if C.ns_activate_app(C.pid_t(pid)) != 0 {
		return &element.AppNotRunningError{Name: opts.App}
	}
	return nil
}

func (wm *WindowManager) GetFrontmostApp() (string, int, error) {
	return frontmostAppNameAndPID()
}
