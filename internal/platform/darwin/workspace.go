//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework AppKit -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <AppKit/AppKit.h>
#include <stdlib.h>

typedef struct {
    char *appName;
    char *title;
    pid_t pid;
    int windowID;
    int layer;
    double x, y, width, height;
} cg_window_info;

static char *cg_copy_cstring(CFStringRef s) {
    if (!s) return NULL;
    CFIndex len = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
    char *buf = malloc(len);
    if (!CFStringGetCString(s, buf, len, kCFStringEncodingUTF8)) {
        free(buf);
        return NULL;
    }
    return buf;
}

static int cg_list_windows(cg_window_info **outWindows, int *outCount) {
    CFArrayRef windowList = CGWindowListCopyWindowInfo(
        kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements, kCGNullWindowID);
    if (!windowList) return -1;

    CFIndex n = CFArrayGetCount(windowList);
    cg_window_info *out = malloc(sizeof(cg_window_info) * (n > 0 ? n : 1));
    int count = 0;

    for (CFIndex i = 0; i < n; i++) {
        CFDictionaryRef w = (CFDictionaryRef)CFArrayGetValueAtIndex(windowList, i);

        CFNumberRef layerNum = CFDictionaryGetValue(w, kCGWindowLayer);
        int layer = 0;
        if (layerNum) CFNumberGetValue(layerNum, kCFNumberIntType, &layer);

        CFStringRef appName = CFDictionaryGetValue(w, kCGWindowOwnerName);
        CFStringRef title = CFDictionaryGetValue(w, kCGWindowName);
        CFNumberRef pidNum = CFDictionaryGetValue(w, kCGWindowOwnerPID);
        CFNumberRef widNum = CFDictionaryGetValue(w, kCGWindowNumber);
        CFDictionaryRef bounds = CFDictionaryGetValue(w, kCGWindowBounds);

        pid_t pid = 0;
        if (pidNum) CFNumberGetValue(pidNum, kCFNumberIntType, &pid);
        int windowID = 0;
        if (widNum) CFNumberGetValue(widNum, kCFNumberIntType, &windowID);

        double x = 0, y = 0, width = 0, height = 0;
        if (bounds) {
            CGRect rect;
            CGRectMakeWithDictionaryRepresentation(bounds, &rect);
            x = rect.origin.x; y = rect.origin.y; width = rect.size.width; height = rect.size.height;
        }

        out[count++] = (cg_window_info){
            .appName = cg_copy_cstring(appName),
            .title = cg_copy_cstring(title),
            .pid = pid,
            .windowID = windowID,
            .layer = layer,
            .x = x, .y = y, .width = width, .height = height,
        };
    }

    CFRelease(windowList);
    *outWindows = out;
    *outCount = count;
    return 0;
}

static void cg_free_windows(cg_window_info *windows, int count) {
    for (int i = 0; i < count; i++) {
        if (windows[i].appName) free(windows[i].appName);
        if (windows[i].title) free(windows[i].title);
    }
    free(windows);
}

static pid_t cg_get_frontmost_pid() {
    NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
    return app ? app.processIdentifier : 0;
}

static int ns_get_frontmost_app(char **outName, pid_t *outPid) {
    NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
    if (!app) return -1;
    *outName = cg_copy_cstring((CFStringRef)app.localizedName);
    *outPid = app.processIdentifier;
    return 0;
}

typedef struct {
    char *name;
    char *bundleID;
    pid_t pid;
    int regularActivationPolicy;
    int frontmost;
    int hidden;
} ns_app_info;

static int ns_list_applications(ns_app_info **outApps, int *outCount) {
    NSArray<NSRunningApplication *> *apps = [[NSWorkspace sharedWorkspace] runningApplications];
    NSRunningApplication *front = [[NSWorkspace sharedWorkspace] frontmostApplication];

    NSUInteger n = apps.count;
    ns_app_info *out = malloc(sizeof(ns_app_info) * (n > 0 ? n : 1));
    int count = 0;
    for (NSRunningApplication *app in apps) {
        out[count++] = (ns_app_info){
            .name = cg_copy_cstring((CFStringRef)app.localizedName),
            .bundleID = cg_copy_cstring((CFStringRef)app.bundleIdentifier),
            .pid = app.processIdentifier,
            .regularActivationPolicy = app.activationPolicy == NSApplicationActivationPolicyRegular ? 1 : 0,
            .frontmost = (front && app.processIdentifier == front.processIdentifier) ? 1 : 0,
            .hidden = app.hidden ? 1 : 0,
        };
    }
    *outApps = out;
    *outCount = count;
    return 0;
}

static void ns_free_applications(ns_app_info *apps, int count) {
    for (int i = 0; i < count; i++) {
        if (apps[i].name) free(apps[i].name);
        if (apps[i].bundleID) free(apps[i].bundleID);
    }
    free(apps);
}
*/
import "C"

import (
	"sort"
	"strings"
	"unsafe"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

// Workspace implements platform.Workspace for macOS using
// CGWindowListCopyWindowInfo for windows and NSWorkspace for applications.
type Workspace struct{}

// NewWorkspace creates a new macOS workspace enumerator.
func NewWorkspace() *Workspace {
	return &Workspace{}
}

// ListWindows returns on-screen, layer-0 windows, optionally filtered by
// PID or application name, focused-first then alphabetical.
func (w *Workspace) ListWindows(opts platform.ListOptions) ([]element.Window, error) {
	var cWindows *C.cg_window_info
	var cCount C.int
	if C.cg_list_windows(&cWindows, &cCount) != 0 {
		return nil, &element.ReadFailedError{Attribute: "window list"}
	}
	defer C.cg_free_windows(cWindows, cCount)

	count := int(cCount)
	if count == 0 {
		return nil, nil
	}
	cSlice := unsafe.Slice(cWindows, count)
	frontPID := int(C.cg_get_frontmost_pid())
	frontmostAssigned := false

	var windows []element.Window
	for i := 0; i < count; i++ {
		cw := cSlice[i]
		if int(cw.layer) != 0 {
			continue
		}
		appName := C.GoString(cw.appName)
		pid := int(cw.pid)
		if opts.PID != 0 && pid != opts.PID {
			continue
		}
		if opts.App != "" && !strings.EqualFold(appName, opts.App) {
			continue
		}

		focused := false
		if pid == frontPID && !frontmostAssigned {
			focused = true
			frontmostAssigned = true
		}

		windows = append(windows, element.Window{
			App:   appName,
			PID:   pid,
			Title: C.GoString(cw.title),
			ID:    int(cw.windowID),
			Bounds: element.Rect{
				Position: element.Point{X: float64(cw.x), Y: float64(cw.y)},
				Size:     element.Size{Width: float64(cw.width), Height: float64(cw.height)},
			},
			Focused: focused,
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Focused != windows[j].Focused {
			return windows[i].Focused
		}
		return strings.ToLower(windows[i].App) < strings.ToLower(windows[j].App)
	})
	return windows, nil
}

// ListApplications enumerates running applications via NSWorkspace.
func (w *Workspace) ListApplications() ([]element.Application, error) {
	var cApps *C.ns_app_info
	var cCount C.int
	if C.ns_list_applications(&cApps, &cCount) != 0 {
		return nil, &element.ReadFailedError{Attribute: "application list"}
	}
	defer C.ns_free_applications(cApps, cCount)

	count := int(cCount)
	apps := make([]element.Application, 0, count)
	if count == 0 {
		return apps, nil
	}
	cSlice := unsafe.Slice(cApps, count)
	for i := 0; i < count; i++ {
		ca := cSlice[i]
		apps = append(apps, element.Application{
			PID:                      int(ca.pid),
			Name:                     C.GoString(ca.name),
			BundleIdentifier:         C.GoString(ca.bundleID),
			RegularActivationPolicy: ca.regularActivationPolicy != 0,
			Frontmost:                ca.frontmost != 0,
			Hidden:                   ca.hidden != 0,
		})
	}
	return apps, nil
}

// frontmostAppNameAndPID is shared with WindowManager.GetFrontmostApp so
// that Go code outside this file never calls a cgo symbol defined in
// another file's preamble (those have internal C linkage per-file).
func frontmostAppNameAndPID() (string, int, error) {
	var cName *C.char
	var cPid C.pid_t
	if C.ns_get_frontmost_app(&cName, &cPid) != 0 {
		return "", 0, &element.AppNotRunningError{Name: "<frontmost>"}
	}
	defer C.free(unsafe.Pointer(cName))
	return strings.TrimSpace(C.GoString(cName)), int(cPid), nil
}

// FrontmostApplication returns the application currently in the foreground.
func (w *Workspace) FrontmostApplication() (element.Application, error) {
	apps, err := w.ListApplications()
	if err != nil {
		return element.Application{}, err
	}
	for _, a := range apps {
		if a.Frontmost {
			return a, nil
		}
	}
	return element.Application{}, &element.AppNotRunningError{Name: "<frontmost>"}
}

// resolvePIDAndWindow resolves a Scope to a concrete PID, window title
// filter, and window ID, trying PID, then App, then WindowID, then
// WindowTitle. It returns a zero PID when none of them resolves; there is
// no frontmost-application fallback.
func resolvePIDAndWindow(scope platform.Scope) (pid int, windowTitle string, windowID int) {
	ws := NewWorkspace()

	if scope.PID != 0 {
		return scope.PID, scope.WindowTitle, scope.WindowID
	}
	if scope.App != "" {
		windows, err := ws.ListWindows(platform.ListOptions{App: scope.App})
		if err != nil || len(windows) == 0 {
			return 0, "", 0
		}
		if scope.WindowTitle != "" {
			for _, win := range windows {
				if strings.Contains(strings.ToLower(win.Title), strings.ToLower(scope.WindowTitle)) {
					return win.PID, "", win.ID
				}
			}
		}
		return windows[0].PID, scope.WindowTitle, scope.WindowID
	}
	if scope.WindowID != 0 {
		windows, err := ws.ListWindows(platform.ListOptions{})
		if err != nil {
			return 0, "", 0
		}
		for _, win := range windows {
			if win.ID == scope.WindowID {
				return win.PID, "", win.ID
			}
		}
	}
	if scope.WindowTitle != "" {
		windows, err := ws.ListWindows(platform.ListOptions{})
		if err != nil {
			return 0, "", 0
		}
		for _, win := range windows {
			if strings.Contains(strings.ToLower(win.Title), strings.ToLower(scope.WindowTitle)) {
				return win.PID, "", win.ID
			}
		}
	}
	return 0, "", 0
}
