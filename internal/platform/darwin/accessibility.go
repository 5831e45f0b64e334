//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreGraphics/CoreGraphics.h>
#include <stdlib.h>
#include <string.h>

// _AXUIElementGetWindow is an undocumented but long-stable private API that
// maps an AXUIElementRef window to the CGWindowID CGWindowListCopyWindowInfo
// reports, letting a --window-id flag resolve to the matching AX window
// without depending on title text.
extern AXError _AXUIElementGetWindow(AXUIElementRef element, CGWindowID *outWindow);

typedef struct {
    int id;
    int parentID;
    char *role;
    char *subrole;
    char *title;
    char *value;
    char *description;
    char *identifier;
    char *domIdentifier;
    char *domClassNames; // space-joined, split on the Go side
    double x, y, width, height;
    int focused;
    int enabled; // 0 = explicitly disabled, 1 = enabled/unknown
    int actionCount;
    char **actions;
} ax_element_info;

static char *ax_copy_cstring(CFStringRef s) {
    if (!s) return NULL;
    CFIndex len = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
    char *buf = malloc(len);
    if (!CFStringGetCString(s, buf, len, kCFStringEncodingUTF8)) {
        free(buf);
        return NULL;
    }
    return buf;
}

static char *ax_string_attr(AXUIElementRef el, CFStringRef attr) {
    CFTypeRef value = NULL;
    if (AXUIElementCopyAttributeValue(el, attr, &value) != kAXErrorSuccess || !value) {
        return NULL;
    }
    char *result = NULL;
    if (CFGetTypeID(value) == CFStringGetTypeID()) {
        result = ax_copy_cstring((CFStringRef)value);
    }
    CFRelease(value);
    return result;
}

static int ax_bool_attr(AXUIElementRef el, CFStringRef attr, int defaultValue) {
    CFTypeRef value = NULL;
    if (AXUIElementCopyAttributeValue(el, attr, &value) != kAXErrorSuccess || !value) {
        return defaultValue;
    }
    int result = defaultValue;
    if (CFGetTypeID(value) == CFBooleanGetTypeID()) {
        result = CFBooleanGetValue((CFBooleanRef)value) ? 1 : 0;
    }
    CFRelease(value);
    return result;
}

static CGRect ax_frame(AXUIElementRef el) {
    CGRect rect = CGRectZero;
    CFTypeRef posValue = NULL, sizeValue = NULL;
    CGPoint pos = CGPointZero;
    CGSize size = CGSizeZero;
    if (AXUIElementCopyAttributeValue(el, kAXPositionAttribute, &posValue) == kAXErrorSuccess && posValue) {
        AXValueGetValue((AXValueRef)posValue, kAXValueCGPointType, &pos);
        CFRelease(posValue);
    }
    if (AXUIElementCopyAttributeValue(el, kAXSizeAttribute, &sizeValue) == kAXErrorSuccess && sizeValue) {
        AXValueGetValue((AXValueRef)sizeValue, kAXValueCGSizeType, &size);
        CFRelease(sizeValue);
    }
    rect.origin = pos;
    rect.size = size;
    return rect;
}

typedef struct {
    ax_element_info *items;
    int count;
    int capacity;
} ax_element_buf;

static void ax_buf_push(ax_element_buf *buf, ax_element_info item) {
    if (buf->count == buf->capacity) {
        buf->capacity = buf->capacity == 0 ? 64 : buf->capacity * 2;
        buf->items = realloc(buf->items, sizeof(ax_element_info) * buf->capacity);
    }
    buf->items[buf->count++] = item;
}

// ax_describe reads every attribute ax_walk records for one element,
// independent of its position in any tree. ax_walk uses it as the per-node
// step of a recursive traversal; ax_hit_test and ax_focused_element use it
// to describe a single element reached by a non-traversal AX entry point.
static ax_element_info ax_describe(AXUIElementRef el, int myID, int parentID) {
    char *role = ax_string_attr(el, kAXRoleAttribute);
    char *subrole = ax_string_attr(el, kAXSubroleAttribute);
    char *title = ax_string_attr(el, kAXTitleAttribute);
    char *value = ax_string_attr(el, kAXValueAttribute);
    char *description = ax_string_attr(el, kAXDescriptionAttribute);
    char *identifier = ax_string_attr(el, kAXIdentifierAttribute);
    char *domID = ax_string_attr(el, (CFStringRef)CFSTR("AXDOMIdentifier"));
    char *domClasses = ax_string_attr(el, (CFStringRef)CFSTR("AXDOMClassList"));

    CGRect frame = ax_frame(el);
    int focused = ax_bool_attr(el, kAXFocusedAttribute, 0);
    int enabled = ax_bool_attr(el, kAXEnabledAttribute, 1);

    CFArrayRef actionNames = NULL;
    int actionCount = 0;
    char **actions = NULL;
    if (AXUIElementCopyActionNames(el, &actionNames) == kAXErrorSuccess && actionNames) {
        actionCount = (int)CFArrayGetCount(actionNames);
        if (actionCount > 0) {
            actions = malloc(sizeof(char *) * actionCount);
            for (int i = 0; i < actionCount; i++) {
                actions[i] = ax_copy_cstring((CFStringRef)CFArrayGetValueAtIndex(actionNames, i));
            }
        }
        CFRelease(actionNames);
    }

    ax_element_info info = {
        .id = myID,
        .parentID = parentID,
        .role = role,
        .subrole = subrole,
        .title = title,
        .value = value,
        .description = description,
        .identifier = identifier,
        .domIdentifier = domID,
        .domClassNames = domClasses,
        .x = frame.origin.x, .y = frame.origin.y,
        .width = frame.size.width, .height = frame.size.height,
        .focused = focused,
        .enabled = enabled,
        .actionCount = actionCount,
        .actions = actions,
    };
    return info;
}

static void ax_walk(AXUIElementRef el, int parentID, int depth, int maxDepth, ax_element_buf *buf) {
    int myID = buf->count;
    ax_buf_push(buf, ax_describe(el, myID, parentID));

    if (maxDepth > 0 && depth >= maxDepth) {
        return;
    }

    CFTypeRef childrenValue = NULL;
    if (AXUIElementCopyAttributeValue(el, kAXChildrenAttribute, &childrenValue) == kAXErrorSuccess && childrenValue) {
        if (CFGetTypeID(childrenValue) == CFArrayGetTypeID()) {
            CFArrayRef children = (CFArrayRef)childrenValue;
            CFIndex n = CFArrayGetCount(children);
            for (CFIndex i = 0; i < n; i++) {
                ax_walk((AXUIElementRef)CFArrayGetValueAtIndex(children, i), myID, depth + 1, maxDepth, buf);
            }
        }
        CFRelease(childrenValue);
    }
}

// Finds the AXUIElementRef window matching windowTitle (substring,
// case-insensitive) or windowID among pid's AXWindows, or the first window
// if neither is given. Returns NULL if pid has no matching window.
static AXUIElementRef ax_find_window(AXUIElementRef app, const char *windowTitle, int windowID) {
    CFTypeRef windowsValue = NULL;
    if (AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, &windowsValue) != kAXErrorSuccess || !windowsValue) {
        return NULL;
    }
    if (CFGetTypeID(windowsValue) != CFArrayGetTypeID()) {
        CFRelease(windowsValue);
        return NULL;
    }
    CFArrayRef windows = (CFArrayRef)windowsValue;
    CFIndex n = CFArrayGetCount(windows);
    AXUIElementRef match = NULL;

    for (CFIndex i = 0; i < n; i++) {
        AXUIElementRef win = (AXUIElementRef)CFArrayGetValueAtIndex(windows, i);
        if (windowID > 0) {
            CGWindowID wid = 0;
            if (_AXUIElementGetWindow(win, &wid) == kAXErrorSuccess && (int)wid == windowID) {
                match = win;
                break;
            }
            continue;
        }
        if (windowTitle && windowTitle[0] != '\0') {
            char *title = ax_string_attr(win, kAXTitleAttribute);
            int found = title && strcasestr(title, windowTitle) != NULL;
            if (title) free(title);
            if (found) {
                match = win;
                break;
            }
            continue;
        }
        match = win;
        break;
    }

    if (match) CFRetain(match);
    CFRelease(windowsValue);
    return match;
}

static int ax_read_elements(pid_t pid, const char *windowTitle, int windowID, int maxDepth,
                             ax_element_info **outElements, int *outCount) {
    AXUIElementRef app = AXUIElementCreateApplication(pid);
    if (!app) return -1;

    AXUIElementRef window = ax_find_window(app, windowTitle, windowID);
    if (!window) {
        CFRelease(app);
        return -2;
    }

    ax_element_buf buf = {0};
    ax_walk(window, -1, 0, maxDepth, &buf);

    CFRelease(window);
    CFRelease(app);

    *outElements = buf.items;
    *outCount = buf.count;
    return 0;
}

static void ax_free_elements(ax_element_info *elements, int count) {
    for (int i = 0; i < count; i++) {
        ax_element_info *e = &elements[i];
        if (e->role) free(e->role);
        if (e->subrole) free(e->subrole);
        if (e->title) free(e->title);
        if (e->value) free(e->value);
        if (e->description) free(e->description);
        if (e->identifier) free(e->identifier);
        if (e->domIdentifier) free(e->domIdentifier);
        if (e->domClassNames) free(e->domClassNames);
        for (int j = 0; j < e->actionCount; j++) {
            if (e->actions[j]) free(e->actions[j]);
        }
        if (e->actions) free(e->actions);
    }
    free(elements);
}

static void ax_free_single(ax_element_info *e) {
    if (e->role) free(e->role);
    if (e->subrole) free(e->subrole);
    if (e->title) free(e->title);
    if (e->value) free(e->value);
    if (e->description) free(e->description);
    if (e->identifier) free(e->identifier);
    if (e->domIdentifier) free(e->domIdentifier);
    if (e->domClassNames) free(e->domClassNames);
    for (int j = 0; j < e->actionCount; j++) {
        if (e->actions[j]) free(e->actions[j]);
    }
    if (e->actions) free(e->actions);
}

// ax_hit_test describes the element the system-wide accessibility root
// reports under screen point (x, y), the entry point behind elementAtPosition.
static int ax_hit_test(double x, double y, ax_element_info *outInfo) {
    AXUIElementRef systemWide = AXUIElementCreateSystemWide();
    if (!systemWide) return -1;
    AXUIElementRef el = NULL;
    AXError err = AXUIElementCopyElementAtPosition(systemWide, (float)x, (float)y, &el);
    CFRelease(systemWide);
    if (err != kAXErrorSuccess || !el) return -1;
    *outInfo = ax_describe(el, 0, -1);
    CFRelease(el);
    return 0;
}

// ax_focused_element describes the element the system-wide accessibility
// root reports as currently focused, regardless of which application owns
// it. Returns -1 if nothing is focused or the lookup fails.
static int ax_focused_element(ax_element_info *outInfo) {
    AXUIElementRef systemWide = AXUIElementCreateSystemWide();
    if (!systemWide) return -1;
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue(systemWide, kAXFocusedUIElementAttribute, &value);
    CFRelease(systemWide);
    if (err != kAXErrorSuccess || !value) return -1;
    AXUIElementRef el = (AXUIElementRef)value;
    *outInfo = ax_describe(el, 0, -1);
    CFRelease(el);
    return 0;
}

// ax_find_by_id re-walks the same DFS order ax_walk uses and returns a
// retained reference to the node at position targetID, or NULL.
static AXUIElementRef ax_find_by_id(AXUIElementRef el, int *counter, int targetID) {
    int myID = (*counter)++;
    if (myID == targetID) {
        CFRetain(el);
        return el;
    }

    AXUIElementRef found = NULL;
    CFTypeRef childrenValue = NULL;
    if (AXUIElementCopyAttributeValue(el, kAXChildrenAttribute, &childrenValue) == kAXErrorSuccess && childrenValue) {
        if (CFGetTypeID(childrenValue) == CFArrayGetTypeID()) {
            CFArrayRef children = (CFArrayRef)childrenValue;
            CFIndex n = CFArrayGetCount(children);
            for (CFIndex i = 0; i < n && !found; i++) {
                found = ax_find_by_id((AXUIElementRef)CFArrayGetValueAtIndex(children, i), counter, targetID);
            }
        }
        CFRelease(childrenValue);
    }
    return found;
}

static AXUIElementRef ax_resolve_live(pid_t pid, const char *windowTitle, int windowID, int targetID) {
    AXUIElementRef app = AXUIElementCreateApplication(pid);
    if (!app) return NULL;
    AXUIElementRef window = ax_find_window(app, windowTitle, windowID);
    if (!window) {
        CFRelease(app);
        return NULL;
    }
    int counter = 0;
    AXUIElementRef target = ax_find_by_id(window, &counter, targetID);
    CFRelease(window);
    CFRelease(app);
    return target;
}

static int ax_perform_action_live(pid_t pid, const char *windowTitle, int windowID, int targetID, const char *action) {
    AXUIElementRef target = ax_resolve_live(pid, windowTitle, windowID, targetID);
    if (!target) return -3;

    CFStringRef act = CFStringCreateWithCString(NULL, action, kCFStringEncodingUTF8);
    AXError err = AXUIElementPerformAction(target, act);
    CFRelease(act);
    CFRelease(target);
    return err == kAXErrorSuccess ? 0 : -4;
}

static int ax_set_attribute_live(pid_t pid, const char *windowTitle, int windowID, int targetID,
                                  const char *attribute, const char *value) {
    AXUIElementRef target = ax_resolve_live(pid, windowTitle, windowID, targetID);
    if (!target) return -3;

    CFStringRef attr = CFStringCreateWithCString(NULL, attribute, kCFStringEncodingUTF8);
    CFStringRef val = CFStringCreateWithCString(NULL, value, kCFStringEncodingUTF8);
    AXError err = AXUIElementSetAttributeValue(target, attr, val);
    CFRelease(attr);
    CFRelease(val);
    CFRelease(target);
    return err == kAXErrorSuccess ? 0 : -1;
}
*/
import "C"

import (
	"strings"
	"unsafe"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

// Accessibility implements platform.AccessibilityProvider and is the sole
// source of platform.Node values: one bulk AXUIElement tree walk per call,
// done entirely on the C side, materialized into a flat Go slice. The
// walker in internal/engine operates purely on that slice afterward —
// Node.Children is a local index lookup, never a fresh accessibility call.
type Accessibility struct{}

// NewAccessibility creates a new macOS accessibility provider.
func NewAccessibility() *Accessibility {
	return &Accessibility{}
}

// axHandle identifies a node by its position in one bulk walk, so an
// action can re-resolve it with a second walk rather than holding a raw
// AXUIElementRef alive across the call boundary.
type axHandle struct {
	pid         int
	windowTitle string
	windowID    int
	elementID   int
}

func (h axHandle) Identity() uintptr {
	return uintptr(h.pid)<<40 ^ uintptr(h.windowID)<<20 ^ uintptr(h.elementID)
}

// axNode is one entry of a bulk walk, implementing platform.Node by
// indexing back into the shared flat slice for Children.
type axNode struct {
	tree  *axTree
	index int
}

// axTree is the flat, already-walked result of one bulk AXUIElement
// traversal, shared by every axNode it produced.
type axTree struct {
	pid         int
	windowTitle string
	windowID    int
	entries     []axEntry
	childrenOf  map[int][]int
}

type axEntry struct {
	role, subrole, title, value, description, identifier string
	domIdentifier                                         string
	domClassList                                          []string
	bounds                                                element.Rect
	focused, enabled                                      bool
	actions                                                []string
}

func (n axNode) Handle() element.Handle {
	return axHandle{pid: n.tree.pid, windowTitle: n.tree.windowTitle, windowID: n.tree.windowID, elementID: n.index}
}
func (n axNode) Role() string            { return n.tree.entries[n.index].role }
func (n axNode) Subrole() string         { return n.tree.entries[n.index].subrole }
func (n axNode) Title() string           { return n.tree.entries[n.index].title }
func (n axNode) Description() string     { return n.tree.entries[n.index].description }
func (n axNode) Value() string           { return n.tree.entries[n.index].value }
func (n axNode) Bounds() element.Rect    { return n.tree.entries[n.index].bounds }
func (n axNode) Identifier() string      { return n.tree.entries[n.index].identifier }
func (n axNode) DOMIdentifier() string   { return n.tree.entries[n.index].domIdentifier }
func (n axNode) DOMClassList() []string  { return n.tree.entries[n.index].domClassList }
func (n axNode) Focused() bool           { return n.tree.entries[n.index].focused }
func (n axNode) Actions() []string       { return n.tree.entries[n.index].actions }

func (n axNode) Enabled() *bool {
	e := n.tree.entries[n.index].enabled
	return &e
}

func (n axNode) Children() ([]platform.Node, error) {
	childIdx := n.tree.childrenOf[n.index]
	out := make([]platform.Node, len(childIdx))
	for i, ci := range childIdx {
		out[i] = axNode{tree: n.tree, index: ci}
	}
	return out, nil
}

// RootNodes performs one bulk walk of scope's window and returns its root
// node as the single element of the result slice (an accessibility window
// has exactly one content root; multi-window scopes are not supported by a
// single RootNodes call — callers loop ListWindows first).
func (a *Accessibility) RootNodes(scope platform.Scope) ([]platform.Node, error) {
	if err := CheckAccessibilityPermission(); err != nil {
		return nil, err
	}
	pid, windowTitle, windowID := resolvePIDAndWindow(scope)
	if pid == 0 {
		return nil, &element.WindowNotFoundError{Detail: "no target specified: app, window, window id, or pid required"}
	}

	tree, err := bulkWalk(pid, windowTitle, windowID, 0)
	if err != nil {
		return nil, err
	}
	if len(tree.entries) == 0 {
		return nil, nil
	}
	return []platform.Node{axNode{tree: tree, index: 0}}, nil
}

func bulkWalk(pid int, windowTitle string, windowID, maxDepth int) (*axTree, error) {
	var cElements *C.ax_element_info
	var cCount C.int
	cWindowTitle := (*C.char)(nil)
	if windowTitle != "" {
		cWindowTitle = C.CString(windowTitle)
		defer C.free(unsafe.Pointer(cWindowTitle))
	}

	rc := C.ax_read_elements(C.pid_t(pid), cWindowTitle, C.int(windowID), C.int(maxDepth), &cElements, &cCount)
	if rc != 0 {
		return nil, &element.ReadFailedError{Attribute: "window"}
	}
	defer C.ax_free_elements(cElements, cCount)

	count := int(cCount)
	tree := &axTree{pid: pid, windowTitle: windowTitle, windowID: windowID, entries: make([]axEntry, count), childrenOf: make(map[int][]int, count)}
	if count == 0 {
		return tree, nil
	}
	cSlice := unsafe.Slice(cElements, count)

	for i := 0; i < count; i++ {
		ce := cSlice[i]
		tree.entries[i] = convertEntry(ce)
		parentID := int(ce.parentID)
		if parentID >= 0 {
			tree.childrenOf[parentID] = append(tree.childrenOf[parentID], i)
		}
	}
	return tree, nil
}

// convertEntry copies one C-side ax_element_info into its Go axEntry form.
// It only reads, never frees, cSlice memory — the caller owns that via
// ax_free_elements or ax_free_single.
func convertEntry(ce C.ax_element_info) axEntry {
	var actions []string
	if ce.actionCount > 0 {
		cActions := unsafe.Slice(ce.actions, int(ce.actionCount))
		for j := 0; j < int(ce.actionCount); j++ {
			actions = append(actions, C.GoString(cActions[j]))
		}
	}
	var domClasses []string
	if raw := C.GoString(ce.domClassNames); raw != "" {
		domClasses = strings.Fields(raw)
	}

	return axEntry{
		role:          element.NormalizeRole(C.GoString(ce.role)),
		subrole:       C.GoString(ce.subrole),
		title:         C.GoString(ce.title),
		value:         C.GoString(ce.value),
		description:   C.GoString(ce.description),
		identifier:    C.GoString(ce.identifier),
		domIdentifier: C.GoString(ce.domIdentifier),
		domClassList:  domClasses,
		bounds: element.Rect{
			Position: element.Point{X: float64(ce.x), Y: float64(ce.y)},
			Size:     element.Size{Width: float64(ce.width), Height: float64(ce.height)},
		},
		focused: ce.focused != 0,
		enabled: ce.enabled != 0,
		actions: actions,
	}
}

// singleNodeTree wraps one described element (reached via a non-traversal
// AX entry point, not a bulk walk) so it can satisfy platform.Node the same
// way a bulk-walked node does. It reports no children: a hit test or
// focused-element lookup describes one node, not a subtree.
func singleNodeTree(tag string, info C.ax_element_info) platform.Node {
	tree := &axTree{pid: 0, windowTitle: tag, windowID: 0, entries: []axEntry{convertEntry(info)}, childrenOf: map[int][]int{}}
	return axNode{tree: tree, index: 0}
}

// ElementAtPosition performs a system-wide accessibility hit test at the
// given screen point, the OS entry point behind C1's elementAtPosition.
func (a *Accessibility) ElementAtPosition(at element.Point) (platform.Node, error) {
	if err := CheckAccessibilityPermission(); err != nil {
		return nil, err
	}
	var info C.ax_element_info
	rc := C.ax_hit_test(C.double(at.X), C.double(at.Y), &info)
	if rc != 0 {
		return nil, nil
	}
	defer C.ax_free_single(&info)
	return singleNodeTree("hit-test", info), nil
}

// FocusedElement returns the element the system-wide accessibility root
// reports as focused, regardless of which application owns it.
func (a *Accessibility) FocusedElement() (platform.Node, error) {
	if err := CheckAccessibilityPermission(); err != nil {
		return nil, err
	}
	var info C.ax_element_info
	rc := C.ax_focused_element(&info)
	if rc != 0 {
		return nil, nil
	}
	defer C.ax_free_single(&info)
	return singleNodeTree("focused", info), nil
}

// PerformAction re-walks scope (the handle's originating window) and runs
// action on the node at the handle's recorded position. A second walk is
// used instead of holding AXUIElementRef alive across the call boundary,
// matching how a fresh accessibility read is already the unit of truth
// elsewhere in this package.
func (a *Accessibility) PerformAction(handle element.Handle, action string) error {
	h, ok := handle.(axHandle)
	if !ok {
		return &element.InvariantError{Detail: "handle did not originate from the darwin accessibility provider"}
	}
	if err := CheckAccessibilityPermission(); err != nil {
		return err
	}

	cAction := C.CString(action)
	defer C.free(unsafe.Pointer(cAction))
	cWindowTitle := (*C.char)(nil)
	if h.windowTitle != "" {
		cWindowTitle = C.CString(h.windowTitle)
		defer C.free(unsafe.Pointer(cWindowTitle))
	}

	rc := C.ax_perform_action_live(C.pid_t(h.pid), cWindowTitle, C.int(h.windowID), C.int(h.elementID), cAction)
	if rc != 0 {
		return &element.ActionFailedError{Name: action, OSCode: int(rc)}
	}
	return nil
}

// SetAttribute re-walks scope and writes value to attribute on the node at
// the handle's recorded position.
func (a *Accessibility) SetAttribute(handle element.Handle, attribute, value string) error {
	h, ok := handle.(axHandle)
	if !ok {
		return &element.InvariantError{Detail: "handle did not originate from the darwin accessibility provider"}
	}
	if err := CheckAccessibilityPermission(); err != nil {
		return err
	}

	cAttribute := C.CString(attribute)
	defer C.free(unsafe.Pointer(cAttribute))
	cValue := C.CString(value)
	defer C.free(unsafe.Pointer(cValue))
	cWindowTitle := (*C.char)(nil)
	if h.windowTitle != "" {
		cWindowTitle = C.CString(h.windowTitle)
		defer C.free(unsafe.Pointer(cWindowTitle))
	}

	rc := C.ax_set_attribute_live(C.pid_t(h.pid), cWindowTitle, C.int(h.windowID), C.int(h.elementID), cAttribute, cValue)
	if rc != 0 {
		return &element.ReadFailedError{Attribute: attribute}
	}
	return nil
}
