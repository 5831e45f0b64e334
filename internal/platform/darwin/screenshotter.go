//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ImageIO -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>
#include <ImageIO/ImageIO.h>
#include <stdlib.h>

typedef struct {
    unsigned char *data;
    int length;
} cg_screenshot_result;

static int cg_check_screen_recording() {
    return CGPreflightScreenCaptureAccess() ? 1 : 0;
}

static int cg_encode_image(CGImageRef image, int format, int quality, cg_screenshot_result *out) {
    if (!image) return -1;

    CFMutableDataRef data = CFDataCreateMutable(NULL, 0);
    CFStringRef type = format == 1 ? (CFStringRef)@"public.jpeg" : (CFStringRef)@"public.png";

    CGImageDestinationRef dest = CGImageDestinationCreateWithData(data, type, 1, NULL);
    if (!dest) {
        CFRelease(data);
        return -2;
    }

    CFMutableDictionaryRef props = CFDictionaryCreateMutable(NULL, 1, &kCFTypeDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
    if (format == 1) {
        float q = quality / 100.0f;
        CFNumberRef qNum = CFNumberCreate(NULL, kCFNumberFloatType, &q);
        CFDictionarySetValue(props, kCGImageDestinationLossyCompressionQuality, qNum);
        CFRelease(qNum);
    }

    CGImageDestinationAddImage(dest, image, props);
    CFRelease(props);

    int rc = CGImageDestinationFinalize(dest) ? 0 : -3;
    CFRelease(dest);

    if (rc == 0) {
        CFIndex len = CFDataGetLength(data);
        out->data = malloc(len);
        CFDataGetBytes(data, CFRangeMake(0, len), out->data);
        out->length = (int)len;
    }
    CFRelease(data);
    return rc;
}

static CGImageRef cg_scaled(CGImageRef src, float scale) {
    if (scale >= 0.999f || !src) return src;
    size_t w = (size_t)(CGImageGetWidth(src) * scale);
    size_t h = (size_t)(CGImageGetHeight(src) * scale);
    if (w == 0 || h == 0) return src;

    CGColorSpaceRef colorSpace = CGColorSpaceCreateDeviceRGB();
    CGContextRef ctx = CGBitmapContextCreate(NULL, w, h, 8, 0, colorSpace, kCGImageAlphaPremultipliedLast);
    CGColorSpaceRelease(colorSpace);
    if (!ctx) return src;

    CGContextDrawImage(ctx, CGRectMake(0, 0, w, h), src);
    CGImageRef scaled = CGBitmapContextCreateImage(ctx);
    CGContextRelease(ctx);
    return scaled ? scaled : src;
}

static int cg_capture_window(int windowID, int format, int quality, float scale, cg_screenshot_result *out) {
    CGImageRef image = CGWindowListCreateImage(CGRectNull, kCGWindowListOptionIncludingWindow,
                                                (CGWindowID)windowID, kCGWindowImageBoundsIgnoreFraming);
    if (!image) return -1;
    CGImageRef scaled = cg_scaled(image, scale);
    int rc = cg_encode_image(scaled, format, quality, out);
    if (scaled != image) CGImageRelease(scaled);
    CGImageRelease(image);
    return rc;
}

static int cg_capture_screen(int format, int quality, float scale, cg_screenshot_result *out) {
    CGImageRef image = CGWindowListCreateImage(CGRectInfinite, kCGWindowListOptionOnScreenOnly,
                                                kCGNullWindowID, kCGWindowImageDefault);
    if (!image) return -1;
    CGImageRef scaled = cg_scaled(image, scale);
    int rc = cg_encode_image(scaled, format, quality, out);
    if (scaled != image) CGImageRelease(scaled);
    CGImageRelease(image);
    return rc;
}

static void cg_free_screenshot(cg_screenshot_result *r) {
    if (r->data) free(r->data);
}

static int cg_display_bounds_for_window(int windowID, double *outWidth, double *outHeight) {
    CGRect bounds = CGDisplayBounds(CGMainDisplayID());
    *outWidth = bounds.size.width;
    *outHeight = bounds.size.height;
    return 0;
}
*/
import "C"

import (
	"strings"
	"unsafe"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

// CheckScreenRecordingPermission checks the macOS screen recording grant.
func CheckScreenRecordingPermission() error {
	if C.cg_check_screen_recording() == 0 {
		return &element.PermissionError{
			Which: "screen recording",
			Hint:  "System Settings > Privacy & Security > Screen Recording",
		}
	}
	return nil
}

// Screenshotter implements platform.Screenshotter for macOS using
// CGWindowListCreateImage and ImageIO.
type Screenshotter struct {
	workspace *Workspace
}

// NewScreenshotter creates a new macOS screenshotter.
func NewScreenshotter() *Screenshotter {
	return &Screenshotter{workspace: NewWorkspace()}
}

func (s *Screenshotter) CaptureWindow(opts platform.ScreenshotOptions) ([]byte, error) {
	if err := CheckScreenRecordingPermission(); err != nil {
		return nil, err
	}

	windowID := opts.WindowID
	if windowID == 0 && (opts.App != "" || opts.WindowTitle != "" || opts.PID != 0) {
		var err error
		windowID, err = s.resolveWindowID(opts.Scope)
		if err != nil {
			return nil, err
		}
	}

	scale := opts.Scale
	if scale <= 0 || scale > 1.0 {
		scale = 0.5
	}
	format := 0
	if opts.Format == "jpg" || opts.Format == "jpeg" {
		format = 1
	}
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	var result C.cg_screenshot_result
	var rc C.int
	if windowID != 0 {
		rc = C.cg_capture_window(C.int(windowID), C.int(format), C.int(quality), C.float(scale), &result)
	} else {
		rc = C.cg_capture_screen(C.int(format), C.int(quality), C.float(scale), &result)
	}
	if rc != 0 {
		return nil, &element.CaptureFailedError{Reason: "screen recording denied or window not found"}
	}
	defer C.cg_free_screenshot(&result)

	return C.GoBytes(unsafe.Pointer(result.data), C.int(result.length)), nil
}

func (s *Screenshotter) DisplayMetrics(scope platform.Scope) (element.DisplayMetrics, error) {
	var width, height C.double
	C.cg_display_bounds_for_window(C.int(scope.WindowID), &width, &height)
	return element.DisplayMetrics{Width: float64(width), Height: float64(height)}, nil
}

func (s *Screenshotter) resolveWindowID(scope platform.Scope) (int, error) {
	windows, err := s.workspace.ListWindows(platform.ListOptions{App: scope.App, PID: scope.PID})
	if err != nil {
		return 0, err
	}
	if len(windows) == 0 {
		return 0, &element.WindowNotFoundError{Detail: "no windows match the given scope"}
	}
	if scope.WindowTitle != "" {
		for _, win := range windows {
			if strings.Contains(strings.ToLower(win.Title), strings.ToLower(scope.WindowTitle)) {
				return win.ID, nil
			}
		}
		return 0, &element.WindowNotFoundError{Detail: "no window title matches " + scope.WindowTitle}
	}
	return windows[0].ID, nil
}
