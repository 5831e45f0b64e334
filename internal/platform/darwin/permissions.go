//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreGraphics -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreGraphics/CoreGraphics.h>

static int is_trusted() {
    return AXIsProcessTrusted();
}

static int request_screen_recording() {
    return CGRequestScreenCaptureAccess() ? 1 : 0;
}
*/
import "C"

import "github.com/deskauto/deskauto/internal/element"

// Permissions implements platform.Permissions for macOS.
type Permissions struct{}

// NewPermissions creates a new macOS permissions checker.
func NewPermissions() *Permissions {
	return &Permissions{}
}

// CheckAccessibilityPermission checks if the process has macOS accessibility
// permission. Returns an error with instructions if permission is not
// granted.
func CheckAccessibilityPermission() error {
	if C.is_trusted() == 0 {
		return &element.PermissionError{
			Which: "accessibility",
			Hint:  "System Settings > Privacy & Security > Accessibility",
		}
	}
	return nil
}

// IsAccessibilityTrusted returns true if the process has accessibility permission.
func IsAccessibilityTrusted() bool {
	return C.is_trusted() != 0
}

func (p *Permissions) CheckAccessibility() error {
	return CheckAccessibilityPermission()
}

func (p *Permissions) IsAccessibilityTrusted() bool {
	return IsAccessibilityTrusted()
}

// RequestScreenRecording triggers the OS screen-recording permission
// prompt, if it has not already been granted or denied.
func (p *Permissions) RequestScreenRecording() {
	C.request_screen_recording()
}
