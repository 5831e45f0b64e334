//go:build darwin && cgo

package darwin

import "github.com/deskauto/deskauto/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Accessibility:    NewAccessibility(),
			Workspace:        NewWorkspace(),
			Input:            NewInputter(),
			WindowManager:    NewWindowManager(),
			Screenshotter:    NewScreenshotter(),
			ClipboardManager: NewClipboard(),
			Permissions:      NewPermissions(),
		}, nil
	}
	platform.RequestPermissionsFunc = func() {
		NewPermissions().RequestScreenRecording()
	}
}
