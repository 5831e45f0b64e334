package action

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"time"

	"github.com/disintegration/imaging"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

// CaptureOptions tunes a single Capture call.
type CaptureOptions struct {
	App        string
	Format     string // "png" or "jpg"; defaults to "png"
	Quality    int    // jpeg quality 1-100
	ResolvedAt time.Time
}

// Capture implements §4.7's Capture: reject zero-size elements, delegate
// to the screenshotter for the owning window, then crop to the element's
// own frame so the caller gets pixels for just that element rather than
// the whole window.
func (a *Actions) Capture(target element.Element, opts CaptureOptions) ([]byte, error) {
	target, err := a.refresh(target, opts.App, opts.ResolvedAt)
	if err != nil {
		return nil, err
	}
	if target.ZeroSize() {
		return nil, &element.NotVisibleError{Label: target.Title}
	}

	format := opts.Format
	if format == "" {
		format = "png"
	}
	windowBytes, err := a.Screenshotter.CaptureWindow(platform.ScreenshotOptions{
		Scope:   platform.Scope{App: opts.App},
		Format:  format,
		Quality: opts.Quality,
		Scale:   1.0,
	})
	if err != nil {
		return nil, err
	}

	origin := a.windowOrigin(opts.App)
	cropped, err := cropToElement(windowBytes, target, origin)
	if err != nil {
		// Capture still succeeds with the full window when the crop
		// region can't be resolved against the returned image (e.g. a
		// scale mismatch between what the screenshotter reported and the
		// element's own display-space frame).
		return windowBytes, nil
	}
	return encode(cropped, format, opts.Quality)
}

// windowOrigin returns the top-left of app's frontmost window in screen
// space, so cropToElement can translate target's screen-space frame into
// the captured image's window-relative pixel space. The zero Point (no
// translation) is returned on any lookup failure.
func (a *Actions) windowOrigin(app string) element.Point {
	windows, err := a.Workspace.ListWindows(platform.ListOptions{App: app})
	if err != nil || len(windows) == 0 {
		return element.Point{}
	}
	return windows[0].Bounds.Position
}

// cropToElement decodes raw, translates target's screen-space frame into
// the image's own window-relative coordinates by subtracting origin,
// intersects with the decoded image bounds, and crops to that rectangle
// via github.com/disintegration/imaging.
func cropToElement(raw []byte, target element.Element, origin element.Point) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	frame := element.Rect{
		Position: element.Point{X: 0, Y: 0},
		Size:     element.Size{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())},
	}
	local := element.Rect{
		Position: element.Point{X: target.Position.X - origin.X, Y: target.Position.Y - origin.Y},
		Size:     target.Size,
	}
	region, ok := local.Intersect(frame)
	if !ok {
		return nil, &element.CaptureFailedError{Reason: "element frame does not overlap captured image"}
	}
	rect := image.Rect(
		int(region.Position.X), int(region.Position.Y),
		int(region.Position.X+region.Size.Width), int(region.Position.Y+region.Size.Height),
	)
	return imaging.Crop(img, rect), nil
}

func encode(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if format == "jpg" || format == "jpeg" {
		if quality <= 0 || quality > 100 {
			quality = 80
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
