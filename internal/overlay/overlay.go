// Package overlay draws bounding boxes and coordinate labels onto captured
// screenshots, and buffers a live trail of pointer positions posted by the
// action layer's humanized movement and drag paths for post-hoc annotation.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/deskauto/deskauto/internal/element"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabelMode controls what text is drawn on each annotated element.
type LabelMode int

const (
	// LabelCoords draws "(x,y)" screen-absolute center coordinates.
	LabelCoords LabelMode = iota
	// LabelRefs draws an element's stable reference string.
	LabelRefs
)

var (
	boxColor     = color.RGBA{R: 255, G: 0, B: 0, A: 100}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
	trailColor   = color.RGBA{R: 0, G: 200, B: 255, A: 220}
)

// Annotate draws bounding boxes and labels for elements onto img.
// windowBounds is the captured window's frame in screen points; element
// frames are screen-absolute and are converted to window-relative image
// pixels using the ratio of image dimensions to window dimensions, which
// automatically accounts for Retina scaling and the capture's own scale
// factor.
func Annotate(img image.Image, elements []element.Element, windowBounds element.Rect, mode LabelMode) image.Image {
	rgba := toRGBA(img)

	imgBounds := img.Bounds()
	imgW := float64(imgBounds.Dx())
	imgH := float64(imgBounds.Dy())

	scaleX, scaleY := 1.0, 1.0
	if windowBounds.Size.Width > 0 {
		scaleX = imgW / windowBounds.Size.Width
	}
	if windowBounds.Size.Height > 0 {
		scaleY = imgH / windowBounds.Size.Height
	}

	for _, el := range elements {
		drawElementBox(rgba, el, windowBounds.Position, scaleX, scaleY, mode)
	}

	return rgba
}

// AnnotateTrail draws a connected polyline of the given points onto img,
// converting from screen-absolute to window-relative image pixels the same
// way Annotate does.
func AnnotateTrail(img image.Image, points []element.Point, windowBounds element.Rect) image.Image {
	rgba := toRGBA(img)
	if len(points) < 2 {
		return rgba
	}

	imgBounds := img.Bounds()
	imgW := float64(imgBounds.Dx())
	imgH := float64(imgBounds.Dy())
	scaleX, scaleY := 1.0, 1.0
	if windowBounds.Size.Width > 0 {
		scaleX = imgW / windowBounds.Size.Width
	}
	if windowBounds.Size.Height > 0 {
		scaleY = imgH / windowBounds.Size.Height
	}

	toPixel := func(p element.Point) (int, int) {
		return int((p.X - windowBounds.Position.X) * scaleX), int((p.Y - windowBounds.Position.Y) * scaleY)
	}

	prevX, prevY := toPixel(points[0])
	for _, p := range points[1:] {
		x, y := toPixel(p)
		drawLine(rgba, prevX, prevY, x, y, trailColor)
		prevX, prevY = x, y
	}
	return rgba
}

func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

func drawElementBox(img *image.RGBA, el element.Element, origin element.Point, scaleX, scaleY float64, mode LabelMode) {
	b := el.Bounds()
	x := int((b.Position.X - origin.X) * scaleX)
	y := int((b.Position.Y - origin.Y) * scaleY)
	w := int(b.Size.Width * scaleX)
	h := int(b.Size.Height * scaleY)

	centerX := x + w/2
	centerY := y + h/2

	drawRectangle(img, x, y, x+w, y+h, boxColor)

	var label string
	switch mode {
	case LabelRefs:
		label = fmt.Sprintf("[%s]", shortRef(el.Ref))
	default:
		c := b.Center()
		label = fmt.Sprintf("(%.0f,%.0f)", c.X, c.Y)
	}
	drawTextWithOutline(img, label, centerX, centerY)
}

func shortRef(ref string) string {
	if len(ref) > 8 {
		return ref[:8]
	}
	return ref
}

func isWithinBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}
	if y2 > bounds.Max.Y {
		y2 = bounds.Max.Y
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x < x2; x++ {
		if isWithinBounds(bounds, x, y1) {
			img.Set(x, y1, c)
		}
		if isWithinBounds(bounds, x, y2-1) {
			img.Set(x, y2-1, c)
		}
	}
	for y := y1; y < y2; y++ {
		if isWithinBounds(bounds, x1, y) {
			img.Set(x1, y, c)
		}
		if isWithinBounds(bounds, x2-1, y) {
			img.Set(x2-1, y, c)
		}
	}
}

// drawLine draws a simple Bresenham line between two points.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		if isWithinBounds(bounds, x1, y1) {
			img.Set(x1, y1, c)
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func drawTextWithOutline(img *image.RGBA, text string, x, y int) {
	textWidth := len(text) * 7
	textHeight := 13
	offsetX := x - textWidth/2
	offsetY := y - textHeight/2

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(outlineColor),
				Face: basicfont.Face7x13,
				Dot:  fixed.P(offsetX+dx, offsetY+dy),
			}
			d.DrawString(text)
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(offsetX, offsetY),
	}
	d.DrawString(text)
}
