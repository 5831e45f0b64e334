package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/overlay"
	"github.com/deskauto/deskauto/internal/platform"
	"github.com/spf13/cobra"
)

var screenshotCoordsCmd = &cobra.Command{
	Use:   "screenshot-coords",
	Short: "Capture a screenshot with coordinate labels on UI elements",
	Long:  "Capture a screenshot and annotate it with bounding boxes and coordinate labels for UI elements, making it easy to see where clickable/interactive elements are located.",
	RunE:  runScreenshotCoords,
}

func init() {
	rootCmd.AddCommand(screenshotCoordsCmd)

	screenshotCoordsCmd.Flags().String("app", "", "Capture this app's frontmost window")
	screenshotCoordsCmd.Flags().String("window", "", "Capture window by title substring")
	screenshotCoordsCmd.Flags().Int("window-id", 0, "Capture window by system ID")
	screenshotCoordsCmd.Flags().Int("pid", 0, "Capture the frontmost window of this PID")
	screenshotCoordsCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	screenshotCoordsCmd.Flags().String("format", "png", "Output format: png, jpg")
	screenshotCoordsCmd.Flags().Int("quality", 80, "JPEG quality 1-100")
	screenshotCoordsCmd.Flags().Float64("scale", 0.5, "Scale factor 0.1-1.0 (for token efficiency)")

	screenshotCoordsCmd.Flags().String("role", "", "Filter to a single role (default: all elements)")
	screenshotCoordsCmd.Flags().Int("depth", 0, "Max depth to traverse (0 = unlimited)")
	screenshotCoordsCmd.Flags().String("text", "", "Filter elements by text content")
	screenshotCoordsCmd.Flags().Bool("labels", true, "Not read: boxes are always labeled, with coordinates unless --refs is set")
	screenshotCoordsCmd.Flags().Bool("refs", false, "Label boxes with their stable reference instead of coordinates")
	screenshotCoordsCmd.Flags().Bool("trail", false, "Overlay the pointer trail accumulated since process start")
}

func runScreenshotCoords(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}
	if a.Screenshotter == nil {
		return fmt.Errorf("screenshot not supported on this platform")
	}

	appName, _ := cmd.Flags().GetString("app")
	window, _ := cmd.Flags().GetString("window")
	windowID, _ := cmd.Flags().GetInt("window-id")
	pid, _ := cmd.Flags().GetInt("pid")
	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	quality, _ := cmd.Flags().GetInt("quality")
	scale, _ := cmd.Flags().GetFloat64("scale")

	role, _ := cmd.Flags().GetString("role")
	depth, _ := cmd.Flags().GetInt("depth")
	text, _ := cmd.Flags().GetString("text")
	useRefs, _ := cmd.Flags().GetBool("refs")

	windows, err := a.Workspace.ListWindows(platform.ListOptions{App: appName, PID: pid})
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}
	if len(windows) == 0 {
		return fmt.Errorf("no windows available")
	}

	targetWindow, err := pickWindow(windows, windowID, window)
	if err != nil {
		return err
	}
	appName, pid, windowID = targetWindow.App, targetWindow.PID, targetWindow.ID

	result, err := a.Find(element.ElementQuery{Application: appName, Role: role, Text: text, FuzzyMatch: true, MaxDepth: depth})
	if err != nil {
		return err
	}

	screenshotOpts := platform.ScreenshotOptions{
		Scope:   platform.Scope{App: appName, WindowID: windowID, PID: pid},
		Format:  format,
		Quality: quality,
		Scale:   scale,
	}
	imageData, err := a.Screenshotter.CaptureWindow(screenshotOpts)
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}

	img, err := decodeImage(imageData, format)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	mode := overlay.LabelCoords
	if useRefs {
		mode = overlay.LabelRefs
	}
	annotated := overlay.Annotate(img, result.Elements, targetWindow.Bounds, mode)

	if drawTrail, _ := cmd.Flags().GetBool("trail"); drawTrail {
		if points := pointerTrail.Drain(); len(points) > 0 {
			annotated = overlay.AnnotateTrail(annotated, points, targetWindow.Bounds)
		}
	}

	outputData, err := encodeImage(annotated, format, quality)
	if err != nil {
		return fmt.Errorf("failed to encode annotated image: %w", err)
	}

	if outputPath != "" {
		return os.WriteFile(outputPath, outputData, 0644)
	}

	encoder := base64.NewEncoder(base64.StdEncoding, os.Stdout)
	if _, err := encoder.Write(outputData); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

func pickWindow(windows []element.Window, windowID int, titleSubstring string) (element.Window, error) {
	if windowID != 0 {
		for _, w := range windows {
			if w.ID == windowID {
				return w, nil
			}
		}
		return element.Window{}, fmt.Errorf("window ID %d not found", windowID)
	}
	if titleSubstring != "" {
		for _, w := range windows {
			if strings.Contains(strings.ToLower(w.Title), strings.ToLower(titleSubstring)) {
				return w, nil
			}
		}
		return element.Window{}, fmt.Errorf("no window found matching title %q", titleSubstring)
	}
	return windows[0], nil
}

func decodeImage(data []byte, format string) (image.Image, error) {
	if format == "jpg" || format == "jpeg" {
		return jpeg.Decode(bytes.NewReader(data))
	}
	return png.Decode(bytes.NewReader(data))
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	buf := &bytes.Buffer{}
	var err error
	if format == "jpg" || format == "jpeg" {
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: quality})
	} else {
		err = png.Encode(buf, img)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
