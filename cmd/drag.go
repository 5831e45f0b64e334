package cmd

import (
	"fmt"
	"time"

	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/deskauto/deskauto/internal/platform"
	"github.com/spf13/cobra"
)

type DragResult struct {
	OK     bool   `yaml:"ok"              json:"ok"`
	Action string `yaml:"action"          json:"action"`
	State  string `yaml:"state,omitempty" json:"state,omitempty"`
}

var dragCmd = &cobra.Command{
	Use:   "drag",
	Short: "Drag from one point to another",
	Long:  "Drag from one point or element to another, interpolating the path directly, linearly, or with a humanized movement curve.",
	RunE:  runDrag,
}

func init() {
	rootCmd.AddCommand(dragCmd)
	dragCmd.Flags().Int("from-x", 0, "Start X coordinate")
	dragCmd.Flags().Int("from-y", 0, "Start Y coordinate")
	dragCmd.Flags().Int("to-x", 0, "End X coordinate")
	dragCmd.Flags().Int("to-y", 0, "End Y coordinate")
	dragCmd.Flags().String("from-ref", "", "Start element reference (drag from its center)")
	dragCmd.Flags().String("to-ref", "", "End element reference (drag to its center)")
	dragCmd.Flags().String("app", "", "Scope the lookup to this application")
	dragCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
	dragCmd.Flags().String("method", "direct", "Interpolation method: direct, linear, humanized")
	dragCmd.Flags().Duration("duration", 300*time.Millisecond, "Duration for the linear method")
	addPostReadFlags(dragCmd)
}

func runDrag(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	app, _ := cmd.Flags().GetString("app")
	fromRef, _ := cmd.Flags().GetString("from-ref")
	toRef, _ := cmd.Flags().GetString("to-ref")
	buttonStr, _ := cmd.Flags().GetString("button")
	methodStr, _ := cmd.Flags().GetString("method")
	duration, _ := cmd.Flags().GetDuration("duration")

	from, err := resolveDragPoint(a, cmd, "from-x", "from-y", fromRef, app)
	if err != nil {
		return err
	}
	to, err := resolveDragPoint(a, cmd, "to-x", "to-y", toRef, app)
	if err != nil {
		return err
	}

	button, err := platform.ParseMouseButton(buttonStr)
	if err != nil {
		return err
	}
	method, err := parseDragMethod(methodStr)
	if err != nil {
		return err
	}

	if err := a.Drag(from, to, action.DragOptions{App: app, Button: button, Method: method, Duration: duration}); err != nil {
		return err
	}

	postRead, postReadDelay := getPostReadFlags(cmd)
	var state string
	if postRead {
		state = readPostActionState(a, app, postReadDelay)
	}
	return output.Print(DragResult{OK: true, Action: "drag", State: state})
}

func resolveDragPoint(a *action.Actions, cmd *cobra.Command, xFlag, yFlag, ref, app string) (element.Point, error) {
	if ref != "" {
		target, err := a.Resolve(ref, app)
		if err != nil {
			return element.Point{}, err
		}
		return target.Bounds().Center(), nil
	}
	x, _ := cmd.Flags().GetInt(xFlag)
	y, _ := cmd.Flags().GetInt(yFlag)
	return element.Point{X: float64(x), Y: float64(y)}, nil
}

func parseDragMethod(s string) (action.DragMethod, error) {
	switch s {
	case "", "direct":
		return action.DragDirect, nil
	case "linear":
		return action.DragLinear, nil
	case "humanized":
		return action.DragHumanized, nil
	default:
		return 0, fmt.Errorf("invalid drag method: %s (must be direct, linear, or humanized)", s)
	}
}
