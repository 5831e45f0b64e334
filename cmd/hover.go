package cmd

import (
	"fmt"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/spf13/cobra"
)

type HoverResult struct {
	OK     bool    `yaml:"ok"              json:"ok"`
	Action string  `yaml:"action"          json:"action"`
	X      float64 `yaml:"x"               json:"x"`
	Y      float64 `yaml:"y"               json:"y"`
	Ref    string  `yaml:"ref,omitempty"   json:"ref,omitempty"`
	State  string  `yaml:"state,omitempty" json:"state,omitempty"`
}

var hoverCmd = &cobra.Command{
	Use:   "hover",
	Short: "Move the mouse cursor to an element or coordinates without clicking",
	Long:  "Move the mouse to a UI element by --ref, --text, or absolute coordinates without clicking. Useful for triggering hover-dependent UI like tooltips and flyout menus.",
	RunE:  runHover,
}

func init() {
	rootCmd.AddCommand(hoverCmd)
	hoverCmd.Flags().String("ref", "", "Hover over this element reference")
	hoverCmd.Flags().Int("x", 0, "Hover at absolute X screen coordinate")
	hoverCmd.Flags().Int("y", 0, "Hover at absolute Y screen coordinate")
	hoverCmd.Flags().String("app", "", "Scope the lookup to this application")
	addTextTargetingFlags(hoverCmd, "text", "Find the element to hover over by text instead of --ref")
	addPostReadFlags(hoverCmd)
}

func runHover(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	ref, _ := cmd.Flags().GetString("ref")
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	app, _ := cmd.Flags().GetString("app")
	text, roles, exact := getTextTargetingFlags(cmd, "text")

	hasCoords := cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
	hasRef := ref != ""
	hasText := text != ""

	var point element.Point
	var resolvedRef string

	switch {
	case hasRef || hasText:
		target, err := resolveTarget(a, ref, app, text, roles, exact)
		if err != nil {
			return err
		}
		point = target.Bounds().Center()
		resolvedRef = target.Ref
	case hasCoords:
		point = element.Point{X: float64(x), Y: float64(y)}
	default:
		return fmt.Errorf("specify --ref, --text, or --x/--y coordinates")
	}

	if err := a.Input.MoveMouse(point); err != nil {
		return err
	}

	postRead, postReadDelay := getPostReadFlags(cmd)
	var state string
	if postRead {
		state = readPostActionState(a, app, postReadDelay)
	}

	return output.Print(HoverResult{OK: true, Action: "hover", X: point.X, Y: point.Y, Ref: resolvedRef, State: state})
}
