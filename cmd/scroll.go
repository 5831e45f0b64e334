package cmd

import (
	"fmt"

	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/spf13/cobra"
)

type ScrollResult struct {
	OK     bool   `yaml:"ok"              json:"ok"`
	Action string `yaml:"action"          json:"action"`
	Ref    string `yaml:"ref,omitempty"   json:"ref,omitempty"`
	State  string `yaml:"state,omitempty" json:"state,omitempty"`
}

var scrollCmd = &cobra.Command{
	Use:   "scroll",
	Short: "Scroll within a window or element",
	Long:  "Scroll at a point, at an element's scroll container, or scroll a named element fully into view with --into-view.",
	RunE:  runScroll,
}

func init() {
	rootCmd.AddCommand(scrollCmd)
	scrollCmd.Flags().String("direction", "down", "Scroll direction: up, down, left, right")
	scrollCmd.Flags().Int("amount", 3, "Number of scroll clicks")
	scrollCmd.Flags().Int("x", 0, "Scroll at a specific screen X coordinate")
	scrollCmd.Flags().Int("y", 0, "Scroll at a specific screen Y coordinate")
	scrollCmd.Flags().String("ref", "", "Scroll within this element's scroll container")
	scrollCmd.Flags().String("app", "", "Scope the lookup to this application")
	scrollCmd.Flags().Bool("into-view", false, "Scroll the target element fully into view instead of a single wheel tick")
	addTextTargetingFlags(scrollCmd, "text", "Find the element to scroll by text instead of --ref")
	addPostReadFlags(scrollCmd)
}

func runScroll(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	direction, _ := cmd.Flags().GetString("direction")
	amount, _ := cmd.Flags().GetInt("amount")
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	ref, _ := cmd.Flags().GetString("ref")
	app, _ := cmd.Flags().GetString("app")
	intoView, _ := cmd.Flags().GetBool("into-view")
	text, roles, exact := getTextTargetingFlags(cmd, "text")

	hasPoint := cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
	hasRef := ref != ""
	hasText := text != ""

	if intoView {
		if !hasRef && !hasText {
			return fmt.Errorf("--into-view requires --ref or --text")
		}
		target, err := resolveTarget(a, ref, app, text, roles, exact)
		if err != nil {
			return err
		}
		resolvedAt := a.Now()
		if _, err := a.ScrollToElement(target, action.ScrollToElementOptions{App: app, ResolvedAt: resolvedAt}); err != nil {
			return err
		}
		postRead, postReadDelay := getPostReadFlags(cmd)
		var state string
		if postRead {
			state = readPostActionState(a, app, postReadDelay)
		}
		return output.Print(ScrollResult{OK: true, Action: "scroll_into_view", Ref: target.Ref, State: state})
	}

	dx, dy := directionDelta(direction, amount)

	var scrollTarget action.ScrollTarget
	switch {
	case hasPoint:
		p := element.Point{X: float64(x), Y: float64(y)}
		scrollTarget = action.ScrollTarget{Point: &p}
	case hasRef || hasText:
		target, err := resolveTarget(a, ref, app, text, roles, exact)
		if err != nil {
			return err
		}
		scrollTarget = action.ScrollTarget{Element: &target, App: app, ResolvedAt: a.Now()}
	default:
		return fmt.Errorf("specify --x/--y, --ref, or --text to locate the scroll point")
	}

	if err := a.ScrollHere(scrollTarget, action.ScrollHereOptions{DX: dx, DY: dy}); err != nil {
		return err
	}

	postRead, postReadDelay := getPostReadFlags(cmd)
	var state string
	if postRead {
		state = readPostActionState(a, app, postReadDelay)
	}
	return output.Print(ScrollResult{OK: true, Action: "scroll", Ref: ref, State: state})
}

func directionDelta(direction string, amount int) (dx, dy float64) {
	switch direction {
	case "up":
		return 0, float64(amount)
	case "down":
		return 0, -float64(amount)
	case "left":
		return float64(amount), 0
	case "right":
		return -float64(amount), 0
	default:
		return 0, -float64(amount)
	}
}
