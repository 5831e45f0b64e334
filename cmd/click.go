package cmd

import (
	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/deskauto/deskauto/internal/platform"
	"github.com/spf13/cobra"
)

// ClickResult is the output of a successful click command.
type ClickResult struct {
	OK     bool   `yaml:"ok"              json:"ok"`
	Action string `yaml:"action"          json:"action"`
	Ref    string `yaml:"ref,omitempty"   json:"ref,omitempty"`
	State  string `yaml:"state,omitempty" json:"state,omitempty"`
}

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click on an element",
	Long:  "Click a UI element identified by a stable --ref (from a previous read/find) or by --text, scrolling it into view first if needed.",
	RunE:  runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	clickCmd.Flags().String("ref", "", "Element reference from a previous read/find")
	clickCmd.Flags().String("app", "", "Scope the lookup to this application")
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
	clickCmd.Flags().Int("count", 1, "Click count (2 for double-click)")
	clickCmd.Flags().Bool("no-humanize", false, "Warp the pointer directly instead of a humanized movement path")
	clickCmd.Flags().Bool("no-auto-scroll", false, "Don't scroll the element into view before clicking")
	addTextTargetingFlags(clickCmd, "text", "Find the element to click by text instead of --ref")
	addPostReadFlags(clickCmd)
}

func runClick(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	ref, _ := cmd.Flags().GetString("ref")
	app, _ := cmd.Flags().GetString("app")
	buttonStr, _ := cmd.Flags().GetString("button")
	count, _ := cmd.Flags().GetInt("count")
	noHumanize, _ := cmd.Flags().GetBool("no-humanize")
	noAutoScroll, _ := cmd.Flags().GetBool("no-auto-scroll")
	text, roles, exact := getTextTargetingFlags(cmd, "text")

	button, err := platform.ParseMouseButton(buttonStr)
	if err != nil {
		return err
	}

	target, err := resolveTarget(a, ref, app, text, roles, exact)
	if err != nil {
		return err
	}
	resolvedAt := a.Now()

	err = a.Click(target, action.ClickOptions{
		App:          app,
		Button:       button,
		Count:        count,
		Humanized:    !noHumanize,
		NoAutoScroll: noAutoScroll,
		ResolvedAt:   resolvedAt,
	})
	if err != nil {
		return err
	}

	postRead, postReadDelay := getPostReadFlags(cmd)
	var state string
	if postRead {
		state = readPostActionState(a, app, postReadDelay)
	}

	return output.Print(ClickResult{OK: true, Action: "click", Ref: target.Ref, State: state})
}
