package cmd

import (
	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/spf13/cobra"
)

type ActionResult struct {
	OK     bool   `yaml:"ok"              json:"ok"`
	Action string `yaml:"action"          json:"action"`
	Ref    string `yaml:"ref,omitempty"   json:"ref,omitempty"`
	Name   string `yaml:"name"            json:"name"`
	State  string `yaml:"state,omitempty" json:"state,omitempty"`
}

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Perform an accessibility action on a UI element",
	Long: `Execute an accessibility action directly on a UI element, e.g.:
  press      - Press/activate the element (buttons, links, menu items)
  cancel     - Cancel the current operation
  pick       - Pick/select (dropdowns, menus)
  increment  - Increase value (sliders, steppers)
  decrement  - Decrease value (sliders, steppers)
  confirm    - Confirm a dialog or selection
  showMenu   - Show context menu for the element
  raise      - Bring element/window to front

Unlike 'click', this does NOT simulate mouse events — it calls the accessibility
action directly on the element, which works even for off-screen or occluded elements.`,
	RunE: runAction,
}

func init() {
	rootCmd.AddCommand(actionCmd)
	actionCmd.Flags().String("ref", "", "Element reference from a previous read/find")
	actionCmd.Flags().String("name", "AXPress", "Accessibility action to perform")
	actionCmd.Flags().String("app", "", "Scope the lookup to this application")
	addTextTargetingFlags(actionCmd, "text", "Find the element to act on by text instead of --ref")
	addPostReadFlags(actionCmd)
}

func runAction(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	ref, _ := cmd.Flags().GetString("ref")
	name, _ := cmd.Flags().GetString("name")
	app, _ := cmd.Flags().GetString("app")
	text, roles, exact := getTextTargetingFlags(cmd, "text")

	target, err := resolveTarget(a, ref, app, text, roles, exact)
	if err != nil {
		return err
	}
	resolvedAt := a.Now()

	if err := a.PerformNamedAction(target, name, action.PerformOptions{App: app, ResolvedAt: resolvedAt}); err != nil {
		return err
	}

	postRead, postReadDelay := getPostReadFlags(cmd)
	var state string
	if postRead {
		state = readPostActionState(a, app, postReadDelay)
	}

	return output.Print(ActionResult{OK: true, Action: "action", Ref: target.Ref, Name: name, State: state})
}
