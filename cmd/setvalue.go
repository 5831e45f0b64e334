package cmd

import (
	"fmt"

	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/spf13/cobra"
)

type SetValueResult struct {
	OK        bool   `yaml:"ok"                json:"ok"`
	Action    string `yaml:"action"            json:"action"`
	Ref       string `yaml:"ref,omitempty"     json:"ref,omitempty"`
	Value     string `yaml:"value"             json:"value"`
	Attribute string `yaml:"attribute"         json:"attribute"`
	State     string `yaml:"state,omitempty"   json:"state,omitempty"`
}

var setValueCmd = &cobra.Command{
	Use:   "set-value",
	Short: "Set the value of a UI element directly",
	Long: `Set an accessibility attribute value directly on a UI element, without simulating keystrokes or mouse events.

Common use cases:
  - Set text field contents instantly (faster than 'type' for long text)
  - Set slider positions to specific values
  - Set checkbox/toggle state without toggling

The --attribute flag controls which attribute to set:
  value     - Element value: text content, slider position, etc. (default)
  selected  - Selection state (true/false)
  focused   - Focus state (true/false)`,
	RunE: runSetValue,
}

func init() {
	rootCmd.AddCommand(setValueCmd)
	setValueCmd.Flags().String("ref", "", "Element reference from a previous read/find")
	setValueCmd.Flags().String("value", "", "Value to set (required)")
	setValueCmd.Flags().String("attribute", "value", "Attribute to set: value (default), selected, focused")
	setValueCmd.Flags().String("app", "", "Scope the lookup to this application")
	addTextTargetingFlags(setValueCmd, "text", "Find the element to set by text instead of --ref")
	addPostReadFlags(setValueCmd)
}

func runSetValue(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	ref, _ := cmd.Flags().GetString("ref")
	value, _ := cmd.Flags().GetString("value")
	attribute, _ := cmd.Flags().GetString("attribute")
	app, _ := cmd.Flags().GetString("app")
	text, roles, exact := getTextTargetingFlags(cmd, "text")

	if !cmd.Flags().Changed("value") {
		return fmt.Errorf("--value is required")
	}

	target, err := resolveTarget(a, ref, app, text, roles, exact)
	if err != nil {
		return err
	}
	resolvedAt := a.Now()

	if err := a.SetValue(target, value, action.SetValueOptions{App: app, Attribute: attribute, ResolvedAt: resolvedAt}); err != nil {
		return err
	}

	postRead, postReadDelay := getPostReadFlags(cmd)
	var state string
	if postRead {
		state = readPostActionState(a, app, postReadDelay)
	}

	return output.Print(SetValueResult{OK: true, Action: "set-value", Ref: target.Ref, Value: value, Attribute: attribute, State: state})
}
