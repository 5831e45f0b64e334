package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/output"
)

// AssertResult is the YAML output of an assert command.
type AssertResult struct {
	OK      bool             `yaml:"ok"                json:"ok"`
	Action  string           `yaml:"action"            json:"action"`
	Pass    bool             `yaml:"pass"              json:"pass"`
	Error   string           `yaml:"error,omitempty"   json:"error,omitempty"`
	Element *element.Element `yaml:"element,omitempty" json:"element,omitempty"`
}

var assertCmd = &cobra.Command{
	Use:   "assert",
	Short: "Assert a UI condition is met",
	Long: `Check that a UI element exists with expected properties.

Returns pass/fail with structured output and exit code 0 (pass) or 1 (fail).
Optionally polls with --timeout for conditions that take time to appear.`,
	RunE: runAssert,
}

func init() {
	rootCmd.AddCommand(assertCmd)
	assertCmd.Flags().String("app", "", "Scope to application")
	assertCmd.Flags().String("ref", "", "Find element by stable reference")
	addTextTargetingFlags(assertCmd, "text", "Find element by title/value/description text")

	// Property assertions
	assertCmd.Flags().String("value", "", "Assert element value equals this string")
	assertCmd.Flags().String("value-contains", "", "Assert element value contains this substring")
	assertCmd.Flags().Bool("checked", false, "Assert element is checked/selected")
	assertCmd.Flags().Bool("unchecked", false, "Assert element is NOT checked/selected")
	assertCmd.Flags().Bool("disabled", false, "Assert element is disabled")
	assertCmd.Flags().Bool("enabled", false, "Assert element is enabled")
	assertCmd.Flags().Bool("is-focused", false, "Assert element has keyboard focus")
	assertCmd.Flags().Bool("gone", false, "Assert element does NOT exist")

	// Timing
	assertCmd.Flags().Int("timeout", 0, "Max seconds to poll (0 = single check, no polling)")
	assertCmd.Flags().Int("interval", 500, "Polling interval in milliseconds (default: 500)")
}

func runAssert(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	appName, _ := cmd.Flags().GetString("app")
	ref, _ := cmd.Flags().GetString("ref")
	text, roles, exact := getTextTargetingFlags(cmd, "text")

	value, _ := cmd.Flags().GetString("value")
	valueContains, _ := cmd.Flags().GetString("value-contains")
	checked, _ := cmd.Flags().GetBool("checked")
	unchecked, _ := cmd.Flags().GetBool("unchecked")
	disabled, _ := cmd.Flags().GetBool("disabled")
	enabled, _ := cmd.Flags().GetBool("enabled")
	isFocused, _ := cmd.Flags().GetBool("is-focused")
	gone, _ := cmd.Flags().GetBool("gone")

	timeoutSec, _ := cmd.Flags().GetInt("timeout")
	intervalMs, _ := cmd.Flags().GetInt("interval")

	if text == "" && ref == "" {
		return fmt.Errorf("specify --text or --ref to target an element")
	}

	opts := assertOptions{
		actions:       a,
		appName:       appName,
		ref:           ref,
		text:          text,
		roles:         roles,
		exact:         exact,
		value:         value,
		hasValueCheck: cmd.Flags().Changed("value"),
		valueContains: valueContains,
		checked:       checked,
		unchecked:     unchecked,
		disabled:      disabled,
		enabled:       enabled,
		isFocused:     isFocused,
		gone:          gone,
	}

	if timeoutSec > 0 {
		timeout := time.Duration(timeoutSec) * time.Second
		interval := time.Duration(intervalMs) * time.Millisecond
		deadline := a.Now().Add(timeout)

		for {
			result := checkAssert(opts)
			if result.Pass {
				return output.Print(result)
			}
			if a.Now().After(deadline) {
				_ = output.Print(result)
				return fmt.Errorf("assert failed: %s", result.Error)
			}
			a.Sleep(interval)
		}
	}

	result := checkAssert(opts)
	if result.Pass {
		return output.Print(result)
	}
	_ = output.Print(result)
	return fmt.Errorf("assert failed: %s", result.Error)
}

type assertOptions struct {
	actions       *action.Actions
	appName       string
	ref           string
	text          string
	roles         string
	exact         bool
	value         string
	hasValueCheck bool
	valueContains string
	checked       bool
	unchecked     bool
	disabled      bool
	enabled       bool
	isFocused     bool
	gone          bool
}

// checkAssert performs a single assertion check and returns the result.
func checkAssert(opts assertOptions) AssertResult {
	elem, err := findAssertElement(opts)

	if opts.gone {
		if err != nil {
			return AssertResult{OK: true, Action: "assert", Pass: true}
		}
		return AssertResult{
			OK:      false,
			Action:  "assert",
			Pass:    false,
			Error:   fmt.Sprintf("expected element to be gone but found: %s", describeElement(elem)),
			Element: &elem,
		}
	}

	if err != nil {
		return AssertResult{
			OK:     false,
			Action: "assert",
			Pass:   false,
			Error:  err.Error(),
		}
	}

	if err := checkPropertyAssertions(elem, opts); err != nil {
		return AssertResult{
			OK:      false,
			Action:  "assert",
			Pass:    false,
			Error:   err.Error(),
			Element: &elem,
		}
	}

	return AssertResult{
		OK:      true,
		Action:  "assert",
		Pass:    true,
		Element: &elem,
	}
}

// findAssertElement locates the target element by reference or text.
func findAssertElement(opts assertOptions) (element.Element, error) {
	if opts.actions == nil {
		return element.Element{}, fmt.Errorf("actions layer not available")
	}
	if opts.ref != "" {
		return opts.actions.Resolve(opts.ref, opts.appName)
	}
	return resolveByText(opts.actions, opts.appName, opts.text, opts.roles, opts.exact)
}

// checkPropertyAssertions validates element properties against the assertion flags.
//
// checked/unchecked read the AXValue convention accessibility backends use
// for checkbox-like controls: "1" means checked, "0" means unchecked.
func checkPropertyAssertions(elem element.Element, opts assertOptions) error {
	if opts.hasValueCheck {
		if elem.Value != opts.value {
			return fmt.Errorf("expected value %q but got %q", opts.value, elem.Value)
		}
	}
	if opts.valueContains != "" {
		if !strings.Contains(strings.ToLower(elem.Value), strings.ToLower(opts.valueContains)) {
			return fmt.Errorf("expected value to contain %q but got %q", opts.valueContains, elem.Value)
		}
	}
	if opts.checked {
		if elem.Value != "1" {
			return fmt.Errorf("expected element to be checked/selected but it is not")
		}
	}
	if opts.unchecked {
		if elem.Value == "1" {
			return fmt.Errorf("expected element to be unchecked/unselected but it is selected")
		}
	}
	if opts.disabled {
		if elem.Enabled == nil || *elem.Enabled {
			return fmt.Errorf("expected element to be disabled but it is enabled")
		}
	}
	if opts.enabled {
		if elem.Enabled != nil && !*elem.Enabled {
			return fmt.Errorf("expected element to be enabled but it is disabled")
		}
	}
	if opts.isFocused {
		if !elem.Focused {
			return fmt.Errorf("expected element to be focused but it is not")
		}
	}
	return nil
}

// describeElement returns a brief human-readable description of an element.
func describeElement(elem element.Element) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("ref=%s", elem.Ref))
	parts = append(parts, fmt.Sprintf("role=%s", elem.Role))
	if elem.Title != "" {
		parts = append(parts, fmt.Sprintf("title=%q", elem.Title))
	}
	if elem.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%q", elem.Value))
	}
	return strings.Join(parts, " ")
}
