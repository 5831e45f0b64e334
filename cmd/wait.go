package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/spf13/cobra"
)

type WaitResult struct {
	OK       bool   `yaml:"ok"`
	Action   string `yaml:"action"`
	Elapsed  string `yaml:"elapsed"`
	Match    string `yaml:"match,omitempty"`
	TimedOut bool   `yaml:"timed_out,omitempty"`
}

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for a UI condition to be met",
	Long:  "Poll the UI element tree until a specified condition is met or the timeout is reached.",
	RunE:  runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().String("app", "", "Scope to application")
	waitCmd.Flags().String("for-text", "", "Wait for an element with this title/value/description text (fuzzy subsequence match)")
	waitCmd.Flags().String("for-role", "", "Wait for an element with this role (e.g. \"button\")")
	waitCmd.Flags().Bool("gone", false, "Invert: wait until the condition is NO LONGER true")
	waitCmd.Flags().Int("timeout", 30, "Max seconds to wait")
	waitCmd.Flags().Int("interval", 500, "Polling interval in milliseconds")
	waitCmd.Flags().Int("depth", 0, "Max depth to traverse (0 = unlimited)")
}

func runWait(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	app, _ := cmd.Flags().GetString("app")
	forText, _ := cmd.Flags().GetString("for-text")
	forRole, _ := cmd.Flags().GetString("for-role")
	gone, _ := cmd.Flags().GetBool("gone")
	timeoutSec, _ := cmd.Flags().GetInt("timeout")
	intervalMs, _ := cmd.Flags().GetInt("interval")
	depth, _ := cmd.Flags().GetInt("depth")

	if forText == "" && forRole == "" {
		return fmt.Errorf("specify at least one condition: --for-text or --for-role")
	}

	query := element.ElementQuery{
		Application: app,
		Role:        forRole,
		Text:        forText,
		FuzzyMatch:  true,
		MaxDepth:    depth,
		Limit:       1,
	}

	timeout := time.Duration(timeoutSec) * time.Second
	interval := time.Duration(intervalMs) * time.Millisecond
	deadline := a.Now().Add(timeout)
	start := a.Now()
	matchDesc := describeCondition(forText, forRole, gone)

	for {
		result, err := a.Find(query)
		matched := err == nil && len(result.Elements) > 0

		conditionMet := matched
		if gone {
			conditionMet = !matched
		}

		if conditionMet {
			elapsed := a.Now().Sub(start)
			return output.PrintYAML(WaitResult{OK: true, Action: "wait", Elapsed: fmt.Sprintf("%.1fs", elapsed.Seconds()), Match: matchDesc})
		}

		if a.Now().After(deadline) {
			elapsed := a.Now().Sub(start)
			_ = output.PrintYAML(WaitResult{OK: false, Action: "wait", Elapsed: fmt.Sprintf("%.1fs", elapsed.Seconds()), Match: matchDesc, TimedOut: true})
			return fmt.Errorf("timed out waiting for condition: %s", matchDesc)
		}

		a.Sleep(interval)
	}
}

func describeCondition(forText, forRole string, gone bool) string {
	var parts []string
	if forRole != "" {
		parts = append(parts, fmt.Sprintf("role=%s", forRole))
	}
	if forText != "" {
		parts = append(parts, fmt.Sprintf("text=%q", forText))
	}
	desc := strings.Join(parts, " ")
	if gone {
		desc += " (gone)"
	}
	return desc
}
