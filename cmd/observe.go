package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/spf13/cobra"
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Watch for UI changes and stream diffs as JSONL",
	Long: `Continuously poll the UI element tree and emit changes (added, removed, changed elements) as JSONL to stdout.

Each line is a JSON object representing one poll's diff against the previous one, matched by content
hash rather than position so a change is reported correctly even when a sibling was added or removed.
Output is always JSONL regardless of the --format flag.

Use Ctrl+C or --duration to stop observing.`,
	RunE: runObserve,
}

func init() {
	rootCmd.AddCommand(observeCmd)
	observeCmd.Flags().String("app", "", "Scope to application (required)")
	observeCmd.Flags().String("role", "", "Filter to a single role")
	observeCmd.Flags().Int("depth", 0, "Max depth to traverse (0 = unlimited)")
	observeCmd.Flags().Int("interval", 1000, "Polling interval in milliseconds")
	observeCmd.Flags().Int("duration", 0, "Max seconds to observe (0 = until Ctrl+C)")
}

func runObserve(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	appName, _ := cmd.Flags().GetString("app")
	role, _ := cmd.Flags().GetString("role")
	depth, _ := cmd.Flags().GetInt("depth")
	intervalMs, _ := cmd.Flags().GetInt("interval")
	durationSec, _ := cmd.Flags().GetInt("duration")

	if appName == "" {
		return fmt.Errorf("--app is required to scope observation")
	}

	query := element.ElementQuery{Application: appName, Role: role, MaxDepth: depth}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)

	interval := time.Duration(intervalMs) * time.Millisecond
	var deadline time.Time
	if durationSec > 0 {
		deadline = a.Now().Add(time.Duration(durationSec) * time.Second)
	}
	start := a.Now()

	result, err := a.Find(query)
	if err != nil {
		return fmt.Errorf("initial read failed: %w", err)
	}
	prev := result.Elements

	enc.Encode(map[string]interface{}{"type": "snapshot", "ts": a.Now().Unix(), "count": len(prev)})

	eventCount := 0

	for {
		if durationSec > 0 && a.Now().After(deadline) {
			break
		}

		a.Sleep(interval)

		result, err := a.Find(query)
		if err != nil {
			enc.Encode(map[string]interface{}{"type": "error", "ts": a.Now().Unix(), "error": err.Error()})
			continue
		}

		diff := element.DiffByHash(prev, result.Elements)
		if len(diff.Added) > 0 || len(diff.Removed) > 0 || len(diff.Changed) > 0 {
			enc.Encode(map[string]interface{}{
				"type":    "diff",
				"ts":      a.Now().Unix(),
				"added":   diff.Added,
				"removed": diff.Removed,
				"changed": diff.Changed,
			})
			eventCount++
		}

		prev = result.Elements
	}

	elapsed := a.Now().Sub(start)
	enc.Encode(map[string]interface{}{
		"type":    "done",
		"ts":      a.Now().Unix(),
		"elapsed": fmt.Sprintf("%.1fs", elapsed.Seconds()),
		"events":  eventCount,
	})

	return nil
}
