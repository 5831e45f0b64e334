package cmd

import (
	"fmt"

	"github.com/deskauto/deskauto/internal/output"
	"github.com/deskauto/deskauto/internal/platform"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List running applications or open windows",
	Long:  "List running applications or open windows with their app name, title, PID, and bounds.",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("apps", false, "List running applications instead of windows")
	listCmd.Flags().Int("pid", 0, "Filter windows by PID")
	listCmd.Flags().String("app", "", "Filter windows by app name")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}
	if a.Workspace == nil {
		return fmt.Errorf("workspace listing not available on this platform")
	}

	apps, _ := cmd.Flags().GetBool("apps")
	pid, _ := cmd.Flags().GetInt("pid")
	appName, _ := cmd.Flags().GetString("app")

	if apps {
		entries, err := a.Workspace.ListApplications()
		if err != nil {
			return err
		}
		return output.PrintYAML(entries)
	}

	windows, err := a.Workspace.ListWindows(platform.ListOptions{PID: pid, App: appName})
	if err != nil {
		return err
	}
	return output.PrintYAML(windows)
}
