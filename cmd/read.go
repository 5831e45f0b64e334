package cmd

import (
	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the UI element tree",
	Long:  "Read UI elements from the accessibility layer, optionally scoped to an application and filtered by role, text, or size.",
	RunE:  runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().String("app", "", "Scope to a specific application by name")
	readCmd.Flags().String("role", "", "Filter to a single role (e.g. \"button\")")
	readCmd.Flags().String("text", "", "Filter to elements matching this text (title/value/description)")
	readCmd.Flags().Bool("exact", false, "Match text as a case-insensitive substring instead of a fuzzy subsequence")
	readCmd.Flags().Int("depth", 0, "Max depth to traverse (0 = unlimited)")
	readCmd.Flags().Int("limit", 200, "Max elements to return (0 = unlimited)")
	readCmd.Flags().Bool("pretty", false, "Pretty-print JSON")
}

func runRead(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	app, _ := cmd.Flags().GetString("app")
	role, _ := cmd.Flags().GetString("role")
	text, _ := cmd.Flags().GetString("text")
	exact, _ := cmd.Flags().GetBool("exact")
	depth, _ := cmd.Flags().GetInt("depth")
	limit, _ := cmd.Flags().GetInt("limit")

	query := element.ElementQuery{
		Application: app,
		Role:        role,
		Text:        text,
		FuzzyMatch:  !exact,
		MaxDepth:    depth,
		Limit:       limit,
	}

	result, err := a.Find(query)
	if err != nil {
		return err
	}
	if result.Elements == nil {
		result.Elements = []element.Element{}
	}

	return output.Print(output.ReadResult{
		App:      app,
		TS:       a.Now().Unix(),
		Elements: result.Elements,
	})
}
