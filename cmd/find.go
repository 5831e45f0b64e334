package cmd

import (
	"fmt"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/spf13/cobra"
)

type findResult struct {
	OK       bool               `yaml:"ok"     json:"ok"`
	Action   string             `yaml:"action" json:"action"`
	Text     string             `yaml:"text"   json:"text"`
	Elements []element.Element  `yaml:"elements" json:"elements"`
	Total    int                `yaml:"total"  json:"total"`
}

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Search for elements across all windows",
	Long:  "Search for UI elements by text across all applications (or a specific one). Useful when a dialog or new window appeared and you don't know which app owns it.",
	RunE:  runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().String("text", "", "Text to search for (fuzzy subsequence match on title/value/description by default)")
	findCmd.Flags().String("role", "", "Filter to a single role (e.g. \"button\")")
	findCmd.Flags().String("app", "", "Limit the search to this application")
	findCmd.Flags().Int("limit", 10, "Max matching elements to return")
	findCmd.Flags().Bool("exact", false, "Match text as a case-insensitive substring instead of a fuzzy subsequence")
}

func runFind(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	text, _ := cmd.Flags().GetString("text")
	role, _ := cmd.Flags().GetString("role")
	app, _ := cmd.Flags().GetString("app")
	limit, _ := cmd.Flags().GetInt("limit")
	exact, _ := cmd.Flags().GetBool("exact")

	if text == "" {
		return fmt.Errorf("--text is required")
	}

	query := element.ElementQuery{
		Application: app,
		Role:        role,
		Text:        text,
		FuzzyMatch:  !exact,
		Limit:       limit,
	}

	result, err := a.Find(query)
	if err != nil {
		return err
	}
	if result.Elements == nil {
		result.Elements = []element.Element{}
	}

	return output.Print(findResult{OK: true, Action: "find", Text: text, Elements: result.Elements, Total: len(result.Elements)})
}
