package cmd

import (
	"fmt"
	"strings"

	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/spf13/cobra"
)

// TypeResult is the output of a successful type command.
type TypeResult struct {
	OK     bool   `yaml:"ok"             json:"ok"`
	Action string `yaml:"action"         json:"action"`
	Text   string `yaml:"text,omitempty" json:"text,omitempty"`
	Key    string `yaml:"key,omitempty"  json:"key,omitempty"`
	State  string `yaml:"state,omitempty" json:"state,omitempty"`
}

var typeCmd = &cobra.Command{
	Use:   "type [text]",
	Short: "Type text or press key combinations",
	Long:  "Focus a target element by --ref or --target and type into it, or press a key combination with --key.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
	typeCmd.Flags().String("text", "", "Text to type (alternative to positional arg)")
	typeCmd.Flags().String("key", "", "Key combination (e.g. \"cmd+c\", \"ctrl+shift+t\", \"enter\", \"tab\")")
	typeCmd.Flags().String("ref", "", "Focus this element reference before typing")
	typeCmd.Flags().String("app", "", "Scope the lookup to this application")
	typeCmd.Flags().Bool("no-auto-scroll", false, "Don't scroll the target into view before focusing it")
	typeCmd.Flags().Bool("paste", false, "Fall back to pasting via the clipboard instead of synthesizing one keystroke per character")
	addTextTargetingFlags(typeCmd, "target", "Find the element to focus by text before typing")
	addPostReadFlags(typeCmd)
}

func runType(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	text, _ := cmd.Flags().GetString("text")
	key, _ := cmd.Flags().GetString("key")
	ref, _ := cmd.Flags().GetString("ref")
	app, _ := cmd.Flags().GetString("app")
	noAutoScroll, _ := cmd.Flags().GetBool("no-auto-scroll")
	usePaste, _ := cmd.Flags().GetBool("paste")
	target, roles, exact := getTextTargetingFlags(cmd, "target")

	if len(args) > 0 {
		text = args[0]
	}
	if text == "" && key == "" {
		return fmt.Errorf("specify --text, --key, or a positional text argument")
	}

	if key != "" {
		if err := a.Input.KeyCombo(strings.Split(key, "+")); err != nil {
			return err
		}
		return output.Print(TypeResult{OK: true, Action: "key", Key: key})
	}

	hasRef := ref != ""
	hasTarget := target != ""
	if !hasRef && !hasTarget {
		return fmt.Errorf("specify --ref or --target to identify the field to type into")
	}

	elem, err := resolveTarget(a, ref, app, target, roles, exact)
	if err != nil {
		return err
	}
	resolvedAt := a.Now()

	if err := a.Type(elem, text, action.TypeOptions{App: app, NoAutoScroll: noAutoScroll, ResolvedAt: resolvedAt, UsePasteChannel: usePaste}); err != nil {
		return err
	}

	postRead, postReadDelay := getPostReadFlags(cmd)
	var state string
	if postRead {
		state = readPostActionState(a, app, postReadDelay)
	}

	return output.Print(TypeResult{OK: true, Action: "type", Text: text, State: state})
}
