package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/deskauto/deskauto/internal/overlay"
	"github.com/deskauto/deskauto/internal/platform"
	"github.com/spf13/cobra"
)

// pointerTrail buffers the pointer trajectory of the process's humanized
// movements and drags, so screenshot-coords --trail (and any future live
// overlay) can render the path a click or drag actually took.
var pointerTrail = overlay.NewTrail()

var (
	actionsOnce sync.Once
	actionsInst *action.Actions
	actionsErr  error
)

// getActions returns the process-wide Actions layer, built lazily over
// the platform's registered Provider.
func getActions() (*action.Actions, error) {
	actionsOnce.Do(func() {
		provider, err := platform.NewProvider()
		if err != nil {
			actionsErr = err
			return
		}
		actionsInst = action.New(provider)
		actionsInst.Trail = pointerTrail
	})
	return actionsInst, actionsErr
}

// addTextTargetingFlags registers the shared --<name>/--roles/--exact
// flag group a command uses to find an element by text instead of a
// stored reference.
func addTextTargetingFlags(cmd *cobra.Command, name, help string) {
	cmd.Flags().String(name, "", help)
	cmd.Flags().String("roles", "", "Restrict the match to a single role (e.g. \"button\")")
	cmd.Flags().Bool("exact", false, "Match text as a case-insensitive substring instead of a fuzzy subsequence")
}

// getTextTargetingFlags reads back the flag group addTextTargetingFlags registered.
func getTextTargetingFlags(cmd *cobra.Command, name string) (text, roles string, exact bool) {
	text, _ = cmd.Flags().GetString(name)
	roles, _ = cmd.Flags().GetString("roles")
	exact, _ = cmd.Flags().GetBool("exact")
	return
}

// addPostReadFlags registers the --post-read/--post-read-delay flag group
// that appends a compact post-action state dump to a command's result.
func addPostReadFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("post-read", false, "Include a compact post-action UI state dump")
	cmd.Flags().Int("post-read-delay", 100, "Milliseconds to wait before the post-action read")
}

func getPostReadFlags(cmd *cobra.Command) (bool, time.Duration) {
	postRead, _ := cmd.Flags().GetBool("post-read")
	delayMs, _ := cmd.Flags().GetInt("post-read-delay")
	return postRead, time.Duration(delayMs) * time.Millisecond
}

// readPostActionState re-reads app's frontmost window and renders a
// compact agent-format summary, swallowing errors into an empty string
// since a post-read failure shouldn't fail the action it followed.
func readPostActionState(a *action.Actions, app string, delay time.Duration) string {
	time.Sleep(delay)
	result, err := a.Find(element.ElementQuery{Application: app, Limit: 40})
	if err != nil {
		return ""
	}
	return output.FormatAgentString(app, 0, "", result.Elements)
}

// requireScope errors out when neither an application nor a window scope
// was given, since an unscoped query against every window on the desktop
// is rarely what a caller wants and is expensive to walk.
func requireScope(app, window string) error {
	if app == "" && window == "" {
		return fmt.Errorf("specify --app or --window to scope the lookup")
	}
	return nil
}

// resolveTarget picks the element a command targets: --ref if given,
// otherwise a --text lookup. Exactly one must be set.
func resolveTarget(a *action.Actions, ref, app, text, roles string, exact bool) (element.Element, error) {
	hasRef := ref != ""
	hasText := text != ""
	if hasRef == hasText {
		return element.Element{}, fmt.Errorf("specify exactly one of --ref or --text")
	}
	if hasRef {
		return a.Resolve(ref, app)
	}
	return resolveByText(a, app, text, roles, exact)
}

// resolveByText runs a text-targeting query built from the shared flag
// group and returns the single best match, letting the searcher's focus-
// proximity and interactivity disambiguation break ties among several
// matches rather than reimplementing that heuristic here.
func resolveByText(a *action.Actions, app, text, roles string, exact bool) (element.Element, error) {
	query := element.ElementQuery{
		Application:                 app,
		Text:                        text,
		Role:                        roles,
		FuzzyMatch:                  !exact,
		Limit:                       1,
		DisambiguateByFocus:         true,
		DisambiguateByInteractivity: true,
	}
	result, err := a.Find(query)
	if err != nil {
		return element.Element{}, err
	}
	if len(result.Elements) == 0 {
		return element.Element{}, &element.NotFoundError{Query: query}
	}
	return result.Elements[0], nil
}
