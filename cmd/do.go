package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/deskauto/deskauto/internal/platform"
)

// DoResult is the YAML output of a batch do command.
type DoResult struct {
	OK        bool         `yaml:"ok"              json:"ok"`
	Action    string       `yaml:"action"          json:"action"`
	Steps     int          `yaml:"steps"           json:"steps"`
	Completed int          `yaml:"completed"       json:"completed"`
	Error     string       `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []StepResult `yaml:"results"         json:"results"`
	State     string       `yaml:"state,omitempty" json:"state,omitempty"`
}

// StepResult is the output for a single step within a batch.
type StepResult struct {
	Step    int    `yaml:"step"              json:"step"`
	OK      bool   `yaml:"ok"                json:"ok"`
	Action  string `yaml:"action"            json:"action"`
	Error   string `yaml:"error,omitempty"   json:"error,omitempty"`
	Ref     string `yaml:"ref,omitempty"     json:"ref,omitempty"`
	Text    string `yaml:"text,omitempty"    json:"text,omitempty"`
	Key     string `yaml:"key,omitempty"     json:"key,omitempty"`
	Elapsed string `yaml:"elapsed,omitempty" json:"elapsed,omitempty"`
	Match   string `yaml:"match,omitempty"   json:"match,omitempty"`
	State   string `yaml:"state,omitempty"   json:"state,omitempty"`
}

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Execute multiple actions in a batch",
	Long: `Execute a sequence of actions from a YAML list on stdin.

Each step is a step-type name with its parameters as a map. Steps execute
sequentially, and by default execution stops on the first error.

Supported step types: click, type, action, set-value, scroll, fill, wait, focus, read, sleep

Example:
  deskauto do --app "Safari" <<'EOF'
  - type: { text-target: "Full Name", text: "John Doe" }
  - type: { text-target: "Email", text: "john@example.com" }
  - type: { key: "tab" }
  - click: { text: "Submit" }
  - wait: { for-text: "Thank you", timeout: 10 }
  EOF`,
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	doCmd.Flags().String("app", "", "Default app for all steps (can be overridden per-step)")
	doCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error (default: true)")
	addPostReadFlags(doCmd)
}

func runDo(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	defaultApp, _ := cmd.Flags().GetString("app")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("no steps provided on stdin — pipe a YAML list of actions")
	}

	var rawSteps []map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &rawSteps); err != nil {
		return fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(rawSteps) == 0 {
		return fmt.Errorf("no steps provided — expected a YAML list of actions")
	}

	results := make([]StepResult, 0, len(rawSteps))
	completed := 0
	hasFailure := false
	var lastErr string
	var lastApp string

	for i, step := range rawSteps {
		stepNum := i + 1

		if len(step) != 1 {
			errMsg := fmt.Sprintf("step %d: expected exactly one action key, got %d", stepNum, len(step))
			results = append(results, StepResult{Step: stepNum, OK: false, Error: errMsg})
			hasFailure = true
			if stopOnError {
				lastErr = errMsg
				break
			}
			continue
		}

		var stepType string
		var params map[string]interface{}
		for k, v := range step {
			stepType, params = k, v
		}

		app := stringParam(params, "app", defaultApp)
		lastApp = app
		resolvedAt := a.Now()

		result, err := executeStep(a, stepType, params, app, resolvedAt)
		result.Step = stepNum
		if result.Action == "" {
			result.Action = stepType
		}
		if err != nil {
			result.OK = false
			result.Error = err.Error()
			results = append(results, result)
			hasFailure = true
			if stopOnError {
				lastErr = fmt.Sprintf("step %d: %s", stepNum, err.Error())
				break
			}
			continue
		}
		result.OK = true
		completed++
		results = append(results, result)
	}

	if !hasFailure {
		completed = len(results)
	}

	postRead, postReadDelay := getPostReadFlags(cmd)
	var state string
	if postRead && lastApp != "" {
		state = readPostActionState(a, lastApp, postReadDelay)
	}

	return output.Print(DoResult{
		OK:        !hasFailure,
		Action:    "do",
		Steps:     len(rawSteps),
		Completed: completed,
		Error:     lastErr,
		Results:   results,
		State:     state,
	})
}

// executeStep dispatches a single batch step to its implementation,
// resolving targets against a fresh find rather than a tree shared across
// steps, since a preceding step may have changed the UI under it.
func executeStep(a *action.Actions, stepType string, params map[string]interface{}, app string, resolvedAt time.Time) (StepResult, error) {
	switch stepType {
	case "click":
		return executeClick(a, params, app, resolvedAt)
	case "type":
		return executeType(a, params, app, resolvedAt)
	case "action":
		return executeAction(a, params, app, resolvedAt)
	case "set-value":
		return executeSetValue(a, params, app, resolvedAt)
	case "scroll":
		return executeScroll(a, params, app, resolvedAt)
	case "fill":
		return executeFill(a, params, app, resolvedAt)
	case "wait":
		return executeWait(a, params, app)
	case "focus":
		return executeFocus(a, params, app)
	case "read":
		return executeRead(a, params, app)
	case "sleep":
		return executeSleep(a, params)
	default:
		return StepResult{}, fmt.Errorf("unknown step type %q — supported: click, type, action, set-value, scroll, fill, wait, focus, read, sleep", stepType)
	}
}

// resolveStepTarget resolves a step's target element from "ref" or "text"
// params against a fresh query, mirroring resolveTarget's --ref/--text
// contract used by the single-shot commands.
func resolveStepTarget(a *action.Actions, params map[string]interface{}, app string) (element.Element, error) {
	ref := stringParam(params, "ref", "")
	text := stringParam(params, "text", "")
	roles := stringParam(params, "roles", "")
	exact := boolParam(params, "exact", false)
	return resolveTarget(a, ref, app, text, roles, exact)
}

func executeClick(a *action.Actions, params map[string]interface{}, app string, resolvedAt time.Time) (StepResult, error) {
	target, err := resolveStepTarget(a, params, app)
	if err != nil {
		return StepResult{}, err
	}

	buttonStr := stringParam(params, "button", "left")
	button, err := platform.ParseMouseButton(buttonStr)
	if err != nil {
		return StepResult{}, err
	}
	count := 1
	if boolParam(params, "double", false) {
		count = 2
	}
	if c := intParam(params, "count", 0); c > 0 {
		count = c
	}

	err = a.Click(target, action.ClickOptions{
		App:          app,
		Button:       button,
		Count:        count,
		Humanized:    !boolParam(params, "no-humanize", false),
		NoAutoScroll: boolParam(params, "no-auto-scroll", false),
		ResolvedAt:   resolvedAt,
	})
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Ref: target.Ref}, nil
}

func executeType(a *action.Actions, params map[string]interface{}, app string, resolvedAt time.Time) (StepResult, error) {
	text := stringParam(params, "text", "")
	key := stringParam(params, "key", "")
	if text == "" && key == "" {
		return StepResult{}, fmt.Errorf("specify text or key")
	}

	hasTarget := stringParam(params, "ref", "") != "" || stringParam(params, "text-target", "") != ""
	var targetRef string
	if hasTarget {
		ref := stringParam(params, "ref", "")
		textTarget := stringParam(params, "text-target", "")
		roles := stringParam(params, "roles", "")
		exact := boolParam(params, "exact", false)
		target, err := resolveTarget(a, ref, app, textTarget, roles, exact)
		if err != nil {
			return StepResult{}, err
		}
		targetRef = target.Ref
		if text != "" {
			if err := a.Type(target, text, action.TypeOptions{App: app, NoAutoScroll: boolParam(params, "no-auto-scroll", false), ResolvedAt: resolvedAt}); err != nil {
				return StepResult{}, err
			}
		}
	} else if text != "" {
		return StepResult{}, fmt.Errorf("typing free text requires \"ref\" or \"text-target\" to focus first")
	}

	if key != "" {
		if err := a.Input.KeyCombo(strings.Split(key, "+")); err != nil {
			return StepResult{}, err
		}
		a.Sleep(80 * time.Millisecond)
	}

	actionName := "type"
	switch {
	case text != "" && key != "":
		actionName = "type+key"
	case key != "":
		actionName = "key"
	}

	return StepResult{Action: actionName, Text: text, Key: key, Ref: targetRef}, nil
}

func executeAction(a *action.Actions, params map[string]interface{}, app string, resolvedAt time.Time) (StepResult, error) {
	target, err := resolveStepTarget(a, params, app)
	if err != nil {
		return StepResult{}, err
	}
	name := stringParam(params, "name", "AXPress")
	if err := a.PerformNamedAction(target, name, action.PerformOptions{App: app, ResolvedAt: resolvedAt}); err != nil {
		return StepResult{}, err
	}
	return StepResult{Ref: target.Ref}, nil
}

func executeSetValue(a *action.Actions, params map[string]interface{}, app string, resolvedAt time.Time) (StepResult, error) {
	target, err := resolveStepTarget(a, params, app)
	if err != nil {
		return StepResult{}, err
	}
	value := stringParam(params, "value", "")
	attribute := stringParam(params, "attribute", "value")
	if err := a.SetValue(target, value, action.SetValueOptions{App: app, Attribute: attribute, ResolvedAt: resolvedAt}); err != nil {
		return StepResult{}, err
	}
	return StepResult{Ref: target.Ref}, nil
}

func executeScroll(a *action.Actions, params map[string]interface{}, app string, resolvedAt time.Time) (StepResult, error) {
	intoView := boolParam(params, "into-view", false)
	hasRef := stringParam(params, "ref", "") != ""
	hasText := stringParam(params, "text", "") != ""

	if intoView {
		if !hasRef && !hasText {
			return StepResult{}, fmt.Errorf("into-view requires ref or text")
		}
		target, err := resolveStepTarget(a, params, app)
		if err != nil {
			return StepResult{}, err
		}
		if _, err := a.ScrollToElement(target, action.ScrollToElementOptions{App: app, ResolvedAt: resolvedAt}); err != nil {
			return StepResult{}, err
		}
		return StepResult{Action: "scroll_into_view", Ref: target.Ref}, nil
	}

	direction := stringParam(params, "direction", "down")
	amount := intParam(params, "amount", 3)
	dx, dy := directionDelta(direction, amount)

	var scrollTarget action.ScrollTarget
	switch {
	case hasRef || hasText:
		target, err := resolveStepTarget(a, params, app)
		if err != nil {
			return StepResult{}, err
		}
		scrollTarget = action.ScrollTarget{Element: &target, App: app, ResolvedAt: resolvedAt}
	default:
		x := intParam(params, "x", 0)
		y := intParam(params, "y", 0)
		if x == 0 && y == 0 {
			return StepResult{}, fmt.Errorf("specify x/y, ref, or text to locate the scroll point")
		}
		p := element.Point{X: float64(x), Y: float64(y)}
		scrollTarget = action.ScrollTarget{Point: &p}
	}

	if err := a.ScrollHere(scrollTarget, action.ScrollHereOptions{DX: dx, DY: dy}); err != nil {
		return StepResult{}, err
	}
	return StepResult{}, nil
}

func executeWait(a *action.Actions, params map[string]interface{}, app string) (StepResult, error) {
	forText := stringParam(params, "for-text", "")
	forRole := stringParam(params, "for-role", "")
	gone := boolParam(params, "gone", false)
	timeoutSec := intParam(params, "timeout", 30)
	intervalMs := intParam(params, "interval", 500)
	depth := intParam(params, "depth", 0)

	if forText == "" && forRole == "" {
		return StepResult{}, fmt.Errorf("specify at least one condition: for-text or for-role")
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
			return StepResult{Elapsed: fmt.Sprintf("%.1fs", elapsed.Seconds()), Match: matchDesc}, nil
		}
		if a.Now().After(deadline) {
			return StepResult{}, fmt.Errorf("timed out waiting for condition: %s", matchDesc)
		}
		a.Sleep(interval)
	}
}

func executeFocus(a *action.Actions, params map[string]interface{}, app string) (StepResult, error) {
	if a.WindowManager == nil {
		return StepResult{}, fmt.Errorf("window management not available on this platform")
	}
	window := stringParam(params, "window", "")
	windowID := intParam(params, "window-id", 0)
	pid := intParam(params, "pid", 0)
	if app == "" && window == "" && windowID == 0 && pid == 0 {
		return StepResult{}, fmt.Errorf("specify app, window, window-id, or pid")
	}
	opts := platform.FocusOptions{Scope: platform.Scope{
		App: app, WindowTitle: window, WindowID: windowID, PID: pid,
	}}
	if err := a.WindowManager.FocusWindow(opts); err != nil {
		return StepResult{}, err
	}
	return StepResult{}, nil
}

func executeRead(a *action.Actions, params map[string]interface{}, app string) (StepResult, error) {
	role := stringParam(params, "role", "")
	text := stringParam(params, "text", "")
	depth := intParam(params, "depth", 0)
	limit := intParam(params, "limit", 40)

	result, err := a.Find(element.ElementQuery{
		Application: app,
		Role:        role,
		Text:        text,
		FuzzyMatch:  true,
		MaxDepth:    depth,
		Limit:       limit,
	})
	if err != nil {
		return StepResult{}, err
	}
	state := output.FormatAgentString(app, 0, "", result.Elements)
	return StepResult{State: state}, nil
}

func executeSleep(a *action.Actions, params map[string]interface{}) (StepResult, error) {
	ms := intParam(params, "ms", 0)
	if ms <= 0 {
		return StepResult{}, fmt.Errorf("ms must be > 0")
	}
	a.Sleep(time.Duration(ms) * time.Millisecond)
	return StepResult{Elapsed: fmt.Sprintf("%dms", ms)}, nil
}

// Parameter extraction helpers for step maps.

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
