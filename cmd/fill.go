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
)

// FillResult is the output of a successful fill command.
type FillResult struct {
	OK        bool              `yaml:"ok"                  json:"ok"`
	Action    string            `yaml:"action"              json:"action"`
	FieldsSet int               `yaml:"fields_set"          json:"fields_set"`
	Results   []FillFieldResult `yaml:"results"             json:"results"`
	Submitted string            `yaml:"submitted,omitempty" json:"submitted,omitempty"`
	State     string            `yaml:"state,omitempty"     json:"state,omitempty"`
}

// FillFieldResult reports the outcome of setting a single field.
type FillFieldResult struct {
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
	Ref   string `yaml:"ref,omitempty"   json:"ref,omitempty"`
	OK    bool   `yaml:"ok"              json:"ok"`
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
}

// fillYAMLInput is the YAML structure for stdin input.
type fillYAMLInput struct {
	Fields []fillYAMLField `yaml:"fields"`
	Submit string          `yaml:"submit,omitempty"`
}

type fillYAMLField struct {
	Label  string `yaml:"label,omitempty"`
	Ref    string `yaml:"ref,omitempty"`
	Value  string `yaml:"value"`
	Method string `yaml:"method,omitempty"`
}

// parsedField is one field to fill, resolved from either a stable
// reference or a text label matched against a single shared tree read.
type parsedField struct {
	label  string
	ref    string
	value  string
	method string
}

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Set multiple form fields in one call",
	Long: `Fill multiple form fields in one call, reading the UI tree only once.

Use --field flags to specify label=value pairs, or pipe YAML on stdin.
All text-labeled fields are matched against a single shared tree read, making
this faster than calling type/set-value once per field.

Examples:
  deskauto fill --app "Safari" --field "Name=John" --field "Email=john@example.com"
  deskauto fill --app "Safari" --field "Name=John" --submit "Submit"
  deskauto fill --app "Chrome" --field "Search=query" --method type
  deskauto fill --app "Safari" --field "ref:@id:abc123=John Doe"`,
	RunE: runFill,
}

func init() {
	rootCmd.AddCommand(fillCmd)
	fillCmd.Flags().String("app", "", "Target application (required)")
	fillCmd.Flags().StringArray("field", nil, `Set a field: "Label=value" or "ref:<reference>=value" (repeatable)`)
	fillCmd.Flags().String("submit", "", "After filling, click element with this text")
	fillCmd.Flags().Bool("tab-between", false, "Press Tab to move between fields instead of direct targeting")
	fillCmd.Flags().String("method", "set-value", `How to set values: "set-value" (direct, default) or "type" (keystrokes)`)
	addPostReadFlags(fillCmd)
}

func runFill(cmd *cobra.Command, args []string) error {
	a, err := getActions()
	if err != nil {
		return err
	}

	appName, _ := cmd.Flags().GetString("app")
	submitText, _ := cmd.Flags().GetString("submit")
	tabBetween, _ := cmd.Flags().GetBool("tab-between")
	defaultMethod, _ := cmd.Flags().GetString("method")

	if appName == "" {
		return fmt.Errorf("--app is required")
	}
	if defaultMethod != "set-value" && defaultMethod != "type" {
		return fmt.Errorf("--method must be \"set-value\" or \"type\", got %q", defaultMethod)
	}

	fields, stdinSubmit, err := parseFields(cmd, defaultMethod)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields specified — use --field flags or pipe YAML on stdin")
	}
	if submitText == "" {
		submitText = stdinSubmit
	}

	result, err := a.Find(element.ElementQuery{Application: appName, Limit: 0})
	if err != nil {
		return fmt.Errorf("failed to read elements: %w", err)
	}
	tree := result.Elements

	results := make([]FillFieldResult, 0, len(fields))
	fieldsSet := 0
	resolvedAt := a.Now()

	for i, f := range fields {
		res := fillOneField(a, tree, f, appName, resolvedAt, tabBetween && i > 0)
		results = append(results, res)
		if res.OK {
			fieldsSet++
		}
	}

	var submitted string
	if submitText != "" {
		target, err := matchInTree(tree, submitText, "", false)
		if err != nil {
			return fmt.Errorf("submit element %q not found: %w", submitText, err)
		}
		if err := a.Click(target, action.ClickOptions{App: appName, ResolvedAt: resolvedAt}); err != nil {
			return fmt.Errorf("failed to click submit element: %w", err)
		}
		submitted = target.Ref
	}

	postRead, postReadDelay := getPostReadFlags(cmd)
	var state string
	if postRead {
		state = readPostActionState(a, appName, postReadDelay)
	}

	return output.Print(FillResult{
		OK:        fieldsSet == len(fields),
		Action:    "fill",
		FieldsSet: fieldsSet,
		Results:   results,
		Submitted: submitted,
		State:     state,
	})
}

// matchInTree finds the single best-matching element in an already-read
// tree, without a further accessibility query, so a caller filling many
// fields pays for one tree walk instead of one per field.
func matchInTree(tree []element.Element, text, role string, exact bool) (element.Element, error) {
	query := element.ElementQuery{Text: text, Role: role, FuzzyMatch: !exact}
	for _, e := range tree {
		if query.Matches(e) {
			return e, nil
		}
	}
	return element.Element{}, &element.NotFoundError{Query: query}
}

// fillOneField resolves and fills a single form field.
func fillOneField(a *action.Actions, tree []element.Element, f parsedField, app string, resolvedAt time.Time, useTab bool) FillFieldResult {
	var target element.Element
	var err error

	if f.ref != "" {
		target, err = a.Resolve(f.ref, app)
	} else {
		target, err = matchInTree(tree, f.label, "", false)
	}
	if err != nil {
		return FillFieldResult{Label: f.label, Ref: f.ref, OK: false, Error: err.Error()}
	}

	label := f.label
	if label == "" {
		label = target.Title
	}

	if useTab {
		if err := a.Input.KeyCombo([]string{"tab"}); err != nil {
			return FillFieldResult{Label: label, Ref: target.Ref, OK: false, Error: fmt.Sprintf("tab failed: %v", err)}
		}
		a.Sleep(50 * time.Millisecond)
	}

	if f.method == "type" {
		if !useTab {
			if err := a.Click(target, action.ClickOptions{App: app, ResolvedAt: resolvedAt}); err != nil {
				return FillFieldResult{Label: label, Ref: target.Ref, OK: false, Error: fmt.Sprintf("failed to focus: %v", err)}
			}
		}
		if err := a.Input.KeyCombo([]string{"cmd", "a"}); err != nil {
			return FillFieldResult{Label: label, Ref: target.Ref, OK: false, Error: fmt.Sprintf("select all failed: %v", err)}
		}
		a.Sleep(30 * time.Millisecond)
		if err := a.Type(target, f.value, action.TypeOptions{App: app, NoAutoScroll: true, ResolvedAt: resolvedAt}); err != nil {
			return FillFieldResult{Label: label, Ref: target.Ref, OK: false, Error: fmt.Sprintf("type failed: %v", err)}
		}
	} else {
		opts := action.SetValueOptions{App: app, Attribute: "value", ResolvedAt: resolvedAt}
		if err := a.SetValue(target, f.value, opts); err != nil {
			return FillFieldResult{Label: label, Ref: target.Ref, OK: false, Error: fmt.Sprintf("set-value failed: %v", err)}
		}
	}

	return FillFieldResult{Label: label, Ref: target.Ref, OK: true}
}

// parseFields extracts fields from --field flags or stdin YAML.
func parseFields(cmd *cobra.Command, defaultMethod string) ([]parsedField, string, error) {
	fieldFlags, _ := cmd.Flags().GetStringArray("field")

	if len(fieldFlags) > 0 {
		fields := make([]parsedField, 0, len(fieldFlags))
		for _, f := range fieldFlags {
			pf, err := parseFieldFlag(f, defaultMethod)
			if err != nil {
				return nil, "", err
			}
			fields = append(fields, pf)
		}
		return fields, "", nil
	}

	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, "", nil
	}

	var input fillYAMLInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, "", fmt.Errorf("failed to parse YAML input: %w", err)
	}

	fields := make([]parsedField, 0, len(input.Fields))
	for _, f := range input.Fields {
		method := f.Method
		if method == "" {
			method = defaultMethod
		}
		fields = append(fields, parsedField{label: f.Label, ref: f.Ref, value: f.Value, method: method})
	}
	return fields, input.Submit, nil
}

// parseFieldFlag parses a single --field flag value. Supports
// "Label=value" and "ref:<reference>=value" formats.
func parseFieldFlag(s string, defaultMethod string) (parsedField, error) {
	eqIdx := strings.Index(s, "=")
	if eqIdx < 0 {
		return parsedField{}, fmt.Errorf("invalid --field %q: expected \"Label=value\" or \"ref:<reference>=value\"", s)
	}

	key := s[:eqIdx]
	value := s[eqIdx+1:]

	if strings.HasPrefix(key, "ref:") {
		ref := strings.TrimPrefix(key, "ref:")
		if ref == "" {
			return parsedField{}, fmt.Errorf("invalid --field %q: reference cannot be empty", s)
		}
		return parsedField{ref: ref, value: value, method: defaultMethod}, nil
	}

	if key == "" {
		return parsedField{}, fmt.Errorf("invalid --field %q: label cannot be empty", s)
	}

	return parsedField{label: key, value: value, method: defaultMethod}, nil
}

// executeFill implements the "fill" step type for the "do" batch command,
// reading the tree once and filling every listed field against it.
func executeFill(a *action.Actions, params map[string]interface{}, app string, resolvedAt time.Time) (StepResult, error) {
	method := stringParam(params, "method", "set-value")
	submitText := stringParam(params, "submit", "")
	tabBetween := boolParam(params, "tab-between", false)

	fieldsRaw, ok := params["fields"]
	if !ok {
		return StepResult{Action: "fill"}, fmt.Errorf("fill step requires a \"fields\" list")
	}
	fieldsList, ok := fieldsRaw.([]interface{})
	if !ok {
		return StepResult{Action: "fill"}, fmt.Errorf("fill step \"fields\" must be a list")
	}

	var fields []parsedField
	for _, rawField := range fieldsList {
		fMap, ok := rawField.(map[string]interface{})
		if !ok {
			return StepResult{Action: "fill"}, fmt.Errorf("each field must be a map with label/ref and value")
		}
		f := parsedField{
			label:  stringParam(fMap, "label", ""),
			ref:    stringParam(fMap, "ref", ""),
			value:  stringParam(fMap, "value", ""),
			method: stringParam(fMap, "method", method),
		}
		if f.label == "" && f.ref == "" {
			return StepResult{Action: "fill"}, fmt.Errorf("each field must have a \"label\" or \"ref\"")
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return StepResult{Action: "fill"}, fmt.Errorf("fill step requires at least one field")
	}

	result, err := a.Find(element.ElementQuery{Application: app, Limit: 0})
	if err != nil {
		return StepResult{Action: "fill"}, fmt.Errorf("failed to read elements: %w", err)
	}
	tree := result.Elements

	filled := 0
	for i, f := range fields {
		res := fillOneField(a, tree, f, app, resolvedAt, tabBetween && i > 0)
		if !res.OK {
			return StepResult{Action: "fill"}, fmt.Errorf("field %q: %s", res.Label, res.Error)
		}
		filled++
	}

	if submitText != "" {
		target, err := matchInTree(tree, submitText, "", false)
		if err != nil {
			return StepResult{Action: "fill"}, fmt.Errorf("submit element %q not found: %w", submitText, err)
		}
		if err := a.Click(target, action.ClickOptions{App: app, ResolvedAt: resolvedAt}); err != nil {
			return StepResult{Action: "fill"}, fmt.Errorf("failed to click submit: %w", err)
		}
	}

	return StepResult{Action: "fill", Text: fmt.Sprintf("%d fields", filled)}, nil
}
