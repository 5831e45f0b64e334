// Package output renders command results to stdout in the format the
// caller asked for: YAML for humans at a terminal, compact JSON for
// piped/scripted callers, and a terse single-line "agent format" for
// post-action state dumps that favor token economy over structure.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/deskauto/deskauto/internal/element"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML       Format = "yaml"
	FormatJSON       Format = "json"
	FormatAgent      Format = "agent"
	FormatScreenshot Format = "screenshot"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// RawMode records the root --raw flag. Nothing in this package reads it;
// output is written the same way whether or not it is set.
var RawMode bool

// IsOutputPiped reports whether stdout is not a terminal, so callers can
// default to a denser format when nobody's eyes are on the scrollback.
func IsOutputPiped() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) == 0
}

// ReadResult is the top-level output of the `read` command.
type ReadResult struct {
	App      string            `yaml:"app,omitempty"    json:"app,omitempty"`
	PID      int               `yaml:"pid,omitempty"    json:"pid,omitempty"`
	Window   string            `yaml:"window,omitempty" json:"window,omitempty"`
	TS       int64             `yaml:"ts"               json:"ts"`
	Elements []element.Element `yaml:"elements"         json:"elements"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(v)
		}
		return PrintJSON(v)
	case FormatAgent:
		return PrintJSON(v)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to stdout as compact single-line JSON.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintPrettyJSON serializes v to stdout as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// FormatAgentString renders a compact single-line-per-element summary of
// UI state, meant for a post-action state dump an agent reads inline
// rather than as structured data: a header line followed by one
// "role text @x,y" entry per element.
func FormatAgentString(app string, pid int, window string, elements []element.Element) string {
	var b strings.Builder
	fmt.Fprintf(&b, "app=%q pid=%d window=%q n=%d\n", app, pid, window, len(elements))
	for i := range elements {
		e := elements[i]
		text := firstNonEmptyText(e)
		center := e.Bounds().Center()
		fmt.Fprintf(&b, "  [%d] %s %q @%.0f,%.0f", i, strings.TrimPrefix(e.Role, element.RolePrefix), text, center.X, center.Y)
		if e.Visibility != nil && !e.Visibility.InViewport {
			b.WriteString(" offscreen")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func firstNonEmptyText(e element.Element) string {
	for _, c := range e.TextCandidates() {
		if c != "" {
			return c
		}
	}
	return ""
}
