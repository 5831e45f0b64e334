package server

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/element"
)

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

func float64Param(params map[string]interface{}, key string, defaultVal float64) float64 {
	if v, ok := params[key]; ok {
		if f, ok := v.(float64); ok {
			return f
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

// resolveTargetParam picks the element a tool call targets: "ref" if
// given, otherwise a "text" lookup scoped by "app"/"role"/"exact",
// mirroring the CLI's own --ref/--text targeting contract.
func resolveTargetParam(a *action.Actions, params map[string]interface{}) (element.Element, error) {
	ref := stringParam(params, "ref", "")
	app := stringParam(params, "app", "")
	text := stringParam(params, "text", "")
	roles := stringParam(params, "role", "")
	exact := boolParam(params, "exact", false)

	if ref == "" && text == "" {
		return element.Element{}, fmt.Errorf("specify either \"ref\" or \"text\"")
	}
	if ref != "" {
		return a.Resolve(ref, app)
	}
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

func resolvedAt(a *action.Actions) time.Time {
	return a.Now()
}

func requireTool(request mcp.CallToolRequest) map[string]interface{} {
	return request.GetArguments()
}
