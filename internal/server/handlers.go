package server

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/output"
	"github.com/deskauto/deskauto/internal/platform"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("list",
			mcp.WithDescription("List running applications or open windows"),
			mcp.WithBoolean("apps", mcp.Description("List running applications instead of windows")),
			mcp.WithString("app", mcp.Description("Filter windows by application name")),
			mcp.WithNumber("pid", mcp.Description("Filter windows by process ID")),
		),
		s.handleList,
	)

	s.mcp.AddTool(
		mcp.NewTool("find",
			mcp.WithDescription("Search for UI elements by text across one or all applications"),
			mcp.WithString("text", mcp.Description("Text to search for"), mcp.Required()),
			mcp.WithString("app", mcp.Description("Limit the search to this application")),
			mcp.WithString("role", mcp.Description("Filter to a single role (e.g. \"button\")")),
			mcp.WithBoolean("exact", mcp.Description("Match text as a case-insensitive substring instead of a fuzzy subsequence")),
			mcp.WithNumber("limit", mcp.Description("Max matching elements to return")),
		),
		s.handleFind,
	)

	s.mcp.AddTool(
		mcp.NewTool("read",
			mcp.WithDescription("Read the value/title/description of a single element, or a compact tree summary of an application when no target is given"),
			mcp.WithString("app", mcp.Description("Application to read")),
			mcp.WithString("ref", mcp.Description("Element reference from a prior find/read result")),
			mcp.WithString("text", mcp.Description("Find the element to read by text instead of ref")),
			mcp.WithString("role", mcp.Description("Restrict text lookup to a role")),
			mcp.WithBoolean("exact", mcp.Description("Match text as a case-insensitive substring instead of a fuzzy subsequence")),
		),
		s.handleRead,
	)

	s.mcp.AddTool(
		mcp.NewTool("click",
			mcp.WithDescription("Click a UI element identified by ref or text"),
			mcp.WithString("app", mcp.Description("Scope to application")),
			mcp.WithString("ref", mcp.Description("Element reference")),
			mcp.WithString("text", mcp.Description("Find element by text")),
			mcp.WithString("role", mcp.Description("Restrict text lookup to a role")),
			mcp.WithBoolean("exact", mcp.Description("Match text as a case-insensitive substring instead of a fuzzy subsequence")),
			mcp.WithString("button", mcp.Description("Mouse button: left, right, middle")),
			mcp.WithNumber("count", mcp.Description("Click count (2 for double-click)")),
			mcp.WithBoolean("humanized", mcp.Description("Step a humanized movement curve instead of warping the pointer (default true)")),
		),
		s.handleClick,
	)

	s.mcp.AddTool(
		mcp.NewTool("type",
			mcp.WithDescription("Focus a UI element and type text into it, falling back to keystroke injection if a direct value write doesn't stick"),
			mcp.WithString("app", mcp.Description("Scope to application")),
			mcp.WithString("ref", mcp.Description("Element reference")),
			mcp.WithString("text", mcp.Description("Find element by text")),
			mcp.WithString("role", mcp.Description("Restrict text lookup to a role")),
			mcp.WithBoolean("exact", mcp.Description("Match text as a case-insensitive substring instead of a fuzzy subsequence")),
			mcp.WithString("value", mcp.Description("Text to type"), mcp.Required()),
			mcp.WithBoolean("paste", mcp.Description("Fall back to pasting via the clipboard instead of one keystroke per character")),
		),
		s.handleType,
	)

	s.mcp.AddTool(
		mcp.NewTool("scroll_into_view",
			mcp.WithDescription("Scroll an element's nearest scroll container until the element is visible"),
			mcp.WithString("app", mcp.Description("Scope to application")),
			mcp.WithString("ref", mcp.Description("Element reference")),
			mcp.WithString("text", mcp.Description("Find element by text")),
			mcp.WithString("role", mcp.Description("Restrict text lookup to a role")),
			mcp.WithBoolean("exact", mcp.Description("Match text as a case-insensitive substring instead of a fuzzy subsequence")),
		),
		s.handleScrollIntoView,
	)

	s.mcp.AddTool(
		mcp.NewTool("drag",
			mcp.WithDescription("Drag from one point or element to another"),
			mcp.WithString("app", mcp.Description("Scope element lookups to this application")),
			mcp.WithString("from_ref", mcp.Description("Start element reference")),
			mcp.WithNumber("from_x", mcp.Description("Start X coordinate")),
			mcp.WithNumber("from_y", mcp.Description("Start Y coordinate")),
			mcp.WithString("to_ref", mcp.Description("End element reference")),
			mcp.WithNumber("to_x", mcp.Description("End X coordinate")),
			mcp.WithNumber("to_y", mcp.Description("End Y coordinate")),
			mcp.WithString("button", mcp.Description("Mouse button: left, right, middle")),
			mcp.WithString("method", mcp.Description("Interpolation method: direct, linear, humanized")),
		),
		s.handleDrag,
	)

	s.mcp.AddTool(
		mcp.NewTool("capture",
			mcp.WithDescription("Capture a screenshot cropped to a single UI element"),
			mcp.WithString("app", mcp.Description("Scope to application")),
			mcp.WithString("ref", mcp.Description("Element reference")),
			mcp.WithString("text", mcp.Description("Find element by text")),
			mcp.WithString("role", mcp.Description("Restrict text lookup to a role")),
			mcp.WithBoolean("exact", mcp.Description("Match text as a case-insensitive substring instead of a fuzzy subsequence")),
			mcp.WithString("format", mcp.Description("Image format: png, jpg (default png)")),
			mcp.WithNumber("quality", mcp.Description("JPEG quality 1-100")),
		),
		s.handleCapture,
	)

	s.mcp.AddTool(
		mcp.NewTool("focus",
			mcp.WithDescription("Bring an application or window to the foreground"),
			mcp.WithString("app", mcp.Description("Focus application by name")),
			mcp.WithString("window", mcp.Description("Focus window by title substring")),
			mcp.WithNumber("window_id", mcp.Description("Focus window by system ID")),
			mcp.WithNumber("pid", mcp.Description("Focus application by PID")),
		),
		s.handleFocus,
	)

	s.mcp.AddTool(
		mcp.NewTool("perform",
			mcp.WithDescription("Invoke a named accessibility action on an element, such as AXPress or AXShowMenu"),
			mcp.WithString("app", mcp.Description("Scope to application")),
			mcp.WithString("ref", mcp.Description("Element reference")),
			mcp.WithString("text", mcp.Description("Find element by text")),
			mcp.WithString("role", mcp.Description("Restrict text lookup to a role")),
			mcp.WithBoolean("exact", mcp.Description("Match text as a case-insensitive substring instead of a fuzzy subsequence")),
			mcp.WithString("name", mcp.Description("Action name (default AXPress)")),
		),
		s.handlePerform,
	)

	s.mcp.AddTool(
		mcp.NewTool("set_value",
			mcp.WithDescription("Write an element's accessibility attribute directly, without simulating keystrokes"),
			mcp.WithString("app", mcp.Description("Scope to application")),
			mcp.WithString("ref", mcp.Description("Element reference")),
			mcp.WithString("text", mcp.Description("Find element by text")),
			mcp.WithString("role", mcp.Description("Restrict text lookup to a role")),
			mcp.WithBoolean("exact", mcp.Description("Match text as a case-insensitive substring instead of a fuzzy subsequence")),
			mcp.WithString("value", mcp.Description("Value to set"), mcp.Required()),
			mcp.WithString("attribute", mcp.Description("Attribute to set: value, selected, focused (default value)")),
		),
		s.handleSetValue,
	)
}

func (s *Server) handleList(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := requireTool(request)
	if s.actions.Workspace == nil {
		return errResult(fmt.Errorf("workspace listing not available on this platform")), nil
	}
	if boolParam(params, "apps", false) {
		entries, err := s.actions.Workspace.ListApplications()
		if err != nil {
			return errResult(err), nil
		}
		b, _ := yaml.Marshal(entries)
		return textResult(string(b)), nil
	}
	windows, err := s.actions.Workspace.ListWindows(platform.ListOptions{
		PID: intParam(params, "pid", 0),
		App: stringParam(params, "app", ""),
	})
	if err != nil {
		return errResult(err), nil
	}
	b, _ := yaml.Marshal(windows)
	return textResult(string(b)), nil
}

func (s *Server) findCached(query element.ElementQuery) (element.SearchResult, error) {
	if cached, ok := s.cache.Get(query); ok {
		return cached, nil
	}
	result, err := s.actions.Find(query)
	if err != nil {
		return element.SearchResult{}, err
	}
	s.cache.Put(query, result, resolvedAt(s.actions))
	return result, nil
}

func (s *Server) handleFind(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := requireTool(request)
	text := stringParam(params, "text", "")
	if text == "" {
		return errResult(fmt.Errorf("\"text\" is required")), nil
	}
	query := element.ElementQuery{
		Application: stringParam(params, "app", ""),
		Role:        stringParam(params, "role", ""),
		Text:        text,
		FuzzyMatch:  !boolParam(params, "exact", false),
		Limit:       intParam(params, "limit", 10),
	}
	result, err := s.findCached(query)
	if err != nil {
		return errResult(err), nil
	}
	if result.Elements == nil {
		result.Elements = []element.Element{}
	}
	b, _ := yaml.Marshal(result.Elements)
	return textResult(string(b)), nil
}

func (s *Server) handleRead(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := requireTool(request)
	app := stringParam(params, "app", "")
	ref := stringParam(params, "ref", "")
	text := stringParam(params, "text", "")

	if ref == "" && text == "" {
		if app == "" {
			return errResult(fmt.Errorf("specify \"app\", or \"ref\"/\"text\" for a single element")), nil
		}
		result, err := s.findCached(element.ElementQuery{Application: app, Limit: 40})
		if err != nil {
			return errResult(err), nil
		}
		return textResult(output.FormatAgentString(app, 0, "", result.Elements)), nil
	}

	target, err := resolveTargetParam(s.actions, params)
	if err != nil {
		return errResult(err), nil
	}
	value, err := s.actions.Read(target, action.ReadOptions{App: app, ResolvedAt: resolvedAt(s.actions)})
	if err != nil {
		return errResult(err), nil
	}
	return textResult(value), nil
}

func (s *Server) handleClick(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := requireTool(request)
	app := stringParam(params, "app", "")
	target, err := resolveTargetParam(s.actions, params)
	if err != nil {
		return errResult(err), nil
	}
	button, err := platform.ParseMouseButton(stringParam(params, "button", "left"))
	if err != nil {
		return errResult(err), nil
	}
	opts := action.ClickOptions{
		App:        app,
		Button:     button,
		Count:      intParam(params, "count", 1),
		Humanized:  boolParam(params, "humanized", true),
		ResolvedAt: resolvedAt(s.actions),
	}
	if err := s.actions.Click(target, opts); err != nil {
		return errResult(err), nil
	}
	s.cache.InvalidateApp(app)
	return textResult("ok"), nil
}

func (s *Server) handleType(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := requireTool(request)
	app := stringParam(params, "app", "")
	value := stringParam(params, "value", "")
	if value == "" {
		return errResult(fmt.Errorf("\"value\" is required")), nil
	}
	target, err := resolveTargetParam(s.actions, params)
	if err != nil {
		return errResult(err), nil
	}
	opts := action.TypeOptions{App: app, ResolvedAt: resolvedAt(s.actions), UsePasteChannel: boolParam(params, "paste", false)}
	if err := s.actions.Type(target, value, opts); err != nil {
		return errResult(err), nil
	}
	s.cache.InvalidateApp(app)
	return textResult("ok"), nil
}

func (s *Server) handleScrollIntoView(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := requireTool(request)
	app := stringParam(params, "app", "")
	target, err := resolveTargetParam(s.actions, params)
	if err != nil {
		return errResult(err), nil
	}
	result, err := s.actions.ScrollToElement(target, action.ScrollToElementOptions{App: app, ResolvedAt: resolvedAt(s.actions)})
	if err != nil {
		return errResult(err), nil
	}
	b, _ := yaml.Marshal(result)
	return textResult(string(b)), nil
}

func (s *Server) handleDrag(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := requireTool(request)
	app := stringParam(params, "app", "")

	from, err := resolveDragEndpoint(s.actions, params, "from_ref", "from_x", "from_y", app)
	if err != nil {
		return errResult(err), nil
	}
	to, err := resolveDragEndpoint(s.actions, params, "to_ref", "to_x", "to_y", app)
	if err != nil {
		return errResult(err), nil
	}
	button, err := platform.ParseMouseButton(stringParam(params, "button", "left"))
	if err != nil {
		return errResult(err), nil
	}
	method, err := parseDragMethodParam(stringParam(params, "method", "direct"))
	if err != nil {
		return errResult(err), nil
	}
	if err := s.actions.Drag(from, to, action.DragOptions{App: app, Button: button, Method: method}); err != nil {
		return errResult(err), nil
	}
	s.cache.InvalidateApp(app)
	return textResult("ok"), nil
}

func resolveDragEndpoint(a *action.Actions, params map[string]interface{}, refKey, xKey, yKey, app string) (element.Point, error) {
	if ref := stringParam(params, refKey, ""); ref != "" {
		target, err := a.Resolve(ref, app)
		if err != nil {
			return element.Point{}, err
		}
		return target.Bounds().Center(), nil
	}
	return element.Point{X: float64Param(params, xKey, 0), Y: float64Param(params, yKey, 0)}, nil
}

func parseDragMethodParam(s string) (action.DragMethod, error) {
	switch s {
	case "", "direct":
		return action.DragDirect, nil
	case "linear":
		return action.DragLinear, nil
	case "humanized":
		return action.DragHumanized, nil
	default:
		return 0, fmt.Errorf("invalid drag method: %s", s)
	}
}

func (s *Server) handleCapture(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := requireTool(request)
	app := stringParam(params, "app", "")
	target, err := resolveTargetParam(s.actions, params)
	if err != nil {
		return errResult(err), nil
	}
	format := stringParam(params, "format", "png")
	data, err := s.actions.Capture(target, action.CaptureOptions{
		App:        app,
		Format:     format,
		Quality:    intParam(params, "quality", 80),
		ResolvedAt: resolvedAt(s.actions),
	})
	if err != nil {
		return errResult(err), nil
	}
	mimeType := "image/png"
	if format == "jpg" || format == "jpeg" {
		mimeType = "image/jpeg"
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{Type: "image", Data: base64.StdEncoding.EncodeToString(data), MIMEType: mimeType},
		},
	}, nil
}

func (s *Server) handleFocus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := requireTool(request)
	if s.actions.WindowManager == nil {
		return errResult(fmt.Errorf("focus not supported on this platform")), nil
	}
	opts := platform.FocusOptions{Scope: platform.Scope{
		App:         stringParam(params, "app", ""),
		WindowTitle: stringParam(params, "window", ""),
		WindowID:    intParam(params, "window_id", 0),
		PID:         intParam(params, "pid", 0),
	}}
	if err := s.actions.WindowManager.FocusWindow(opts); err != nil {
		return errResult(err), nil
	}
	return textResult("ok"), nil
}

func (s *Server) handlePerform(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := requireTool(request)
	app := stringParam(params, "app", "")
	target, err := resolveTargetParam(s.actions, params)
	if err != nil {
		return errResult(err), nil
	}
	name := stringParam(params, "name", "AXPress")
	if err := s.actions.PerformNamedAction(target, name, action.PerformOptions{App: app, ResolvedAt: resolvedAt(s.actions)}); err != nil {
		return errResult(err), nil
	}
	s.cache.InvalidateApp(app)
	return textResult("ok"), nil
}

func (s *Server) handleSetValue(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := requireTool(request)
	app := stringParam(params, "app", "")
	value := stringParam(params, "value", "")
	if value == "" {
		return errResult(fmt.Errorf("\"value\" is required")), nil
	}
	target, err := resolveTargetParam(s.actions, params)
	if err != nil {
		return errResult(err), nil
	}
	opts := action.SetValueOptions{App: app, Attribute: stringParam(params, "attribute", ""), ResolvedAt: resolvedAt(s.actions)}
	if err := s.actions.SetValue(target, value, opts); err != nil {
		return errResult(err), nil
	}
	s.cache.InvalidateApp(app)
	return textResult("ok"), nil
}
