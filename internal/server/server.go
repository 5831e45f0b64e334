// Package server exposes the action layer's operations as Model Context
// Protocol tools, so an agent can drive the desktop without shelling out to
// the CLI for every step.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/deskauto/deskauto/internal/action"
	"github.com/deskauto/deskauto/internal/config"
	"github.com/deskauto/deskauto/internal/version"
)

// Server wraps an Actions layer with a cache and MCP tool registrations.
type Server struct {
	actions *action.Actions
	cache   *queryCache
	log     *slog.Logger
	mcp     *mcpserver.MCPServer
	cfg     *config.Config
}

// New builds a Server over actions, ready to Serve once constructed.
func New(actions *action.Actions, cfg *config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		actions: actions,
		cache:   newQueryCache(cfg.QueryCacheSize, cfg.QueryCacheTTL),
		log:     log,
		cfg:     cfg,
	}
	s.mcp = mcpserver.NewMCPServer("deskauto", version.Version)
	s.registerTools()
	return s
}

// Serve blocks, running the configured transport until it errors or the
// process is signaled to stop.
func (s *Server) Serve(ctx context.Context) error {
	switch s.cfg.Transport {
	case config.TransportStdio:
		s.log.Info("serving MCP over stdio")
		return mcpserver.ServeStdio(s.mcp)
	case config.TransportHTTP:
		s.log.Info("serving MCP over HTTP", "address", s.cfg.HTTPAddress)
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(s.cfg.HTTPAddress)
	default:
		return fmt.Errorf("unsupported transport: %s", s.cfg.Transport)
	}
}

func textResult(text string) *mcp.CallToolResult {
	return mcp.NewToolResultText(text)
}

func errResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
