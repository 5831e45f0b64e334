package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/deskauto/deskauto/internal/config"
	"github.com/deskauto/deskauto/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing deskauto tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes deskauto's element
engine as tools. AI agents can call tools directly without shell overhead.

Supported transports (also settable via DESKAUTO_MCP_TRANSPORT):
  stdio   Standard I/O (default, for Claude Code / MCP clients)
  sse     Streamable HTTP transport (for remote agents)

Examples:
  deskauto serve
  deskauto serve --transport sse --address :8080
  DESKAUTO_MCP_CACHE_TTL=0 deskauto serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "", "Transport: stdio, sse (default: from DESKAUTO_MCP_TRANSPORT, else stdio)")
	serveCmd.Flags().String("address", "", "HTTP listen address for sse transport (default: from DESKAUTO_MCP_HTTP_ADDRESS, else :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if transport, _ := cmd.Flags().GetString("transport"); transport != "" {
		cfg.Transport = config.TransportType(transport)
	}
	if address, _ := cmd.Flags().GetString("address"); address != "" {
		cfg.HTTPAddress = address
	}

	a, err := getActions()
	if err != nil {
		return fmt.Errorf("failed to initialize platform provider: %w", err)
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	srv := server.New(a, cfg, logger)
	return srv.Serve(context.Background())
}
