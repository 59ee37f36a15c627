package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learningequality/alignpro/internal/adapters/driving/mcp"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
	"github.com/learningequality/alignpro/internal/core/services"
	"github.com/learningequality/alignpro/internal/logger"
)

// Port range searched by --http when no port is given.
const (
	mcpPortRangeStart = 8080
	mcpPortRangeEnd   = 8180
)

// MCPConfig holds configuration for the mcp serve command.
type MCPConfig struct {
	// Watcher reports changed model directories while the server runs.
	Watcher driven.ArtifactWatcher
	// OnModelChange is called with the name of each changed model.
	OnModelChange func(name string)
}

var mcpConfig *MCPConfig

// SetMCPConfig sets the configuration for the mcp serve command.
func SetMCPConfig(config *MCPConfig) {
	mcpConfig = config
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC.

Use --port (or --http to pick a free port) to serve over HTTP instead.
HTTP requests are limited to mcp.rate_limit per second.

Tools:      next_pair, recommend, list_models, record_judgment
Resources:  alignpro://models, alignpro://nodes/{nodeId}

Examples:
  # Stdio mode (default)
  alignpro mcp serve

  # HTTP mode
  alignpro mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("http", false, "serve over HTTP on the first free port from 8080")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	useHTTP, err := cmd.Flags().GetBool("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}
	if port < 0 {
		return errors.New("port must not be negative")
	}

	ports := &mcp.Ports{
		Pairs:     pairService,
		Models:    modelService,
		Recommend: recommendService,
		Judgments: judgmentService,
		Nodes:     nodeService,
		Settings:  settingsService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	watchArtifacts(ctx)

	if useHTTP && port == 0 {
		port, err = services.FindAvailablePort(mcpPortRangeStart, mcpPortRangeEnd)
		if err != nil {
			return err
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// watchArtifacts starts the configured artifact watcher in the background.
// It stops when ctx is cancelled.
func watchArtifacts(ctx context.Context) {
	if mcpConfig == nil || mcpConfig.Watcher == nil || mcpConfig.OnModelChange == nil {
		return
	}
	go func() {
		if err := mcpConfig.Watcher.Watch(ctx, mcpConfig.OnModelChange); err != nil {
			logger.Warn("artifact watcher stopped: %v", err)
		}
	}()
}
