package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/healthdoc/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long: `Commands for the Model Context Protocol (MCP) server integration.

Running "healthdoc mcp" without a subcommand starts the server.`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can list
recipes and render reports.

By default, the server communicates over stdio using JSON-RPC.

Use --http to serve over HTTP instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default)
  healthdoc mcp serve

  # HTTP mode
  healthdoc mcp serve --http :8080

Desktop assistant configuration:
  {
    "mcpServers": {
      "healthdoc": {
        "command": "/path/to/healthdoc",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpCmd.PersistentFlags().String("http", "", "HTTP listen address (empty = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	ports := &mcp.Ports{
		Render:   renderService,
		Recipes:  recipeService,
		Settings: settingsService,
	}

	server, err := mcp.NewServer(ports, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	if addr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
