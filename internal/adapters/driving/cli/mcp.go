package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/annlib/internal/adapters/driven/diagnostics"
	"github.com/custodia-labs/annlib/internal/adapters/driving/mcp"
)

var mcpPortFlag int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes the "generate" and "history" tools and the
annlib://runs/latest and annlib://runs/{runId} resources for the
project given by --project.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  annlib mcp serve -C ~/src/shop

  # HTTP mode (for MCP Inspector, remote access)
  annlib mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "annlib": {
        "command": "/path/to/annlib",
        "args": ["mcp", "serve", "-C", "/path/to/project"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPortFlag, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	sink := diagnostics.NewCollectingSink()
	p, err := openProject(sink)
	if err != nil {
		return err
	}
	defer p.close()

	ports := &mcp.Ports{
		Processor:   p.Processor,
		History:     p.History,
		Diagnostics: sink,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if mcpPortFlag > 0 {
		addr := fmt.Sprintf(":%d", mcpPortFlag)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
