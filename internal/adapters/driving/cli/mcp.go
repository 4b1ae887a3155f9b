package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldmap/internal/adapters/driving/mcp"
	"github.com/custodia-labs/fieldmap/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so that AI assistants can map
catalog items and inspect templates.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  fieldmap mcp serve

  # HTTP mode (MCP Inspector, remote access)
  fieldmap mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "fieldmap": {
        "command": "/path/to/fieldmap",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	log := serviceLog
	if log == nil {
		log = logger.Default()
	}

	ports := &mcp.Ports{
		Mapping:  mappingService,
		Catalog:  catalogService,
		Settings: settingsService,
		Log:      log,
		Version:  version,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
