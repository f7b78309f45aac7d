package cli

import (
	"github.com/spf13/cobra"

	"github.com/RustyRoad/rusty-refactor-sub001/internal/config"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the extraction engine over MCP stdio",
	Long: `Serve the engine to an editor host over the Model Context Protocol.

The server exposes region resolution, directory listing, and the target
selection session tools on stdio and shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg, root)
	if err != nil {
		return err
	}
	defer server.Close()

	return server.Serve(cmd.Context())
}
