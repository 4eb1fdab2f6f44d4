package cli

import (
	"github.com/spf13/cobra"

	"github.com/reelcraft/resolve-mcp/pkg/fxapp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server over the configured transport (stdio or SSE).

LLM clients connect to this server and drive Resolve through the
run_batch, run_plan and run_request tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fxapp.New().Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
