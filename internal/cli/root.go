// Package cli implements the resolve-mcp command line surface. Every
// command speaks JSON on stdout; logs go to stderr so output stays pipeable.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resolve-mcp",
	Short: "Execution engine and MCP server for DaVinci Resolve",
	Long: `resolve-mcp drives DaVinci Resolve through its Python scripting bridge.

Editing work is expressed as operation batches or full execution plans,
validated up front and executed best-effort: a failing operation is
recorded and the remaining operations still run. The same engine is
exposed as an MCP server for LLM clients and as direct CLI commands.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var pretty bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Indent JSON output")
}
