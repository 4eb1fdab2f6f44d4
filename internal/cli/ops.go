package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelcraft/resolve-mcp/internal/operations"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "Inspect the operation catalog",
}

var opsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known operations by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(operations.Categories())
	},
}

var opsCheckCmd = &cobra.Command{
	Use:   "check <name>",
	Short: "Check whether an operation is in the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := printJSON(map[string]any{"op": name, "known": operations.Known(name)}); err != nil {
			return err
		}
		if !operations.Known(name) {
			return fmt.Errorf("unknown operation: %s", name)
		}
		return nil
	},
}

func init() {
	opsCmd.AddCommand(opsListCmd)
	opsCmd.AddCommand(opsCheckCmd)
	rootCmd.AddCommand(opsCmd)
}
