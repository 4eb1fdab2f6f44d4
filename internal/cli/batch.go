package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Execute a batch of operations",
	Long: `Execute a JSON batch of operations against DaVinci Resolve.

The document is either a bare array of operations or an object with an
"operations" list; both shapes run identically. Operations execute in
order and best-effort: a failing operation is recorded in the report and
the remaining operations still run.

The command exits 0 as long as the batch ran, even if individual
operations failed - inspect the report's per-operation results. A
non-zero exit means the input itself was unusable.

Examples:
  # From a file
  resolve-mcp batch --file cut.json

  # Inline
  resolve-mcp batch --inline '[{"op": "add_marker", "params": {"frame": 100, "color": "Blue"}}]'

  # From a pipe, validation only
  cat cut.json | resolve-mcp batch --stdin --dry-run`,
	RunE: runBatch,
}

var (
	batchSource documentSource
	batchDryRun bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchSource.file, "file", "f", "", "Read the batch from a file")
	batchCmd.Flags().StringVar(&batchSource.inline, "inline", "", "Batch JSON as a literal argument")
	batchCmd.Flags().BoolVar(&batchSource.stdin, "stdin", false, "Read the batch from stdin")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "Validate without executing")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	input, err := batchSource.resolve(os.Stdin)
	if err != nil {
		return err
	}

	return runUnit(cmd, rt, input, batchDryRun)
}
