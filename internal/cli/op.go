package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/reelcraft/resolve-mcp/internal/engine"
	"github.com/reelcraft/resolve-mcp/internal/operations"
)

var opCmd = &cobra.Command{
	Use:   "op <name>",
	Short: "Execute a single operation",
	Long: `Execute one named operation against DaVinci Resolve.

Examples:
  resolve-mcp op save_project
  resolve-mcp op add_marker --params '{"frame": 100, "color": "Blue"}'
  resolve-mcp op set_clip_property --params-file opacity.json`,
	Args: cobra.ExactArgs(1),
	RunE: runOp,
}

var (
	opParams      string
	opParamsFile  string
	opParamsStdin bool
)

func init() {
	opCmd.Flags().StringVar(&opParams, "params", "", "Operation parameters as literal JSON")
	opCmd.Flags().StringVar(&opParamsFile, "params-file", "", "Read parameters from a file")
	opCmd.Flags().BoolVar(&opParamsStdin, "params-stdin", false, "Read parameters from stdin")
	rootCmd.AddCommand(opCmd)
}

func runOp(cmd *cobra.Command, args []string) error {
	name := args[0]

	params, err := resolveOpParams()
	if err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}

	if !operations.Known(name) {
		fmt.Fprintf(os.Stderr, "warning: %s is not in the operation catalog, passing it through anyway\n", name)
	}

	steps := []engine.OperationStep{{Op: name, Params: params}}
	return runUnit(cmd, rt, engine.Input{Steps: steps}, false)
}

func resolveOpParams() (json.RawMessage, error) {
	sources := 0
	if opParams != "" {
		sources++
	}
	if opParamsFile != "" {
		sources++
	}
	if opParamsStdin {
		sources++
	}
	if sources > 1 {
		return nil, fmt.Errorf("--params, --params-file and --params-stdin are mutually exclusive")
	}

	switch {
	case opParams != "":
		return json.RawMessage(opParams), nil
	case opParamsFile != "":
		data, err := os.ReadFile(opParamsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", opParamsFile, err)
		}
		return json.RawMessage(data), nil
	case opParamsStdin:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return json.RawMessage(data), nil
	}
	return nil, nil
}
