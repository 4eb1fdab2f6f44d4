package cli

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed plan.schema.json
var planSchema string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Execute a full plan document",
	Long: `Execute a plan document against DaVinci Resolve.

A plan wraps an operation list with a version, a target project and
timeline, and preconditions. A plan carrying an "error" field is
refused outright: that is the structured way a translator reports an
impossible request, and its error and suggestion are printed verbatim.

Examples:
  # Execute a plan file
  resolve-mcp plan --file color-pass.json

  # Validate only
  resolve-mcp plan --file color-pass.json --dry-run`,
	RunE: runPlan,
}

var planLintCmd = &cobra.Command{
	Use:   "lint [plan-file]",
	Short: "Check a plan file against the plan schema",
	Long: `Check a plan file against the JSON schema for plan documents.

Unlike --dry-run this never loads the engine: it reports structural
problems (wrong types, unknown fields, missing operation names) with
their JSON paths, which is more useful while hand-writing plans.

The exit code indicates the result:
  0 - Plan is structurally valid
  1 - Plan violates the schema or could not be parsed`,
	Args: cobra.ExactArgs(1),
	RunE: runPlanLint,
}

var (
	planSource documentSource
	planDryRun bool
)

func init() {
	planCmd.Flags().StringVarP(&planSource.file, "file", "f", "", "Read the plan from a file")
	planCmd.Flags().StringVar(&planSource.inline, "inline", "", "Plan JSON as a literal argument")
	planCmd.Flags().BoolVar(&planSource.stdin, "stdin", false, "Read the plan from stdin")
	planCmd.Flags().BoolVar(&planDryRun, "dry-run", false, "Validate without executing")
	planCmd.AddCommand(planLintCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	input, err := planSource.resolve(os.Stdin)
	if err != nil {
		return err
	}

	return runUnit(cmd, rt, input, planDryRun)
}

type lintOutput struct {
	Valid    bool     `json:"valid"`
	FilePath string   `json:"file_path"`
	Problems []string `json:"problems,omitempty"`
}

func runPlanLint(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(planSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to lint %s: %w", filePath, err)
	}

	output := lintOutput{Valid: result.Valid(), FilePath: filePath}
	for _, problem := range result.Errors() {
		output.Problems = append(output.Problems, fmt.Sprintf("%s: %s", problem.Field(), problem.Description()))
	}

	if err := printJSON(output); err != nil {
		return err
	}
	if !output.Valid {
		return fmt.Errorf("%s violates the plan schema", filePath)
	}
	return nil
}
