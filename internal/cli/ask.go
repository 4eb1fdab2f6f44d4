package cli

import (
	"github.com/spf13/cobra"

	"github.com/reelcraft/resolve-mcp/internal/engine"
	"github.com/reelcraft/resolve-mcp/internal/interpreter"
	"github.com/reelcraft/resolve-mcp/pkg/logger"
)

var askCmd = &cobra.Command{
	Use:   "ask <request>",
	Short: "Translate a natural language request into a plan and run it",
	Long: `Ask the configured LLM to turn an editing request into an execution
plan, grounded in the current Resolve state, then execute it.

With --dry-run the generated plan is printed without touching Resolve -
review it, save it, and run it later with "resolve-mcp plan".

Examples:
  resolve-mcp ask "add a blue marker every 5 seconds for the first minute"
  resolve-mcp ask --dry-run "fade the opacity of all clips on track 2 to 50%"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var askDryRun bool

func init() {
	askCmd.Flags().BoolVar(&askDryRun, "dry-run", false, "Print the generated plan without executing it")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	log, _ := logger.NewSlogLogger(rt.cfg)
	llm, err := interpreter.NewClient(rt.cfg.LLM, log)
	if err != nil {
		return err
	}

	// A missing snapshot is not fatal: the model still gets the request,
	// just without project state to target.
	snapshot, err := rt.client.GetContext(cmd.Context())
	if err != nil {
		log.Warn("generating plan without Resolve context", "error", err)
		snapshot = nil
	}

	plan, err := llm.GeneratePlan(cmd.Context(), snapshot, args[0])
	if err != nil {
		return err
	}

	return runUnit(cmd, rt, engine.Input{Plan: plan}, askDryRun)
}
