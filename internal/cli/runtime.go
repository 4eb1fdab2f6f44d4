package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/reelcraft/resolve-mcp/internal/engine"
	resolveApi "github.com/reelcraft/resolve-mcp/internal/resolve-api"
	"github.com/reelcraft/resolve-mcp/pkg/config"
	"github.com/reelcraft/resolve-mcp/pkg/logger"
)

// runtime bundles everything a command needs to talk to Resolve.
type runtime struct {
	cfg        *config.ServerConfig
	client     *resolveApi.Client
	dispatcher *engine.Dispatcher
}

func newRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	log, _ := logger.NewSlogLogger(cfg)
	client := resolveApi.NewClient(cfg.Bridge, cfg.Cache, log)

	return &runtime{
		cfg:        cfg,
		client:     client,
		dispatcher: engine.NewDispatcher(client, log),
	}, nil
}

// documentSource holds the mutually exclusive input flags shared by the
// batch and plan commands.
type documentSource struct {
	file   string
	inline string
	stdin  bool
}

// resolve turns the flags into an engine input, reading stdin at most once.
// The dispatcher enforces the exactly-one-source rule; stdin just becomes
// inline text here.
func (s documentSource) resolve(in io.Reader) (engine.Input, error) {
	if s.stdin {
		if s.file != "" || s.inline != "" {
			return engine.Input{}, fmt.Errorf("--stdin cannot be combined with --file or --inline")
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return engine.Input{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return engine.Input{Inline: string(data)}, nil
	}
	return engine.Input{Path: s.file, Inline: s.inline}, nil
}

// printJSON writes a value to stdout, indented when --pretty is set.
func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(value)
}

// runUnit pushes an input through the dispatcher and prints the outcome.
// Per-operation failures are part of the report, not command errors: the
// command fails only when the input itself could not be run.
func runUnit(cmd *cobra.Command, rt *runtime, input engine.Input, dryRun bool) error {
	mode := engine.ModeExecute
	if dryRun {
		mode = engine.ModeDryRun
	}

	outcome, err := rt.dispatcher.Run(cmd.Context(), input, mode)
	if err != nil {
		var planErr *engine.PlanError
		if errors.As(err, &planErr) {
			_ = printJSON(map[string]string{
				"error":      planErr.Message,
				"suggestion": planErr.Suggestion,
			})
		}
		return err
	}

	return printJSON(outcome)
}
