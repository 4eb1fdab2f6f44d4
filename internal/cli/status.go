package cli

import (
	"github.com/spf13/cobra"

	resolveApi "github.com/reelcraft/resolve-mcp/internal/resolve-api"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current Resolve connection and project state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusOutput struct {
	Connected  bool                       `json:"connected"`
	Error      string                     `json:"error,omitempty"`
	Connection *resolveApi.ConnectionInfo `json:"connection,omitempty"`
	Context    *resolveApi.Context        `json:"context,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	output := statusOutput{}

	info, err := rt.client.CheckConnection(cmd.Context())
	if err != nil {
		output.Error = err.Error()
		return printJSON(output)
	}
	output.Connected = true
	output.Connection = info

	if snapshot, err := rt.client.GetContext(cmd.Context()); err == nil {
		output.Context = snapshot
	}

	return printJSON(output)
}
