package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the local setup",
	Long: `Check each piece the engine depends on: the Python interpreter, the
bridge script, the configuration, and the connection to Resolve itself.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type doctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	var checks []doctorCheck

	if version, err := rt.client.CheckPython(cmd.Context()); err != nil {
		checks = append(checks, doctorCheck{Name: "python", Detail: err.Error()})
	} else {
		checks = append(checks, doctorCheck{Name: "python", OK: true, Detail: version})
	}

	if rt.client.ScriptExists() {
		checks = append(checks, doctorCheck{Name: "bridge_script", OK: true, Detail: rt.cfg.Bridge.ScriptPath})
	} else {
		checks = append(checks, doctorCheck{Name: "bridge_script", Detail: fmt.Sprintf("not found at %s", rt.cfg.Bridge.ScriptPath)})
	}

	checks = append(checks, doctorCheck{
		Name:   "llm_provider",
		OK:     true,
		Detail: fmt.Sprintf("%s (%s)", rt.cfg.LLM.Provider, rt.cfg.LLM.ModelName()),
	})

	if info, err := rt.client.CheckConnection(cmd.Context()); err != nil {
		checks = append(checks, doctorCheck{Name: "resolve", Detail: err.Error()})
	} else {
		checks = append(checks, doctorCheck{Name: "resolve", OK: true, Detail: fmt.Sprintf("%s %s", info.Product, info.Version)})
	}

	if err := printJSON(checks); err != nil {
		return err
	}

	for _, check := range checks {
		if !check.OK {
			return fmt.Errorf("%s check failed", check.Name)
		}
	}
	return nil
}
