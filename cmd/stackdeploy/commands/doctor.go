package commands

import (
	"github.com/spf13/cobra"

	"github.com/syntho/stackdeploy/cmd/stackdeploy/handlers"
	"github.com/syntho/stackdeploy/internal/config"
)

// Doctor returns the command for diagnosing the local setup.
//
// Optional flags:
//
//	--kubeconfig: Connection material to inspect and probe
//	--json: Output in JSON format
func Doctor(settings *config.Settings) *cobra.Command {
	var (
		kubeconfig string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, scripts and cluster access",
		Long: `Doctor checks everything a deployment relies on.

  - Required and optional command line tools
  - Presence and permissions of the provisioning scripts
  - With --kubeconfig: contexts, API server version and node readiness

Examples:
  stackdeploy doctor
  stackdeploy doctor --kubeconfig ~/.kube/config --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), *settings, kubeconfig, jsonOutput, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&kubeconfig, "kubeconfig", "", "Kubeconfig file or kubeconfig content to inspect")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
