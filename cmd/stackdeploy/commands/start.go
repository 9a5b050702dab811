package commands

import (
	"github.com/spf13/cobra"

	"github.com/syntho/stackdeploy/cmd/stackdeploy/handlers"
	"github.com/syntho/stackdeploy/internal/config"
)

// Start returns the start command.
//
// The start command runs the provisioning scripts in order and records the
// progress of the deployment in the state file.
func Start(settings *config.Settings) *cobra.Command {
	var opts handlers.StartOptions

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Deploy the stack onto a Kubernetes cluster",
		Long: `Start deploys the Syntho stack onto the cluster named by --kubeconfig.

The deployment is identified by its connection material: starting again
with the same kubeconfig never re-runs a step.
  - A completed deployment is reported as completed.
  - A deployment that stopped earlier is reported as unfinished and left
    untouched. Inspect it with 'stackdeploy status' and remove it with
    'stackdeploy destroy' before starting over.

Values from --config are overridden by flags.

Example:
  stackdeploy start --kubeconfig ~/.kube/config --license-key KEY \
    --registry-user USER --registry-pwd PASSWORD --version 1.2.0`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Start(cmd.Context(), *settings, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a stack configuration file")
	f.StringVar(&opts.Stack.Kubeconfig, "kubeconfig", "", "Kubeconfig file or kubeconfig content")
	f.StringVar(&opts.Stack.LicenseKey, "license-key", "", "Syntho license key")
	f.StringVar(&opts.Stack.RegistryUser, "registry-user", "", "Image registry user")
	f.StringVar(&opts.Stack.RegistryPassword, "registry-pwd", "", "Image registry password")
	f.StringVar(&opts.Stack.Arch, "arch", "", "Image architecture: amd64 or arm64 (default amd64)")
	f.StringVar(&opts.Stack.Version, "version", "", "Stack release to install")

	return cmd
}
