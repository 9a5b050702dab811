package commands

import (
	"github.com/spf13/cobra"

	"github.com/syntho/stackdeploy/cmd/stackdeploy/handlers"
	"github.com/syntho/stackdeploy/internal/config"
)

// Destroy returns the destroy command.
//
// The destroy command removes the stack from the cluster through the
// teardown script, then deletes the working directory and the record.
func Destroy(settings *config.Settings) *cobra.Command {
	var (
		id  string
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a deployment and all of its components",
		Long: `Destroy removes a deployment regardless of how far it got.

The teardown script runs first. If it fails, the working directory and the
state record are kept so the destroy can be retried.

Example:
  stackdeploy destroy --deployment-id 0cc175b9c0f1b6a831c399e269772661

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), *settings, id, yes, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&id, "deployment-id", "", "ID of the deployment to destroy (required)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("deployment-id")
	_ = cmd.RegisterFlagCompletionFunc("deployment-id", deploymentIDs(settings))

	return cmd
}
