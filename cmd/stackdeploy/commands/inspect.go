package commands

import (
	"github.com/spf13/cobra"

	"github.com/syntho/stackdeploy/cmd/stackdeploy/handlers"
	"github.com/syntho/stackdeploy/internal/config"
)

// List returns the list command.
func List(settings *config.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all deployments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(cmd.Context(), *settings, cmd.OutOrStdout())
		},
	}
}

// Status returns the status command.
//
// Optional flags:
//
//	--json: Output in JSON format
func Status(settings *config.Settings) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status [deployment-id]",
		Short: "Show the status of a deployment",
		Long: `Status shows the persisted progress of a deployment.

Without an ID the active deployment is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return handlers.Status(cmd.Context(), *settings, id, jsonOutput, cmd.OutOrStdout())
		},
	}

	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return deploymentIDs(settings)(cmd, args, toComplete)
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

// Active returns the active command.
func Active(settings *config.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Print the ID of the active deployment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Active(cmd.Context(), *settings, cmd.OutOrStdout())
		},
	}
}
