package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/syntho/stackdeploy/cmd/stackdeploy/handlers"
	"github.com/syntho/stackdeploy/internal/config"
)

// Completion returns the completion command for shell autocompletion.
func Completion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for stackdeploy.

Besides commands and flags, the scripts complete deployment IDs for
'status' and 'destroy --deployment-id'. IDs are read from the state file in
the scripts directory, with each deployment's status shown as description.

To load completions:

Bash:
  $ source <(stackdeploy completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ stackdeploy completion bash > /etc/bash_completion.d/stackdeploy
  # macOS:
  $ stackdeploy completion bash > $(brew --prefix)/etc/bash_completion.d/stackdeploy

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ stackdeploy completion zsh > "${fpath[1]}/_stackdeploy"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ stackdeploy completion fish | source
  # To load completions for each session, execute once:
  $ stackdeploy completion fish > ~/.config/fish/completions/stackdeploy.fish

PowerShell:
  PS> stackdeploy completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> stackdeploy completion powershell > stackdeploy.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
	return cmd
}

// deploymentIDs completes deployment IDs from the state file.
func deploymentIDs(settings *config.Settings) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ids, err := handlers.DeploymentIDs(ctx, *settings)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}
