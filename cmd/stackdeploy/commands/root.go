// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/syntho/stackdeploy/internal/config"
)

// Root returns the root command for the stackdeploy CLI.
//
// Persistent flags default to the STACKDEPLOY_* environment variables and
// are shared by every subcommand.
func Root() *cobra.Command {
	settings := config.LoadSettings()

	cmd := &cobra.Command{
		Use:           "stackdeploy",
		Short:         "Deploy the Syntho stack onto an existing Kubernetes cluster",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&settings.ScriptsDir, "scripts-dir", settings.ScriptsDir,
		"Directory holding the provisioning scripts (env "+config.EnvScriptsDir+")")
	flags.StringVar(&settings.LogLevel, "log-level", settings.LogLevel,
		"Log level: debug, info, warn, error (env "+config.EnvLogLevel+")")
	flags.StringVar(&settings.MetricsFile, "metrics-file", settings.MetricsFile,
		"Write step metrics in Prometheus text format to this file (env "+config.EnvMetricsFile+")")

	// Deployment lifecycle
	cmd.AddCommand(Start(settings))
	cmd.AddCommand(Destroy(settings))

	// Inspection
	cmd.AddCommand(List(settings))
	cmd.AddCommand(Status(settings))
	cmd.AddCommand(Active(settings))
	cmd.AddCommand(Doctor(settings))

	// Utility
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
