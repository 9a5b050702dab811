// Package main is the entry point for the stackdeploy CLI.
//
// stackdeploy installs the Syntho application stack onto an existing
// Kubernetes cluster by running a fixed sequence of provisioning scripts.
// Progress is kept in a state file next to the scripts, so an interrupted
// installation can be inspected or torn down later.
//
// Commands: start, destroy, list, status, active, doctor.
//
// For detailed usage information, run:
//
//	stackdeploy --help
package main

import (
	"fmt"
	"os"

	"github.com/syntho/stackdeploy/cmd/stackdeploy/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
