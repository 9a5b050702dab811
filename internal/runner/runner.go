// Package runner executes named provisioning scripts as child processes.
//
// Scripts are run by argv, never through a shell, with an environment that
// holds only DEPLOYMENT_DIR and the inherited PATH. The outcome is classified
// from the exit code; the runner never retries.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// FailureExitCode is reported when a step was interrupted or could not be started.
const FailureExitCode = 1

// waitDelay bounds how long a stopped step may keep its output pipes open.
const waitDelay = 5 * time.Second

// Result is the classified outcome of one step.
type Result struct {
	Succeeded bool
	Output    string
	ExitCode  int
}

// Executor runs a named step inside a working directory.
type Executor interface {
	Run(ctx context.Context, step, workDir string, capture bool) Result
}

// Runner executes scripts found in a scripts directory.
type Runner struct {
	// ScriptsDir holds the step scripts.
	ScriptsDir string

	// Stdout and Stderr receive the child's streams when output is not captured.
	Stdout io.Writer
	Stderr io.Writer

	// CatchInterrupt scopes SIGINT/SIGTERM to the running step: the child is
	// stopped and the step reported as failed instead of the process exiting.
	CatchInterrupt bool
}

// New creates a runner that inherits the process streams and scopes interrupts to the step.
func New(scriptsDir string) *Runner {
	return &Runner{
		ScriptsDir:     scriptsDir,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		CatchInterrupt: true,
	}
}

// Run executes step with workDir as its current directory.
//
// With capture set, stdout is returned (trimmed) on success and stderr on
// failure. Without it, the child writes straight to the runner's streams.
func (r *Runner) Run(ctx context.Context, step, workDir string, capture bool) Result {
	if r.CatchInterrupt {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	// #nosec G204 - step names are fixed constants, executed without a shell
	cmd := exec.CommandContext(ctx, filepath.Join(r.ScriptsDir, step))
	cmd.Dir = workDir
	cmd.Env = Environment(workDir)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	if capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	}

	err := cmd.Run()
	if ctx.Err() != nil {
		return Result{Succeeded: false, ExitCode: FailureExitCode}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{Succeeded: false, Output: stderr.String(), ExitCode: exitErr.ExitCode()}
		}
		return Result{Succeeded: false, ExitCode: FailureExitCode}
	}

	return Result{Succeeded: true, Output: strings.TrimSpace(stdout.String()), ExitCode: 0}
}

// Environment builds the complete child environment for a step.
func Environment(workDir string) []string {
	return []string{
		"DEPLOYMENT_DIR=" + workDir,
		"PATH=" + os.Getenv("PATH"),
	}
}
