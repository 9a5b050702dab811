package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/syntho/stackdeploy/internal/config"
)

// ErrStartFailed is returned when a start did not reach the completed stage.
var ErrStartFailed = errors.New("deployment did not complete")

// StartOptions holds the start command inputs.
type StartOptions struct {
	// ConfigPath is an optional stack configuration file. Flags override its values.
	ConfigPath string

	Stack config.StackConfig
}

// Start handles the start command.
//
// It resolves the stack configuration and runs the deployment. A failed or
// unfinished deployment is reported on out and returned as ErrStartFailed.
func Start(ctx context.Context, settings config.Settings, opts StartOptions, out io.Writer) error {
	stack, err := resolveStack(opts)
	if err != nil {
		return err
	}

	s, err := newSession(ctx, settings)
	if err != nil {
		return err
	}
	defer s.flush()

	res, err := newDeployer().Start(s.ctx, stack)
	if err != nil {
		return fmt.Errorf("start failed: %w", err)
	}

	p := newPainter()
	switch {
	case res.Succeeded:
		fmt.Fprintln(out, p.ok(fmt.Sprintf("Deployment %s completed", res.DeploymentID)))
		return nil
	case res.Unfinished:
		fmt.Fprintln(out, p.warn(fmt.Sprintf("Deployment %s remained unfinished at %s", res.DeploymentID, res.Status)))
		fmt.Fprintf(out, "  Inspect it with 'stackdeploy status %s' or remove it with 'stackdeploy destroy --deployment-id %s'.\n",
			res.DeploymentID, res.DeploymentID)
	default:
		fmt.Fprintln(out, p.fail(fmt.Sprintf("Deployment %s failed at %s: %s", res.DeploymentID, res.Status, res.Reason)))
	}
	return fmt.Errorf("%s: %w", res.Reason, ErrStartFailed)
}

func resolveStack(opts StartOptions) (config.StackConfig, error) {
	stack := opts.Stack
	if opts.ConfigPath != "" {
		fromFile, err := config.LoadStackFile(opts.ConfigPath)
		if err != nil {
			return config.StackConfig{}, err
		}
		stack = fromFile.Merge(opts.Stack)
	}

	stack = stack.WithDefaults()
	if err := stack.Validate(); err != nil {
		return config.StackConfig{}, err
	}
	return stack, nil
}
