// Package handlers implements the logic behind the CLI commands.
//
// Collaborators are created through package-level factory variables so
// tests can replace the script runner, the prompts and the cluster client.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/syntho/stackdeploy/internal/config"
	"github.com/syntho/stackdeploy/internal/logging"
	"github.com/syntho/stackdeploy/internal/metrics"
	"github.com/syntho/stackdeploy/internal/orchestration"
	"github.com/syntho/stackdeploy/internal/provisioning"
	"github.com/syntho/stackdeploy/internal/provisioning/destroy"
	"github.com/syntho/stackdeploy/internal/runner"
	"github.com/syntho/stackdeploy/internal/state"
)

// Deployer is the part of the orchestrator the handlers use.
type Deployer interface {
	Start(ctx *provisioning.Context, stack config.StackConfig) (*orchestration.Result, error)
	List(ctx *provisioning.Context) ([]state.Record, error)
	ActiveID(ctx *provisioning.Context) (string, error)
	Get(ctx *provisioning.Context, id string) (state.Record, error)
}

// Destroyer tears down deployments.
type Destroyer interface {
	Destroy(ctx *provisioning.Context, id string) (bool, error)
}

// Factory function variables - can be replaced in tests.
var (
	newExecutor = func(scriptsDir string) runner.Executor {
		return runner.New(scriptsDir)
	}

	newDeployer = func() Deployer {
		return orchestration.NewDeployer()
	}

	newDestroyer = func() Destroyer {
		return destroy.NewProvisioner()
	}

	newRunID = uuid.NewString

	// logOutput receives the console log.
	logOutput io.Writer = os.Stderr

	isInteractiveTTY = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// session bundles what a command needs to work on the deployments directory.
type session struct {
	ctx    *provisioning.Context
	logger zerolog.Logger
}

func newSession(ctx context.Context, settings config.Settings) (*session, error) {
	logger, err := logging.New(logOutput, settings.LogLevel)
	if err != nil {
		return nil, err
	}

	scriptsDir, err := settings.AbsScriptsDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scripts directory: %w", err)
	}

	logger = logger.With().Str("run", newRunID()).Logger()
	layout := provisioning.NewLayout(scriptsDir)

	pCtx := provisioning.NewContext(
		ctx,
		layout,
		state.NewStore(layout.DeploymentsDir(), logger),
		newExecutor(scriptsDir),
		provisioning.NewConsoleObserver(logger),
		metrics.NewRecorder(settings.MetricsFile),
	)
	return &session{ctx: pCtx, logger: logger}, nil
}

// flush writes metrics and logs instead of failing the command.
func (s *session) flush() {
	if err := s.ctx.Metrics.Flush(); err != nil {
		s.logger.Warn().Err(err).Msg("could not write metrics")
	}
}
