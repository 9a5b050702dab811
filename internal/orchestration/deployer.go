package orchestration

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"

	"github.com/syntho/stackdeploy/internal/config"
	"github.com/syntho/stackdeploy/internal/deployment"
	"github.com/syntho/stackdeploy/internal/provisioning"
	"github.com/syntho/stackdeploy/internal/state"
)

// ReasonUnfinished is reported when a start targets a deployment that stalled earlier.
const ReasonUnfinished = "deployment remained unfinished"

var (
	// ErrInconsistentState is returned when a working directory exists without a state record.
	ErrInconsistentState = errors.New("working directory exists without a deployment record")

	// ErrNotFound is returned by queries for deployments without a record.
	ErrNotFound = errors.New("deployment not found")
)

// Result describes the outcome of a start.
type Result struct {
	Succeeded    bool
	DeploymentID string
	Status       deployment.Status

	// Reason explains a failed or unfinished start.
	Reason string

	// Unfinished is set when an earlier attempt stalled and nothing was run.
	Unfinished bool
}

// Deployer runs the deployment state machine.
type Deployer struct {
	steps []provisioning.Step
}

// NewDeployer creates a deployer with the standard step sequence.
func NewDeployer() *Deployer {
	return &Deployer{steps: Sequence()}
}

// Start deploys the stack onto the cluster named by stack.Kubeconfig.
//
// Stage failures are reported through the result. Errors are reserved for
// invalid input and for filesystem or state file problems.
func (d *Deployer) Start(ctx *provisioning.Context, stack config.StackConfig) (*Result, error) {
	stack = stack.WithDefaults()
	if err := stack.Validate(); err != nil {
		return nil, err
	}

	id := deployment.Identity(stack.Kubeconfig)
	obs := ctx.Observer.WithFields(map[string]string{"deployment": id})

	existing, exists, err := d.existing(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		if existing.Status == deployment.StatusCompleted {
			obs.Printf("[Start] Deployment %s is already completed", id)
			return &Result{Succeeded: true, DeploymentID: id, Status: existing.Status}, nil
		}
		obs.Printf("[Start] Deployment %s remained unfinished at %s", id, existing.Status)
		return &Result{
			DeploymentID: id,
			Status:       existing.Status,
			Reason:       ReasonUnfinished,
			Unfinished:   true,
		}, nil
	}

	if err := d.initialize(ctx, id, stack); err != nil {
		return nil, err
	}

	pctx := *ctx
	pctx.Observer = obs

	if err := pctx.SetStatus(id, deployment.StatusPreparingEnv); err != nil {
		return nil, err
	}
	if err := provisioning.PrepareEnvironment(ctx.Layout, id, stack); err != nil {
		return nil, fmt.Errorf("failed to prepare deployment environment: %w", err)
	}
	if err := pctx.SetStatus(id, deployment.StatusInitialized); err != nil {
		return nil, err
	}

	for _, step := range d.steps {
		res, err := provisioning.RunStep(&pctx, id, step)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", step.Title, err)
		}

		if step.Script == provisioning.ScriptClusterName {
			if err := d.recordClusterName(ctx, id, lo.Ternary(res.Succeeded, res.Output, "")); err != nil {
				return nil, err
			}
			continue
		}

		if !res.Succeeded {
			obs.Printf("[Start] %s", step.FailureReason)
			return &Result{
				DeploymentID: id,
				Status:       step.Failed,
				Reason:       step.FailureReason,
			}, nil
		}
	}

	if err := pctx.SetStatus(id, deployment.StatusCompleted); err != nil {
		return nil, err
	}
	obs.Printf("[Start] Deployment %s completed", id)
	return &Result{Succeeded: true, DeploymentID: id, Status: deployment.StatusCompleted}, nil
}

// existing reports the record of a deployment whose working directory is still present.
// A record without a directory is stale and does not count.
func (d *Deployer) existing(ctx *provisioning.Context, id string) (state.Record, bool, error) {
	info, err := os.Stat(ctx.Layout.WorkDir(id))
	if os.IsNotExist(err) {
		return state.Record{}, false, nil
	}
	if err != nil {
		return state.Record{}, false, fmt.Errorf("failed to inspect working directory: %w", err)
	}
	if !info.IsDir() {
		return state.Record{}, false, fmt.Errorf("%s: %w", ctx.Layout.WorkDir(id), ErrInconsistentState)
	}

	f, err := ctx.Store.Load()
	if err != nil {
		return state.Record{}, false, err
	}
	rec, ok := f.Find(id)
	if !ok {
		return state.Record{}, false, fmt.Errorf("deployment %s: %w", id, ErrInconsistentState)
	}
	return rec, true, nil
}

func (d *Deployer) initialize(ctx *provisioning.Context, id string, stack config.StackConfig) error {
	if err := os.MkdirAll(ctx.Layout.WorkDir(id), 0o750); err != nil {
		return fmt.Errorf("failed to create working directory: %w", err)
	}

	err := ctx.Store.Update(func(f *state.File) error {
		f.Upsert(state.Record{
			ID:        id,
			Status:    deployment.StatusInitializing,
			Version:   stack.Version,
			StartedAt: ctx.Timestamp(),
		})
		return f.SetActive(id)
	})
	if err != nil {
		return fmt.Errorf("failed to create deployment record: %w", err)
	}

	provisioning.LogStatusChanged(ctx.Observer, id, deployment.StatusInitializing.String())
	ctx.Metrics.SetStatus(id, deployment.StatusInitializing)
	return nil
}

func (d *Deployer) recordClusterName(ctx *provisioning.Context, id, name string) error {
	err := ctx.Store.Update(func(f *state.File) error {
		return f.SetClusterName(id, name)
	})
	if err != nil {
		return fmt.Errorf("failed to record cluster name: %w", err)
	}
	return nil
}
