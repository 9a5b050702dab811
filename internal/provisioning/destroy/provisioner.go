package destroy

import (
	"errors"
	"fmt"
	"os"

	"github.com/syntho/stackdeploy/internal/deployment"
	"github.com/syntho/stackdeploy/internal/provisioning"
	"github.com/syntho/stackdeploy/internal/state"
)

const phase = "destroy"

// ErrCleanupFailed is returned by Destroy when the external teardown step fails.
// The working directory and the state record are left in place so the destroy can be retried.
var ErrCleanupFailed = errors.New("external teardown failed")

// Provisioner handles deployment teardown.
type Provisioner struct{}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the phase naming used in logs.
func (p *Provisioner) Name() string {
	return "Destroy"
}

// Cleanup removes the deployment footprint required by level.
//
// It returns false without touching anything when the external teardown
// fails. A missing working directory and the not-applicable level are no-ops.
func (p *Provisioner) Cleanup(ctx *provisioning.Context, id string, level deployment.CleanupLevel) (bool, error) {
	if !deployment.ValidID(id) {
		return false, fmt.Errorf("cleanup %q: %w", id, deployment.ErrInvalidID)
	}
	if level == deployment.CleanupNotApplicable {
		return true, nil
	}

	workDir := ctx.Layout.WorkDir(id)
	exists, err := dirExists(workDir)
	if err != nil {
		return false, err
	}
	if !exists {
		return true, nil
	}

	obs := ctx.Observer.WithFields(map[string]string{"deployment": id, "level": string(level)})

	if level == deployment.CleanupFull {
		provisioning.LogStepStart(obs, "external teardown")
		res := ctx.Runner.Run(ctx, provisioning.ScriptCleanupKubernetes, workDir, false)
		if !res.Succeeded {
			provisioning.LogStepFailed(obs, "external teardown", res.ExitCode)
			ctx.Metrics.ObserveCleanup(level, false)
			return false, nil
		}
	}

	provisioning.LogResourceDeleting(obs, phase, "working directory", workDir)
	if err := os.RemoveAll(workDir); err != nil {
		ctx.Metrics.ObserveCleanup(level, false)
		return false, fmt.Errorf("failed to remove working directory: %w", err)
	}
	provisioning.LogResourceDeleted(obs, phase, "working directory", workDir)

	err = ctx.Store.Update(func(f *state.File) error {
		f.Remove(id)
		f.ResetActive()
		return nil
	})
	if err != nil {
		ctx.Metrics.ObserveCleanup(level, false)
		return false, fmt.Errorf("failed to remove deployment record: %w", err)
	}
	provisioning.LogResourceDeleted(obs, phase, "deployment record", id)

	ctx.Metrics.ObserveCleanup(level, true)
	return true, nil
}

// CleanupForStatus cleans up using the level attached to status.
func (p *Provisioner) CleanupForStatus(ctx *provisioning.Context, id string, status deployment.Status) (bool, error) {
	return p.Cleanup(ctx, id, status.CleanupLevel())
}

// Destroy tears down a deployment at the full level, regardless of how far it got.
//
// It reports whether there was anything to destroy. A deployment without a
// working directory is a no-op and leaves the state file unchanged. IDs that
// Identity could not have produced are refused before the filesystem is touched.
func (p *Provisioner) Destroy(ctx *provisioning.Context, id string) (bool, error) {
	if !deployment.ValidID(id) {
		return false, fmt.Errorf("destroy %q: %w", id, deployment.ErrInvalidID)
	}
	exists, err := dirExists(ctx.Layout.WorkDir(id))
	if err != nil {
		return false, err
	}
	if !exists {
		ctx.Observer.Printf("[Destroy] Deployment %s could not be found", id)
		return false, nil
	}

	ctx.Observer.Printf("[Destroy] Deployment %s will be destroyed alongside its components", id)
	ok, err := p.Cleanup(ctx, id, deployment.CleanupFull)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, fmt.Errorf("destroy %s: %w", id, ErrCleanupFailed)
	}

	ctx.Observer.Printf("[Destroy] Deployment %s is destroyed and all its components have been removed", id)
	return true, nil
}

func dirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	return info.IsDir(), nil
}
