package orchestration

import (
	"fmt"

	"github.com/syntho/stackdeploy/internal/deployment"
	"github.com/syntho/stackdeploy/internal/provisioning"
	"github.com/syntho/stackdeploy/internal/state"
)

// List returns every deployment record in creation order.
func (d *Deployer) List(ctx *provisioning.Context) ([]state.Record, error) {
	f, err := ctx.Store.Load()
	if err != nil {
		return nil, err
	}
	return f.Records(), nil
}

// ActiveID returns the active deployment, or "" when there is none.
func (d *Deployer) ActiveID(ctx *provisioning.Context) (string, error) {
	f, err := ctx.Store.Load()
	if err != nil {
		return "", err
	}
	return f.ActiveID(), nil
}

// Get returns the record of one deployment.
func (d *Deployer) Get(ctx *provisioning.Context, id string) (state.Record, error) {
	f, err := ctx.Store.Load()
	if err != nil {
		return state.Record{}, err
	}
	rec, ok := f.Find(id)
	if !ok {
		return state.Record{}, fmt.Errorf("deployment %s: %w", id, ErrNotFound)
	}
	return rec, nil
}

// IsCompleted reports whether the deployment reached the completed stage.
func (d *Deployer) IsCompleted(ctx *provisioning.Context, id string) (bool, error) {
	rec, err := d.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return rec.Status == deployment.StatusCompleted, nil
}
