package provisioning

import (
	"context"
	"time"

	"github.com/syntho/stackdeploy/internal/deployment"
	"github.com/syntho/stackdeploy/internal/metrics"
	"github.com/syntho/stackdeploy/internal/runner"
	"github.com/syntho/stackdeploy/internal/state"
)

// Context wraps all dependencies needed to drive or tear down a deployment.
type Context struct {
	context.Context
	Layout   Layout
	Store    *state.Store
	Runner   runner.Executor
	Observer Observer
	Metrics  *metrics.Recorder

	// Now returns the current time; it is replaceable for tests.
	Now func() time.Time
}

// NewContext creates a new provisioning context.
func NewContext(
	ctx context.Context,
	layout Layout,
	store *state.Store,
	exec runner.Executor,
	observer Observer,
	recorder *metrics.Recorder,
) *Context {
	return &Context{
		Context:  ctx,
		Layout:   layout,
		Store:    store,
		Runner:   exec,
		Observer: observer,
		Metrics:  recorder,
		Now:      time.Now,
	}
}

// now returns the current UTC time.
func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now().UTC()
}

// SetStatus persists a new status for the deployment in one read-modify-write cycle.
func (c *Context) SetStatus(id string, status deployment.Status) error {
	err := c.Store.Update(func(f *state.File) error {
		return f.SetStatus(id, status, c.now())
	})
	if err != nil {
		return err
	}

	LogStatusChanged(c.Observer, id, status.String())
	c.Metrics.SetStatus(id, status)
	return nil
}

// Timestamp returns the current UTC time as seen by this context.
func (c *Context) Timestamp() time.Time {
	return c.now()
}
