package provisioning

import (
	"time"

	"github.com/syntho/stackdeploy/internal/deployment"
	"github.com/syntho/stackdeploy/internal/runner"
)

// Step is one external script of the deployment sequence.
//
// InProgress is persisted before the script runs and Succeeded or Failed
// after it exits. Empty statuses are not written, which lets several steps
// share one status group.
type Step struct {
	// Script is the file name inside the scripts directory.
	Script string

	// Title is the human-readable step name used in logs.
	Title string

	InProgress deployment.Status
	Succeeded  deployment.Status
	Failed     deployment.Status

	// Capture collects the script output instead of streaming it.
	Capture bool

	// FailureReason describes the failure to the operator.
	FailureReason string
}

// RunStep executes step for the deployment and brackets it with status writes.
// The returned error only reports state persistence problems; a failing
// script is reported through the result.
func RunStep(ctx *Context, id string, step Step) (runner.Result, error) {
	start := time.Now()
	LogStepStart(ctx.Observer, step.Title)

	if step.InProgress != "" {
		if err := ctx.SetStatus(id, step.InProgress); err != nil {
			return runner.Result{}, err
		}
	}

	res := ctx.Runner.Run(ctx, step.Script, ctx.Layout.WorkDir(id), step.Capture)
	ctx.Metrics.ObserveStep(id, step.Script, res.Succeeded, time.Since(start))

	if !res.Succeeded {
		LogStepFailed(ctx.Observer, step.Title, res.ExitCode)
		if step.Failed != "" {
			if err := ctx.SetStatus(id, step.Failed); err != nil {
				return res, err
			}
		}
		return res, nil
	}

	if step.Succeeded != "" {
		if err := ctx.SetStatus(id, step.Succeeded); err != nil {
			return res, err
		}
	}
	LogStepSucceeded(ctx.Observer, step.Title, time.Since(start))
	return res, nil
}
