package orchestration

import (
	"github.com/syntho/stackdeploy/internal/deployment"
	"github.com/syntho/stackdeploy/internal/provisioning"
)

var preRequirementsStep = provisioning.Step{
	Script:        provisioning.ScriptPreRequirements,
	Title:         "pre-requirement check",
	InProgress:    deployment.StatusPreReqCheckInProgress,
	Succeeded:     deployment.StatusPreReqCheckSucceeded,
	Failed:        deployment.StatusPreReqCheckFailed,
	FailureReason: "pre-requirement check failed",
}

var clusterNameStep = provisioning.Step{
	Script:  provisioning.ScriptClusterName,
	Title:   "cluster name lookup",
	Capture: true,
}

// preDeploymentSteps share one status group. The succeeded status is only
// written once the last of them has passed.
var preDeploymentSteps = []provisioning.Step{
	{
		Script:        provisioning.ScriptConfiguration,
		Title:         "configuration",
		InProgress:    deployment.StatusPreDeploymentInProgress,
		Failed:        deployment.StatusPreDeploymentFailed,
		FailureReason: "pre deployment operations failed - configuration",
	},
	{
		Script:        provisioning.ScriptDownloadRelease,
		Title:         "release download",
		InProgress:    deployment.StatusPreDeploymentInProgress,
		Failed:        deployment.StatusPreDeploymentFailed,
		FailureReason: "pre deployment operations failed - downloading syntho-charts release",
	},
	{
		Script:        provisioning.ScriptMajorPreDeploy,
		Title:         "major pre-deployment operations",
		InProgress:    deployment.StatusPreDeploymentInProgress,
		Succeeded:     deployment.StatusPreDeploymentSucceeded,
		Failed:        deployment.StatusPreDeploymentFailed,
		FailureReason: "pre deployment operations failed - major pre-deployment operations",
	},
}

var stackStep = provisioning.Step{
	Script:        provisioning.ScriptDeployStack,
	Title:         "stack deployment",
	InProgress:    deployment.StatusSynthoUIInProgress,
	Succeeded:     deployment.StatusSynthoUISucceeded,
	Failed:        deployment.StatusSynthoUIFailed,
	FailureReason: "syntho stack deployment failed",
}

// Sequence returns the steps of a new start in execution order.
func Sequence() []provisioning.Step {
	steps := []provisioning.Step{preRequirementsStep, clusterNameStep}
	steps = append(steps, preDeploymentSteps...)
	return append(steps, stackStep)
}
