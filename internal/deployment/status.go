package deployment

import "fmt"

// CleanupLevel describes how much teardown a status requires.
type CleanupLevel string

const (
	// CleanupNotApplicable means the deployment is never cleaned up automatically.
	CleanupNotApplicable CleanupLevel = "not-applicable"
	// CleanupDir removes the working directory only.
	CleanupDir CleanupLevel = "dir"
	// CleanupFull runs the external teardown step before removing the working directory.
	CleanupFull CleanupLevel = "full"
)

// Status is a stage label persisted in the state file.
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusPreparingEnv Status = "preparing-env"
	StatusInitialized  Status = "initialized"

	StatusPreReqCheckInProgress Status = "pre-req-check-in-progress"
	StatusPreReqCheckSucceeded  Status = "pre-req-check-succeeded"
	StatusPreReqCheckFailed     Status = "pre-req-check-failed"

	StatusPreDeploymentInProgress Status = "pre-deployment-operations-in-progress"
	StatusPreDeploymentSucceeded  Status = "pre-deployment-operations-succeeded"
	StatusPreDeploymentFailed     Status = "pre-deployment-operations-failed"

	// Ray cluster statuses are reserved; the current step sequence never reaches them.
	StatusRayClusterInProgress Status = "ray-cluster-deployment-in-progress"
	StatusRayClusterSucceeded  Status = "ray-cluster-deployment-succeeded"
	StatusRayClusterFailed     Status = "ray-cluster-deployment-failed"

	StatusSynthoUIInProgress Status = "syntho-ui-deployment-in-progress"
	StatusSynthoUISucceeded  Status = "syntho-ui-deployment-succeeded"
	StatusSynthoUIFailed     Status = "syntho-ui-deployment-failed"

	StatusCompleted Status = "completed"
)

type stageInfo struct {
	status  Status
	cleanup CleanupLevel
	failed  bool
}

// stages lists every status in traversal order.
var stages = []stageInfo{
	{StatusInitializing, CleanupDir, false},
	{StatusPreparingEnv, CleanupDir, false},
	{StatusInitialized, CleanupDir, false},
	{StatusPreReqCheckInProgress, CleanupDir, false},
	{StatusPreReqCheckSucceeded, CleanupDir, false},
	{StatusPreReqCheckFailed, CleanupDir, true},
	{StatusPreDeploymentInProgress, CleanupFull, false},
	{StatusPreDeploymentSucceeded, CleanupFull, false},
	{StatusPreDeploymentFailed, CleanupFull, true},
	{StatusRayClusterInProgress, CleanupFull, false},
	{StatusRayClusterSucceeded, CleanupFull, false},
	{StatusRayClusterFailed, CleanupFull, true},
	{StatusSynthoUIInProgress, CleanupFull, false},
	{StatusSynthoUISucceeded, CleanupFull, false},
	{StatusSynthoUIFailed, CleanupFull, true},
	{StatusCompleted, CleanupNotApplicable, false},
}

var stageIndex = func() map[Status]int {
	idx := make(map[Status]int, len(stages))
	for i, s := range stages {
		idx[s.status] = i
	}
	return idx
}()

// All returns every status in traversal order.
func All() []Status {
	out := make([]Status, len(stages))
	for i, s := range stages {
		out[i] = s.status
	}
	return out
}

// ParseStatus converts a persisted label into a Status.
func ParseStatus(label string) (Status, error) {
	s := Status(label)
	if !s.Valid() {
		return "", fmt.Errorf("unknown deployment status %q", label)
	}
	return s, nil
}

// Valid reports whether s is one of the defined labels.
func (s Status) Valid() bool {
	_, ok := stageIndex[s]
	return ok
}

// String implements fmt.Stringer.
func (s Status) String() string { return string(s) }

// CleanupLevel returns the static cleanup level attached to s.
// Unknown labels get the full level so that teardown never underestimates
// what might exist on the cluster.
func (s Status) CleanupLevel() CleanupLevel {
	i, ok := stageIndex[s]
	if !ok {
		return CleanupFull
	}
	return stages[i].cleanup
}

// IsFailed reports whether s is one of the failed variants.
func (s Status) IsFailed() bool {
	i, ok := stageIndex[s]
	return ok && stages[i].failed
}

// IsTerminal reports whether no further transition follows s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s.IsFailed()
}

// Rank returns the position of s in traversal order, or -1 for unknown labels.
func (s Status) Rank() int {
	i, ok := stageIndex[s]
	if !ok {
		return -1
	}
	return i
}
