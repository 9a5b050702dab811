package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/syntho/stackdeploy/internal/deployment"
)

var (
	// ErrUnknownDeployment is returned when an operation references an ID that has no record.
	ErrUnknownDeployment = errors.New("unknown deployment")

	// ErrStatusRegression is returned when a status change would move a record backwards.
	ErrStatusRegression = errors.New("status regression")
)

// Record is the persisted progress of one deployment.
type Record struct {
	ID          string            `yaml:"id" json:"id"`
	Status      deployment.Status `yaml:"status" json:"status"`
	Version     string            `yaml:"version" json:"version"`
	StartedAt   time.Time         `yaml:"started_at" json:"startedAt"`
	FinishedAt  *time.Time        `yaml:"finished_at" json:"finishedAt"`
	ClusterName *string           `yaml:"cluster_name" json:"clusterName"`
}

// File is the whole state document.
type File struct {
	ActiveDeploymentID *string  `yaml:"active_deployment_id"`
	Deployments        []Record `yaml:"deployments"`
}

// NewFile returns an empty state document.
func NewFile() *File {
	return &File{Deployments: []Record{}}
}

// Find returns the record with the given ID.
func (f *File) Find(id string) (Record, bool) {
	return lo.Find(f.Deployments, func(r Record) bool { return r.ID == id })
}

// Records returns a copy of all records in creation order.
func (f *File) Records() []Record {
	out := make([]Record, len(f.Deployments))
	copy(out, f.Deployments)
	return out
}

// Upsert inserts r, or overwrites the existing record with the same ID in place.
func (f *File) Upsert(r Record) {
	_, i, ok := lo.FindIndexOf(f.Deployments, func(existing Record) bool { return existing.ID == r.ID })
	if ok {
		f.Deployments[i] = r
		return
	}
	f.Deployments = append(f.Deployments, r)
}

// Remove deletes the record with the given ID and reports whether it existed.
// The active pointer is not touched; see ResetActive.
func (f *File) Remove(id string) bool {
	before := len(f.Deployments)
	f.Deployments = lo.Filter(f.Deployments, func(r Record, _ int) bool { return r.ID != id })
	return len(f.Deployments) != before
}

// SetActive points the active deployment at id, which must have a record.
func (f *File) SetActive(id string) error {
	if _, ok := f.Find(id); !ok {
		return fmt.Errorf("set active deployment %s: %w", id, ErrUnknownDeployment)
	}
	f.ActiveDeploymentID = lo.ToPtr(id)
	return nil
}

// ResetActive points the active deployment at the most recently created
// remaining record, or clears it when none are left.
func (f *File) ResetActive() {
	if len(f.Deployments) == 0 {
		f.ActiveDeploymentID = nil
		return
	}
	f.ActiveDeploymentID = lo.ToPtr(f.Deployments[len(f.Deployments)-1].ID)
}

// ActiveID returns the active deployment ID, or "" when unset.
func (f *File) ActiveID() string {
	return lo.FromPtr(f.ActiveDeploymentID)
}

// SetStatus updates the status of an existing record.
// Completed records also get their finish timestamp.
func (f *File) SetStatus(id string, status deployment.Status, now time.Time) error {
	_, i, ok := lo.FindIndexOf(f.Deployments, func(r Record) bool { return r.ID == id })
	if !ok {
		return fmt.Errorf("set status %s on %s: %w", status, id, ErrUnknownDeployment)
	}
	if current := f.Deployments[i].Status; status.Rank() < current.Rank() {
		return fmt.Errorf("set status %s on %s (currently %s): %w", status, id, current, ErrStatusRegression)
	}
	f.Deployments[i].Status = status
	if status == deployment.StatusCompleted {
		finished := now.UTC()
		f.Deployments[i].FinishedAt = &finished
	}
	return nil
}

// SetClusterName records the cluster name reported by the lookup step.
func (f *File) SetClusterName(id, name string) error {
	_, i, ok := lo.FindIndexOf(f.Deployments, func(r Record) bool { return r.ID == id })
	if !ok {
		return fmt.Errorf("set cluster name on %s: %w", id, ErrUnknownDeployment)
	}
	f.Deployments[i].ClusterName = lo.ToPtr(name)
	return nil
}
