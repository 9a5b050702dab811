package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/syntho/stackdeploy/internal/config"
	"github.com/syntho/stackdeploy/internal/deployment"
	"github.com/syntho/stackdeploy/internal/state"
)

// ErrNoActiveDeployment is returned when no deployment is given and none is active.
var ErrNoActiveDeployment = errors.New("no active deployment")

// DeploymentStatus is the status command output.
type DeploymentStatus struct {
	state.Record

	Active       bool   `json:"active"`
	CleanupLevel string `json:"cleanupLevel"`
	Failed       bool   `json:"failed"`
}

// Status handles the status command. Without id the active deployment is shown.
func Status(ctx context.Context, settings config.Settings, id string, jsonOutput bool, out io.Writer) error {
	if id != "" && !deployment.ValidID(id) {
		return fmt.Errorf("%q: %w", id, deployment.ErrInvalidID)
	}

	s, err := newSession(ctx, settings)
	if err != nil {
		return err
	}

	d := newDeployer()
	active, err := d.ActiveID(s.ctx)
	if err != nil {
		return fmt.Errorf("failed to read active deployment: %w", err)
	}
	if id == "" {
		if active == "" {
			return ErrNoActiveDeployment
		}
		id = active
	}

	rec, err := d.Get(s.ctx, id)
	if err != nil {
		return err
	}

	status := DeploymentStatus{
		Record:       rec,
		Active:       rec.ID == active,
		CleanupLevel: string(rec.Status.CleanupLevel()),
		Failed:       rec.Status.IsFailed(),
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	printStatus(out, newPainter(), status)
	return nil
}

func printStatus(out io.Writer, p painter, st DeploymentStatus) {
	statusText := st.Status.String()
	switch {
	case st.Failed:
		statusText = p.fail(statusText)
	case st.Status.IsTerminal():
		statusText = p.ok(statusText)
	}

	fmt.Fprintln(out, p.section("Deployment "+st.ID))
	rows := [][2]string{
		{"Status", statusText},
		{"Version", st.Version},
		{"Cluster", lo.FromPtrOr(st.ClusterName, "-")},
		{"Started", formatTime(&st.StartedAt)},
		{"Finished", formatTime(st.FinishedAt)},
		{"Active", lo.Ternary(st.Active, "yes", "no")},
		{"Cleanup", st.CleanupLevel},
	}
	for _, r := range rows {
		fmt.Fprintf(out, "  %s %s\n", p.label(r[0]), r[1])
	}
}

// Active handles the active command.
func Active(ctx context.Context, settings config.Settings, out io.Writer) error {
	s, err := newSession(ctx, settings)
	if err != nil {
		return err
	}

	active, err := newDeployer().ActiveID(s.ctx)
	if err != nil {
		return fmt.Errorf("failed to read active deployment: %w", err)
	}
	if active == "" {
		return ErrNoActiveDeployment
	}

	fmt.Fprintln(out, active)
	return nil
}
