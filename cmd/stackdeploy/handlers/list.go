package handlers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/syntho/stackdeploy/internal/config"
	"github.com/syntho/stackdeploy/internal/state"
)

// List handles the list command.
func List(ctx context.Context, settings config.Settings, out io.Writer) error {
	s, err := newSession(ctx, settings)
	if err != nil {
		return err
	}

	d := newDeployer()
	records, err := d.List(s.ctx)
	if err != nil {
		return fmt.Errorf("failed to list deployments: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No deployments found.")
		return nil
	}

	active, err := d.ActiveID(s.ctx)
	if err != nil {
		return fmt.Errorf("failed to read active deployment: %w", err)
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Active", "ID", "Status", "Version", "Cluster", "Started", "Finished"})

	data := lo.Map(records, func(r state.Record, _ int) []string {
		return []string{
			lo.Ternary(r.ID == active, "*", ""),
			r.ID,
			r.Status.String(),
			r.Version,
			lo.FromPtr(r.ClusterName),
			formatTime(&r.StartedAt),
			formatTime(r.FinishedAt),
		}
	})

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to render deployment table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render deployment table: %w", err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// DeploymentIDs returns the recorded deployment IDs, each followed by a tab
// and its status, in the form shell completion expects.
func DeploymentIDs(ctx context.Context, settings config.Settings) ([]string, error) {
	s, err := newSession(ctx, settings)
	if err != nil {
		return nil, err
	}

	records, err := newDeployer().List(s.ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(records, func(r state.Record, _ int) string {
		return r.ID + "\t" + r.Status.String()
	}), nil
}
