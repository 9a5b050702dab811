package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/syntho/stackdeploy/internal/config"
	"github.com/syntho/stackdeploy/internal/deployment"
)

// ErrDestroyAborted is returned when the operator declines the confirmation.
var ErrDestroyAborted = errors.New("destroy aborted")

// confirmDestroy asks the operator before a deployment is torn down.
var confirmDestroy = func(ctx context.Context, id string) (bool, error) {
	confirmed := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Destroy deployment %s?", id)).
				Description("The stack is removed from the cluster and the working directory deleted").
				Affirmative("Destroy").
				Negative("Cancel").
				Value(&confirmed),
		),
	).RunWithContext(ctx)
	return confirmed, err
}

// Destroy handles the destroy command.
//
// The deployment is always torn down completely, including the external
// resources created by the scripts. Without yes, an interactive terminal is
// asked for confirmation first.
func Destroy(ctx context.Context, settings config.Settings, id string, yes bool, out io.Writer) error {
	if !deployment.ValidID(id) {
		return fmt.Errorf("%q: %w", id, deployment.ErrInvalidID)
	}

	if !yes && isInteractiveTTY() {
		ok, err := confirmDestroy(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrDestroyAborted
		}
	}

	s, err := newSession(ctx, settings)
	if err != nil {
		return err
	}
	defer s.flush()

	p := newPainter()
	found, err := newDestroyer().Destroy(s.ctx, id)
	if err != nil {
		fmt.Fprintln(out, p.fail(fmt.Sprintf("Deployment %s could not be destroyed; its directory and record were kept", id)))
		return fmt.Errorf("destroy failed: %w", err)
	}
	if !found {
		fmt.Fprintln(out, p.warn(fmt.Sprintf("Deployment %s could not be found", id)))
		return nil
	}

	fmt.Fprintln(out, p.ok(fmt.Sprintf("Deployment %s destroyed", id)))
	return nil
}
