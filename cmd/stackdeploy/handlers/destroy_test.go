package handlers

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syntho/stackdeploy/internal/deployment"
	"github.com/syntho/stackdeploy/internal/provisioning"
	"github.com/syntho/stackdeploy/internal/provisioning/destroy"
	testutil "github.com/syntho/stackdeploy/internal/testing"
)

var defaultID = deployment.Identity(testutil.NewStackBuilder().Build().Kubeconfig)

func TestDestroy(t *testing.T) {
	settings, fake := setup(t)
	_, err := startDefault(t, settings)
	require.NoError(t, err)
	fake.Reset()

	var out bytes.Buffer
	require.NoError(t, Destroy(context.Background(), settings, defaultID, true, &out))
	assert.Contains(t, out.String(), "[OK] Deployment "+defaultID+" destroyed")
	assert.Equal(t, []string{provisioning.ScriptCleanupKubernetes}, fake.Steps())

	out.Reset()
	require.NoError(t, List(context.Background(), settings, &out))
	assert.Contains(t, out.String(), "No deployments found.")
}

func TestDestroy_NotFound(t *testing.T) {
	settings, fake := setup(t)

	var out bytes.Buffer
	require.NoError(t, Destroy(context.Background(), settings, deployment.Identity("other-cluster"), true, &out))
	assert.Contains(t, out.String(), "could not be found")
	assert.Empty(t, fake.Calls())
}

func TestDestroy_InvalidID(t *testing.T) {
	settings, fake := setup(t)
	_, err := startDefault(t, settings)
	require.NoError(t, err)
	fake.Reset()
	isInteractiveTTY = func() bool { return true }

	origConfirm := confirmDestroy
	t.Cleanup(func() { confirmDestroy = origConfirm })
	confirmDestroy = func(context.Context, string) (bool, error) {
		t.Fatal("an invalid id must be refused before the prompt")
		return false, nil
	}

	for _, id := range []string{"", ".", "..", "a/../b"} {
		var out bytes.Buffer
		err := Destroy(context.Background(), settings, id, false, &out)
		require.ErrorIs(t, err, deployment.ErrInvalidID, "id %q", id)
		assert.Empty(t, out.String())
	}
	assert.Empty(t, fake.Calls())

	var out bytes.Buffer
	require.NoError(t, Active(context.Background(), settings, &out))
	assert.Equal(t, defaultID+"\n", out.String())
}

func TestDestroy_TeardownFailure(t *testing.T) {
	settings, fake := setup(t)
	_, err := startDefault(t, settings)
	require.NoError(t, err)
	fake.Fail(provisioning.ScriptCleanupKubernetes, 3)

	var out bytes.Buffer
	err = Destroy(context.Background(), settings, defaultID, true, &out)
	require.ErrorIs(t, err, destroy.ErrCleanupFailed)
	assert.Contains(t, out.String(), "were kept")

	out.Reset()
	require.NoError(t, Active(context.Background(), settings, &out))
	assert.Equal(t, defaultID+"\n", out.String())
}

func TestDestroy_Confirmation(t *testing.T) {
	settings, fake := setup(t)
	_, err := startDefault(t, settings)
	require.NoError(t, err)
	fake.Reset()

	origConfirm := confirmDestroy
	t.Cleanup(func() { confirmDestroy = origConfirm })
	isInteractiveTTY = func() bool { return true }

	var asked string
	confirmDestroy = func(_ context.Context, id string) (bool, error) {
		asked = id
		return false, nil
	}

	var out bytes.Buffer
	err = Destroy(context.Background(), settings, defaultID, false, &out)
	require.ErrorIs(t, err, ErrDestroyAborted)
	assert.Equal(t, defaultID, asked)
	assert.Empty(t, fake.Calls())

	// --yes skips the prompt.
	asked = ""
	require.NoError(t, Destroy(context.Background(), settings, defaultID, true, &out))
	assert.Empty(t, asked)
}
