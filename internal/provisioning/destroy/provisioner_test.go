package destroy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syntho/stackdeploy/internal/deployment"
	"github.com/syntho/stackdeploy/internal/provisioning"
	"github.com/syntho/stackdeploy/internal/state"
	testutil "github.com/syntho/stackdeploy/internal/testing"
)

// idOf derives a deployment ID the way a start would.
func idOf(name string) string {
	return deployment.Identity("cluster-" + name)
}

func seed(t *testing.T, fx *testutil.Fixture, id string, status deployment.Status) {
	t.Helper()
	fx.SeedDeployment(t, state.Record{ID: id, Status: status, Version: "1.0.0", StartedAt: testutil.FixedTime})
}

func TestProvisionerName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Destroy", NewProvisioner().Name())
}

func TestCleanup_NotApplicableKeepsEverything(t *testing.T) {
	t.Parallel()
	fx := testutil.NewFixture(t)
	seed(t, fx, idOf("done"), deployment.StatusCompleted)
	before := fx.StateBytes(t)

	ok, err := NewProvisioner().Cleanup(fx.Ctx, idOf("done"), deployment.CleanupNotApplicable)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, fx.WorkDirExists(idOf("done")))
	assert.Equal(t, before, fx.StateBytes(t))
	assert.Empty(t, fx.Runner.Calls())
}

func TestCleanup_MissingDirectoryIsNoop(t *testing.T) {
	t.Parallel()
	fx := testutil.NewFixture(t)

	for _, level := range []deployment.CleanupLevel{deployment.CleanupDir, deployment.CleanupFull} {
		ok, err := NewProvisioner().Cleanup(fx.Ctx, idOf("ghost"), level)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Empty(t, fx.Runner.Calls())
	assert.Nil(t, fx.StateBytes(t))
}

func TestCleanup_DirOnly(t *testing.T) {
	t.Parallel()
	fx := testutil.NewFixture(t)
	seed(t, fx, idOf("early"), deployment.StatusPreReqCheckFailed)

	ok, err := NewProvisioner().CleanupForStatus(fx.Ctx, idOf("early"), deployment.StatusPreReqCheckFailed)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Empty(t, fx.Runner.Calls(), "dir level must not run the teardown script")
	assert.False(t, fx.WorkDirExists(idOf("early")))

	f := fx.LoadState(t)
	assert.Empty(t, f.Deployments)
	assert.Nil(t, f.ActiveDeploymentID)
}

func TestCleanup_FullRunsTeardownInWorkDir(t *testing.T) {
	t.Parallel()
	fx := testutil.NewFixture(t)
	seed(t, fx, idOf("late"), deployment.StatusSynthoUIFailed)

	ok, err := NewProvisioner().CleanupForStatus(fx.Ctx, idOf("late"), deployment.StatusSynthoUIFailed)
	require.NoError(t, err)
	assert.True(t, ok)

	calls := fx.Runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, provisioning.ScriptCleanupKubernetes, calls[0].Step)
	assert.Equal(t, fx.Layout.WorkDir(idOf("late")), calls[0].WorkDir)
	assert.False(t, fx.WorkDirExists(idOf("late")))
	assert.Empty(t, fx.LoadState(t).Deployments)
}

func TestCleanup_FullTeardownFailureKeepsState(t *testing.T) {
	t.Parallel()
	fx := testutil.NewFixture(t)
	seed(t, fx, idOf("stuck"), deployment.StatusPreDeploymentFailed)
	fx.Runner.Fail(provisioning.ScriptCleanupKubernetes, 1)
	before := fx.StateBytes(t)

	ok, err := NewProvisioner().Cleanup(fx.Ctx, idOf("stuck"), deployment.CleanupFull)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, fx.WorkDirExists(idOf("stuck")))
	assert.Equal(t, before, fx.StateBytes(t))
	rec, found := fx.LoadState(t).Find(idOf("stuck"))
	require.True(t, found)
	assert.Equal(t, deployment.StatusPreDeploymentFailed, rec.Status)
}

func TestCleanup_ActiveMovesToLastRemaining(t *testing.T) {
	t.Parallel()
	fx := testutil.NewFixture(t)
	seed(t, fx, idOf("first"), deployment.StatusCompleted)
	seed(t, fx, idOf("second"), deployment.StatusCompleted)
	seed(t, fx, idOf("third"), deployment.StatusPreReqCheckFailed)

	ok, err := NewProvisioner().Cleanup(fx.Ctx, idOf("third"), deployment.CleanupDir)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, idOf("second"), fx.LoadState(t).ActiveID())

	ok, err = NewProvisioner().Cleanup(fx.Ctx, idOf("first"), deployment.CleanupFull)
	require.NoError(t, err)
	require.True(t, ok)

	f := fx.LoadState(t)
	assert.Equal(t, idOf("second"), f.ActiveID())
	require.Len(t, f.Deployments, 1)
}

func TestDestroy_AlwaysFull(t *testing.T) {
	t.Parallel()
	fx := testutil.NewFixture(t)
	seed(t, fx, idOf("early"), deployment.StatusInitialized)

	found, err := NewProvisioner().Destroy(fx.Ctx, idOf("early"))
	require.NoError(t, err)
	assert.True(t, found)

	assert.Equal(t, []string{provisioning.ScriptCleanupKubernetes}, fx.Runner.Steps())
	assert.False(t, fx.WorkDirExists(idOf("early")))

	f := fx.LoadState(t)
	assert.Empty(t, f.Deployments)
	assert.Nil(t, f.ActiveDeploymentID)
}

func TestDestroy_CompletedDeployment(t *testing.T) {
	t.Parallel()
	fx := testutil.NewFixture(t)
	seed(t, fx, idOf("done"), deployment.StatusCompleted)

	found, err := NewProvisioner().Destroy(fx.Ctx, idOf("done"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, fx.WorkDirExists(idOf("done")))
}

func TestDestroy_MissingDirectory(t *testing.T) {
	t.Parallel()
	fx := testutil.NewFixture(t)
	seed(t, fx, idOf("other"), deployment.StatusCompleted)
	before := fx.StateBytes(t)

	found, err := NewProvisioner().Destroy(fx.Ctx, idOf("ghost"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, fx.Runner.Calls())
	assert.Equal(t, before, fx.StateBytes(t))
}

func TestDestroy_TeardownFailure(t *testing.T) {
	t.Parallel()
	fx := testutil.NewFixture(t)
	seed(t, fx, idOf("stuck"), deployment.StatusSynthoUIFailed)
	fx.Runner.Fail(provisioning.ScriptCleanupKubernetes, 2)

	found, err := NewProvisioner().Destroy(fx.Ctx, idOf("stuck"))
	require.ErrorIs(t, err, ErrCleanupFailed)
	assert.True(t, found)
	assert.True(t, fx.WorkDirExists(idOf("stuck")))
	_, ok := fx.LoadState(t).Find(idOf("stuck"))
	assert.True(t, ok)

	// Retry after the teardown script is fixed.
	fx.Runner.Output(provisioning.ScriptCleanupKubernetes, "")
	found, err = NewProvisioner().Destroy(fx.Ctx, idOf("stuck"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, fx.WorkDirExists(idOf("stuck")))
}

func TestCleanup_EmitsDeletionEvents(t *testing.T) {
	t.Parallel()
	fx := testutil.NewFixture(t)
	seed(t, fx, idOf("early"), deployment.StatusInitializing)

	_, err := NewProvisioner().Cleanup(fx.Ctx, idOf("early"), deployment.CleanupDir)
	require.NoError(t, err)

	assert.Len(t, fx.Observer.EventsOfType(provisioning.EventResourceDeleting), 1)
	assert.Len(t, fx.Observer.EventsOfType(provisioning.EventResourceDeleted), 2)
}

func TestDestroy_RefusesUnsafeIDs(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", ".", "..", "a/../b", "../deployments", "keepme"} {
		t.Run(id, func(t *testing.T) {
			t.Parallel()
			fx := testutil.NewFixture(t)
			seed(t, fx, idOf("keepme"), deployment.StatusCompleted)
			require.NoError(t, os.MkdirAll(filepath.Join(fx.Layout.DeploymentsDir(), "keepme"), 0o750))
			precious := testutil.WriteScript(t, fx.ScriptsDir, "precious.sh", "true")
			before := fx.StateBytes(t)

			found, err := NewProvisioner().Destroy(fx.Ctx, id)
			require.ErrorIs(t, err, deployment.ErrInvalidID)
			assert.False(t, found)

			ok, err := NewProvisioner().Cleanup(fx.Ctx, id, deployment.CleanupDir)
			require.ErrorIs(t, err, deployment.ErrInvalidID)
			assert.False(t, ok)

			assert.Empty(t, fx.Runner.Calls())
			assert.Equal(t, before, fx.StateBytes(t))
			assert.True(t, fx.WorkDirExists(idOf("keepme")))
			assert.DirExists(t, filepath.Join(fx.Layout.DeploymentsDir(), "keepme"))
			assert.FileExists(t, precious)
		})
	}
}
