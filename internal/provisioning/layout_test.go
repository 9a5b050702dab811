package provisioning

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	t.Parallel()
	l := NewLayout("/opt/scripts")

	assert.Equal(t, filepath.FromSlash("/opt/scripts/deployments"), l.DeploymentsDir())
	assert.Equal(t, filepath.FromSlash("/opt/scripts/deployments/abc"), l.WorkDir("abc"))
	assert.Equal(t, filepath.FromSlash("/opt/scripts/deployments/abc/.kube"), l.KubeDir("abc"))
	assert.Equal(t, filepath.FromSlash("/opt/scripts/deployments/abc/.kube/config"), l.KubeconfigPath("abc"))
	assert.Equal(t, filepath.FromSlash("/opt/scripts/deployments/abc/.env"), l.EnvFilePath("abc"))
}

func TestScripts(t *testing.T) {
	t.Parallel()
	scripts := Scripts()

	assert.Len(t, scripts, 7)
	assert.Equal(t, ScriptPreRequirements, scripts[0])
	assert.Contains(t, scripts, ScriptCleanupKubernetes)
}
