package provisioning

import "path/filepath"

// DeploymentsDirName is the directory below the scripts directory that holds all deployments.
const DeploymentsDirName = "deployments"

// Layout resolves filesystem locations relative to the scripts directory.
type Layout struct {
	ScriptsDir string
}

// NewLayout creates a layout rooted at scriptsDir.
func NewLayout(scriptsDir string) Layout {
	return Layout{ScriptsDir: scriptsDir}
}

// DeploymentsDir returns the directory holding every deployment and the state file.
func (l Layout) DeploymentsDir() string {
	return filepath.Join(l.ScriptsDir, DeploymentsDirName)
}

// WorkDir returns the working directory of a deployment.
func (l Layout) WorkDir(id string) string {
	return filepath.Join(l.DeploymentsDir(), id)
}

// KubeDir returns the directory that holds the deployment's connection material.
func (l Layout) KubeDir(id string) string {
	return filepath.Join(l.WorkDir(id), ".kube")
}

// KubeconfigPath returns the kubeconfig location handed to the scripts.
func (l Layout) KubeconfigPath(id string) string {
	return filepath.Join(l.KubeDir(id), "config")
}

// EnvFilePath returns the location of the deployment's environment file.
func (l Layout) EnvFilePath(id string) string {
	return filepath.Join(l.WorkDir(id), ".env")
}
