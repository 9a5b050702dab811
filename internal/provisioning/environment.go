package provisioning

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/syntho/stackdeploy/internal/config"
	"github.com/syntho/stackdeploy/internal/deployment"
)

// PrepareEnvironment writes the connection material and the env file into
// the deployment's working directory.
//
// A kubeconfig given as a file path is linked, kubeconfig content is written
// out. The env file holds one KEY=VALUE line per setting the scripts read.
func PrepareEnvironment(layout Layout, id string, stack config.StackConfig) error {
	if err := os.MkdirAll(layout.KubeDir(id), 0o700); err != nil {
		return fmt.Errorf("failed to create kube directory: %w", err)
	}

	kubeconfigPath := layout.KubeconfigPath(id)
	if err := os.Remove(kubeconfigPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace kubeconfig: %w", err)
	}

	if deployment.IsFile(stack.Kubeconfig) {
		source, err := filepath.Abs(stack.Kubeconfig)
		if err != nil {
			return fmt.Errorf("failed to resolve kubeconfig path: %w", err)
		}
		if err := os.Symlink(source, kubeconfigPath); err != nil {
			return fmt.Errorf("failed to link kubeconfig: %w", err)
		}
	} else if err := os.WriteFile(kubeconfigPath, []byte(stack.Kubeconfig), 0o600); err != nil {
		return fmt.Errorf("failed to write kubeconfig: %w", err)
	}

	if err := os.WriteFile(layout.EnvFilePath(id), []byte(EnvFile(stack, kubeconfigPath)), 0o600); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}

	return nil
}

// EnvFile renders the env file content for a deployment.
func EnvFile(stack config.StackConfig, kubeconfigPath string) string {
	lines := []struct{ key, value string }{
		{"LICENSE_KEY", stack.LicenseKey},
		{"REGISTRY_USER", stack.RegistryUser},
		{"REGISTRY_PWD", stack.RegistryPassword},
		{"ARCH", stack.Arch},
		{"KUBECONFIG", kubeconfigPath},
		{"VERSION", stack.Version},
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.key)
		b.WriteByte('=')
		b.WriteString(l.value)
		b.WriteByte('\n')
	}
	return b.String()
}
