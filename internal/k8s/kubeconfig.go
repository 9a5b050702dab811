// Package k8s inspects the cluster a deployment targets.
//
// It is only used for operator diagnostics. The deployment itself never
// talks to the cluster directly; the external scripts do.
package k8s

import (
	"errors"
	"fmt"
	"sort"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/syntho/stackdeploy/internal/deployment"
)

// ErrNoCurrentContext is returned when a kubeconfig does not select a context.
var ErrNoCurrentContext = errors.New("kubeconfig has no current context")

// KubeconfigInfo summarizes a kubeconfig.
type KubeconfigInfo struct {
	CurrentContext string
	Contexts       []string

	// Cluster and Server belong to the current context.
	Cluster string
	Server  string
}

// Load parses connection material, given either as a file path or as kubeconfig content.
func Load(material string) (*clientcmdapi.Config, error) {
	if deployment.IsFile(material) {
		cfg, err := clientcmd.LoadFromFile(material)
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig file: %w", err)
		}
		return cfg, nil
	}

	cfg, err := clientcmd.Load([]byte(material))
	if err != nil {
		return nil, fmt.Errorf("failed to parse kubeconfig: %w", err)
	}
	return cfg, nil
}

// Inspect loads material and reports its contexts.
func Inspect(material string) (*KubeconfigInfo, error) {
	cfg, err := Load(material)
	if err != nil {
		return nil, err
	}

	info := &KubeconfigInfo{CurrentContext: cfg.CurrentContext}
	for name := range cfg.Contexts {
		info.Contexts = append(info.Contexts, name)
	}
	sort.Strings(info.Contexts)

	if cur, ok := cfg.Contexts[cfg.CurrentContext]; ok {
		info.Cluster = cur.Cluster
		if cluster, ok := cfg.Clusters[cur.Cluster]; ok {
			info.Server = cluster.Server
		}
	}
	return info, nil
}

// RESTConfig builds a client configuration for the current context of material.
func RESTConfig(material string) (*rest.Config, error) {
	cfg, err := Load(material)
	if err != nil {
		return nil, err
	}
	if cfg.CurrentContext == "" {
		return nil, ErrNoCurrentContext
	}

	restCfg, err := clientcmd.NewDefaultClientConfig(*cfg, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build client config: %w", err)
	}
	return restCfg, nil
}
