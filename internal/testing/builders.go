package testing

import "github.com/syntho/stackdeploy/internal/config"

// StackBuilder provides a fluent interface for constructing stack configs.
// Each method returns a new builder (immutable) for chaining.
type StackBuilder struct {
	cfg config.StackConfig
}

// NewStackBuilder creates a StackBuilder with valid defaults.
func NewStackBuilder() *StackBuilder {
	return &StackBuilder{
		cfg: config.StackConfig{
			Kubeconfig:       "apiVersion: v1\nkind: Config\nclusters: []\n",
			LicenseKey:       "test-license",
			RegistryUser:     "test-user",
			RegistryPassword: "test-password",
			Arch:             config.ArchAMD64,
			Version:          "1.0.0",
		},
	}
}

// WithKubeconfig sets the connection material.
func (b *StackBuilder) WithKubeconfig(material string) *StackBuilder {
	next := *b
	next.cfg.Kubeconfig = material
	return &next
}

// WithVersion sets the stack version.
func (b *StackBuilder) WithVersion(version string) *StackBuilder {
	next := *b
	next.cfg.Version = version
	return &next
}

// WithArch sets the architecture.
func (b *StackBuilder) WithArch(arch string) *StackBuilder {
	next := *b
	next.cfg.Arch = arch
	return &next
}

// Build returns the configuration.
func (b *StackBuilder) Build() config.StackConfig {
	return b.cfg
}
