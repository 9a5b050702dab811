package config

// Supported values for StackConfig.Arch.
const (
	ArchAMD64 = "amd64"
	ArchARM64 = "arm64"
)

// DefaultArch is used when no architecture is given.
const DefaultArch = ArchAMD64

// StackConfig is everything a deployment start needs.
type StackConfig struct {
	// Kubeconfig is either a path to a kubeconfig file or the kubeconfig content itself.
	Kubeconfig string `yaml:"kubeconfig"`

	LicenseKey       string `yaml:"license_key"`
	RegistryUser     string `yaml:"registry_user"`
	RegistryPassword string `yaml:"registry_password"`

	// Arch selects the image architecture.
	Arch string `yaml:"arch"`

	// Version is the stack release to install.
	Version string `yaml:"version"`
}

// Merge returns a copy of c where every non-empty field of override wins.
func (c StackConfig) Merge(override StackConfig) StackConfig {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}

	return StackConfig{
		Kubeconfig:       pick(c.Kubeconfig, override.Kubeconfig),
		LicenseKey:       pick(c.LicenseKey, override.LicenseKey),
		RegistryUser:     pick(c.RegistryUser, override.RegistryUser),
		RegistryPassword: pick(c.RegistryPassword, override.RegistryPassword),
		Arch:             pick(c.Arch, override.Arch),
		Version:          pick(c.Version, override.Version),
	}
}

// WithDefaults fills optional fields.
func (c StackConfig) WithDefaults() StackConfig {
	if c.Arch == "" {
		c.Arch = DefaultArch
	}
	return c
}
