package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidArchs contains the architectures the stack images are built for.
var ValidArchs = map[string]bool{
	ArchAMD64: true,
	ArchARM64: true,
}

// Validate checks that the stack configuration is complete.
// All problems are reported at once.
func (c *StackConfig) Validate() error {
	var errs []error

	required := []struct {
		name  string
		value string
	}{
		{"kubeconfig", c.Kubeconfig},
		{"license_key", c.LicenseKey},
		{"registry_user", c.RegistryUser},
		{"registry_password", c.RegistryPassword},
		{"version", c.Version},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}

	if c.Arch != "" && !ValidArchs[c.Arch] {
		errs = append(errs, fmt.Errorf("arch %q is not supported (valid: %s, %s)", c.Arch, ArchAMD64, ArchARM64))
	}

	// Values end up in KEY=VALUE lines of the deployment env file.
	for _, v := range []struct{ name, value string }{
		{"license_key", c.LicenseKey},
		{"registry_user", c.RegistryUser},
		{"registry_password", c.RegistryPassword},
		{"version", c.Version},
	} {
		if strings.ContainsAny(v.value, "\r\n") {
			errs = append(errs, fmt.Errorf("%s must not contain line breaks", v.name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid stack configuration: %w", errors.Join(errs...))
	}
	return nil
}
