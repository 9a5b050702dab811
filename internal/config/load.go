package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadStackFile reads a stack configuration from a YAML file.
// The result is not validated; flags may still fill in missing values.
func LoadStackFile(path string) (*StackConfig, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack config file: %w", err)
	}

	var cfg StackConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return &cfg, nil
}
