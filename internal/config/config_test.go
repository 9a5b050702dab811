package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStack() StackConfig {
	return StackConfig{
		Kubeconfig:       "/home/op/.kube/config",
		LicenseKey:       "lic-123",
		RegistryUser:     "user",
		RegistryPassword: "secret",
		Arch:             ArchAMD64,
		Version:          "1.4.0",
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv(EnvScriptsDir, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvMetricsFile, "")

	s := LoadSettings()
	assert.Equal(t, ".", s.ScriptsDir)
	assert.Equal(t, "info", s.LogLevel)
	assert.Empty(t, s.MetricsFile)
}

func TestLoadSettings_FromEnv(t *testing.T) {
	t.Setenv(EnvScriptsDir, "/opt/scripts")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvMetricsFile, "/var/lib/node_exporter/stackdeploy.prom")

	s := LoadSettings()
	assert.Equal(t, "/opt/scripts", s.ScriptsDir)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "/var/lib/node_exporter/stackdeploy.prom", s.MetricsFile)

	abs, err := s.AbsScriptsDir()
	require.NoError(t, err)
	assert.Equal(t, "/opt/scripts", abs)
}

func TestStackConfig_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(c *StackConfig)
		wantErr []string
	}{
		{name: "valid", mutate: func(_ *StackConfig) {}},
		{name: "empty arch is allowed", mutate: func(c *StackConfig) { c.Arch = "" }},
		{name: "arm64", mutate: func(c *StackConfig) { c.Arch = ArchARM64 }},
		{
			name:    "missing kubeconfig",
			mutate:  func(c *StackConfig) { c.Kubeconfig = " " },
			wantErr: []string{"kubeconfig is required"},
		},
		{
			name: "several missing",
			mutate: func(c *StackConfig) {
				c.LicenseKey = ""
				c.RegistryPassword = ""
				c.Version = ""
			},
			wantErr: []string{"license_key is required", "registry_password is required", "version is required"},
		},
		{
			name:    "bad arch",
			mutate:  func(c *StackConfig) { c.Arch = "s390x" },
			wantErr: []string{`arch "s390x" is not supported`},
		},
		{
			name:    "line break",
			mutate:  func(c *StackConfig) { c.LicenseKey = "abc\nEVIL=1" },
			wantErr: []string{"license_key must not contain line breaks"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := validStack()
			tt.mutate(&c)
			err := c.Validate()
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestStackConfig_MergeAndDefaults(t *testing.T) {
	t.Parallel()
	base := validStack()
	merged := base.Merge(StackConfig{Version: "2.0.0", Arch: ""})

	assert.Equal(t, "2.0.0", merged.Version)
	assert.Equal(t, base.LicenseKey, merged.LicenseKey)
	assert.Equal(t, ArchAMD64, merged.Arch)

	assert.Equal(t, DefaultArch, StackConfig{}.WithDefaults().Arch)
	assert.Equal(t, ArchARM64, StackConfig{Arch: ArchARM64}.WithDefaults().Arch)
}

func TestLoadStackFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "stack.yaml")
	content := `kubeconfig: /tmp/kubeconfig
license_key: lic-1
registry_user: bot
registry_password: pw
arch: arm64
version: 1.2.3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadStackFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/kubeconfig", cfg.Kubeconfig)
	assert.Equal(t, "pw", cfg.RegistryPassword)
	assert.Equal(t, ArchARM64, cfg.Arch)
	assert.Equal(t, "1.2.3", cfg.Version)
	require.NoError(t, cfg.Validate())
}

func TestLoadStackFile_Errors(t *testing.T) {
	t.Parallel()
	_, err := LoadStackFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read stack config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: [1"), 0o600))
	_, err = LoadStackFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}
