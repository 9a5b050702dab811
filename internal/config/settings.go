package config

import (
	"os"
	"path/filepath"
)

// Environment variables read by LoadSettings.
const (
	EnvScriptsDir  = "STACKDEPLOY_SCRIPTS_DIR"
	EnvLogLevel    = "STACKDEPLOY_LOG_LEVEL"
	EnvMetricsFile = "STACKDEPLOY_METRICS_FILE"
)

// Settings holds the process-wide options of the CLI.
type Settings struct {
	// ScriptsDir holds the provisioning scripts; deployments live below it.
	ScriptsDir string

	// LogLevel is a zerolog level name.
	LogLevel string

	// MetricsFile receives step metrics in Prometheus text format. Empty disables it.
	MetricsFile string
}

// LoadSettings loads settings from environment variables.
// If an environment variable is not set, a default value is used.
//
// Environment Variables:
//   - STACKDEPLOY_SCRIPTS_DIR (default: current directory)
//   - STACKDEPLOY_LOG_LEVEL (default: info)
//   - STACKDEPLOY_METRICS_FILE (default: disabled)
func LoadSettings() *Settings {
	return &Settings{
		ScriptsDir:  parseString(EnvScriptsDir, "."),
		LogLevel:    parseString(EnvLogLevel, "info"),
		MetricsFile: parseString(EnvMetricsFile, ""),
	}
}

// AbsScriptsDir returns ScriptsDir as an absolute path.
// Steps run in their own working directory, so relative paths would not resolve.
func (s *Settings) AbsScriptsDir() (string, error) {
	return filepath.Abs(s.ScriptsDir)
}

// parseString reads an environment variable, falling back to defaultVal when unset.
func parseString(envVar, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}
