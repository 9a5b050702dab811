// Package config defines the operator settings and the stack configuration
// used to start a deployment.
//
// [Settings] come from environment variables with defaults and can be
// overridden by CLI flags. [StackConfig] holds what a single deployment needs
// (connection material, registry credentials, architecture, version); it can
// be read from a YAML file and is always validated before a start.
package config
