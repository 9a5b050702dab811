// Package provisioning provides shared types and the step pipeline for stack deployments.
//
// # Subpackages
//
//   - destroy/ - cleanup levels and deployment teardown
//
// # Core Types
//
// Context carries the deployment layout, state store, script executor, observer and metrics.
// Step describes one external script bracketed by status writes; RunStep executes it.
// Layout resolves the on-disk locations of deployments and their working directories.
package provisioning
