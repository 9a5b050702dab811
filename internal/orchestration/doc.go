// Package orchestration drives a deployment through its stages.
//
// The Deployer derives the deployment identity from the connection material,
// consults the state file to decide whether the start is new, already
// completed or unfinished, and then runs the external steps in order. Each
// step is bracketed by status writes, so the persisted status always names
// the most recently attempted stage.
//
// # Workflow
//
// A new start executes, in order:
//  1. Environment - working directory, connection material, env file
//  2. Pre-requirements - local and cluster prerequisite check
//  3. Cluster name - read-only lookup, never fatal
//  4. Pre-deployment - configuration, release download, major operations
//  5. Stack - final deployment of the application stack
//
// An unfinished deployment is never resumed automatically. The operator
// decides whether to inspect it or destroy it and start over.
package orchestration
