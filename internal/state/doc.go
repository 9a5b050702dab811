// Package state persists deployment records in a single YAML document.
//
// The document lives at <scripts>/deployments/k8s-deployment-state.yaml and is
// always rewritten in full. Callers load it, mutate the in-memory File and save
// it back; Store.Update wraps that cycle. The store does no locking.
package state
