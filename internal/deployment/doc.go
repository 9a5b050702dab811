// Package deployment defines deployment identities and the fixed stage table.
//
// A deployment is named by a stable hash of its cluster-connection material
// and moves through the ordered statuses declared in status.go. Every status
// carries a static cleanup level that tells the destroy provisioner how much
// of the deployment footprint has to be removed.
package deployment
