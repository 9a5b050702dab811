// Package destroy handles deployment teardown and cleanup.
//
// How much is removed depends on the cleanup level of the deployment's last
// status: nothing for completed deployments, only the working directory for
// deployments that never touched the cluster, and the external teardown
// script followed by the working directory for everything else. An explicit
// destroy always uses the full level.
package destroy
