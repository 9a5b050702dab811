package provisioning

// Script names, resolved relative to the scripts directory.
const (
	ScriptPreRequirements   = "pre-requirements-kubernetes.sh"
	ScriptClusterName       = "get-k8s-cluster-context-name.sh"
	ScriptConfiguration     = "configuration-questions.sh"
	ScriptDownloadRelease   = "download-syntho-charts-release.sh"
	ScriptMajorPreDeploy    = "major-pre-deployment-operations.sh"
	ScriptDeployStack       = "deploy-ray-and-syntho-stack.sh"
	ScriptCleanupKubernetes = "cleanup-kubernetes.sh"
)

// Scripts returns every script the deployment and teardown flows invoke.
func Scripts() []string {
	return []string{
		ScriptPreRequirements,
		ScriptClusterName,
		ScriptConfiguration,
		ScriptDownloadRelease,
		ScriptMajorPreDeploy,
		ScriptDeployStack,
		ScriptCleanupKubernetes,
	}
}
