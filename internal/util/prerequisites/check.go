// Package prerequisites checks the local tools and scripts a deployment relies on.
package prerequisites

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string

	// VersionArgs prints the tool version. Common flags are tried when empty.
	VersionArgs []string
}

// DefaultTools returns the tools the deployment scripts cannot run without.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "kubectl",
			Required:    true,
			Description: "Used by the scripts to inspect and prepare the cluster",
			InstallURL:  "https://kubernetes.io/docs/tasks/tools/",
			VersionArgs: []string{"version", "--client"},
		},
		{
			Name:        "helm",
			Required:    true,
			Description: "Used to install the Syntho charts",
			InstallURL:  "https://helm.sh/docs/intro/install/",
			VersionArgs: []string{"version", "--short"},
		},
	}
}

// OptionalTools returns tools that are useful but not required.
func OptionalTools() []Tool {
	return []Tool{
		{
			Name:        "curl",
			Required:    false,
			Description: "Used to download chart releases",
			InstallURL:  "https://curl.se/download.html",
		},
		{
			Name:        "tar",
			Required:    false,
			Description: "Used to unpack chart releases",
			InstallURL:  "https://www.gnu.org/software/tar/",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = getToolVersion(tool)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckAll checks all tools (default + optional).
func CheckAll() *CheckResults {
	defaults := DefaultTools()
	optional := OptionalTools()
	all := make([]Tool, 0, len(defaults)+len(optional))
	all = append(all, defaults...)
	all = append(all, optional...)
	return Check(all)
}

// getToolVersion attempts to get the version of a tool.
// Returns empty string if version cannot be determined.
func getToolVersion(tool Tool) string {
	candidates := [][]string{{"--version"}, {"version"}, {"-v"}}
	if len(tool.VersionArgs) > 0 {
		candidates = [][]string{tool.VersionArgs}
	}

	for _, args := range candidates {
		// #nosec G204 - name comes from trusted Tool definitions, not user input
		cmd := exec.Command(tool.Name, args...)
		output, err := cmd.Output()
		if err == nil {
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				return strings.TrimSpace(lines[0])
			}
		}
	}

	return ""
}

// ScriptResult describes one provisioning script in the scripts directory.
type ScriptResult struct {
	Name       string
	Path       string
	Found      bool
	Executable bool
}

// Ok reports whether the script can be run.
func (s ScriptResult) Ok() bool {
	return s.Found && s.Executable
}

// CheckScripts verifies that every named script exists in dir and is executable.
func CheckScripts(dir string, names []string) []ScriptResult {
	results := make([]ScriptResult, 0, len(names))
	for _, name := range names {
		r := ScriptResult{Name: name, Path: filepath.Join(dir, name)}
		if info, err := os.Stat(r.Path); err == nil && info.Mode().IsRegular() {
			r.Found = true
			r.Executable = info.Mode().Perm()&0o111 != 0
		}
		results = append(results, r)
	}
	return results
}
