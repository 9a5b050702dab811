package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/syntho/stackdeploy/internal/config"
	"github.com/syntho/stackdeploy/internal/deployment"
	"github.com/syntho/stackdeploy/internal/k8s"
	"github.com/syntho/stackdeploy/internal/provisioning"
	"github.com/syntho/stackdeploy/internal/util/prerequisites"
)

// ErrDoctorFailed is returned when a required check did not pass.
var ErrDoctorFailed = errors.New("doctor found problems")

// clusterTimeout bounds the cluster probes of doctor.
const clusterTimeout = 15 * time.Second

// ClusterInspector is the part of the cluster client doctor uses.
type ClusterInspector interface {
	ServerVersion() (string, error)
	Nodes(ctx context.Context) (k8s.NodeSummary, error)
	WaitReachable(ctx context.Context, timeout time.Duration) error
}

var (
	checkTools = prerequisites.CheckAll

	newClusterInspector = func(material string) (ClusterInspector, error) {
		client, err := k8s.NewClient(material)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
)

// DoctorReport is the doctor command output.
type DoctorReport struct {
	Tools      []ToolCheck    `json:"tools"`
	Scripts    []ScriptCheck  `json:"scripts"`
	Kubeconfig *ClusterReport `json:"kubeconfig,omitempty"`
}

// ToolCheck is the state of one local tool.
type ToolCheck struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Version  string `json:"version,omitempty"`
}

// ScriptCheck is the state of one provisioning script.
type ScriptCheck struct {
	Name       string `json:"name"`
	Found      bool   `json:"found"`
	Executable bool   `json:"executable"`
}

// ClusterReport describes the connection material and the cluster behind it.
type ClusterReport struct {
	DeploymentID   string   `json:"deploymentId"`
	CurrentContext string   `json:"currentContext"`
	Contexts       []string `json:"contexts"`
	Server         string   `json:"server,omitempty"`
	ServerVersion  string   `json:"serverVersion,omitempty"`
	Nodes          int      `json:"nodes"`
	ReadyNodes     int      `json:"readyNodes"`
	Error          string   `json:"error,omitempty"`
}

// Doctor handles the doctor command.
//
// It checks the local tools and the provisioning scripts. With kubeconfig
// set, the connection material is parsed and the cluster probed.
func Doctor(ctx context.Context, settings config.Settings, kubeconfig string, jsonOutput bool, out io.Writer) error {
	scriptsDir, err := settings.AbsScriptsDir()
	if err != nil {
		return fmt.Errorf("failed to resolve scripts directory: %w", err)
	}

	report := &DoctorReport{}
	tools := checkTools()
	for _, r := range tools.Results {
		report.Tools = append(report.Tools, ToolCheck{
			Name:     r.Tool.Name,
			Required: r.Tool.Required,
			Found:    r.Found,
			Version:  r.Version,
		})
	}

	scriptsOK := true
	for _, r := range prerequisites.CheckScripts(scriptsDir, provisioning.Scripts()) {
		report.Scripts = append(report.Scripts, ScriptCheck{Name: r.Name, Found: r.Found, Executable: r.Executable})
		scriptsOK = scriptsOK && r.Ok()
	}

	if kubeconfig != "" {
		report.Kubeconfig = inspectCluster(ctx, kubeconfig)
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printDoctor(out, newPainter(), report)
	}

	var problems []string
	if err := tools.Error(); err != nil {
		problems = append(problems, err.Error())
	}
	if !scriptsOK {
		problems = append(problems, "provisioning scripts missing or not executable in "+scriptsDir)
	}
	if report.Kubeconfig != nil && report.Kubeconfig.Error != "" {
		problems = append(problems, report.Kubeconfig.Error)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrDoctorFailed, strings.Join(problems, "; "))
	}
	return nil
}

func inspectCluster(ctx context.Context, material string) *ClusterReport {
	report := &ClusterReport{DeploymentID: deployment.Identity(material)}

	info, err := k8s.Inspect(material)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.CurrentContext = info.CurrentContext
	report.Contexts = info.Contexts
	report.Server = info.Server

	client, err := newClusterInspector(material)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, clusterTimeout)
	defer cancel()

	if err := client.WaitReachable(ctx, clusterTimeout); err != nil {
		report.Error = err.Error()
		return report
	}
	if report.ServerVersion, err = client.ServerVersion(); err != nil {
		report.Error = err.Error()
		return report
	}

	nodes, err := client.Nodes(ctx)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Nodes = nodes.Total
	report.ReadyNodes = nodes.Ready
	return report
}

func printDoctor(out io.Writer, p painter, r *DoctorReport) {
	fmt.Fprintln(out, p.section("Tools"))
	for _, t := range r.Tools {
		switch {
		case t.Found:
			fmt.Fprintf(out, "  %s\n", p.ok(strings.TrimSpace(t.Name+" "+t.Version)))
		case t.Required:
			fmt.Fprintf(out, "  %s\n", p.fail(t.Name+" (required)"))
		default:
			fmt.Fprintf(out, "  %s\n", p.warn(t.Name+" (optional)"))
		}
	}

	fmt.Fprintln(out, p.section("Scripts"))
	for _, s := range r.Scripts {
		switch {
		case s.Found && s.Executable:
			fmt.Fprintf(out, "  %s\n", p.ok(s.Name))
		case s.Found:
			fmt.Fprintf(out, "  %s\n", p.fail(s.Name+" (not executable)"))
		default:
			fmt.Fprintf(out, "  %s\n", p.fail(s.Name+" (missing)"))
		}
	}

	if r.Kubeconfig == nil {
		return
	}
	c := r.Kubeconfig
	fmt.Fprintln(out, p.section("Cluster"))
	fmt.Fprintf(out, "  %s %s\n", p.label("Deployment"), c.DeploymentID)
	fmt.Fprintf(out, "  %s %s\n", p.label("Context"), c.CurrentContext)
	if len(c.Contexts) > 1 {
		fmt.Fprintf(out, "  %s %s\n", p.label("Contexts"), strings.Join(c.Contexts, ", "))
	}
	if c.Server != "" {
		fmt.Fprintf(out, "  %s %s\n", p.label("Server"), c.Server)
	}
	if c.Error != "" {
		fmt.Fprintf(out, "  %s\n", p.fail(c.Error))
		return
	}
	fmt.Fprintf(out, "  %s %s\n", p.label("Version"), c.ServerVersion)
	fmt.Fprintf(out, "  %s %d/%d ready\n", p.label("Nodes"), c.ReadyNodes, c.Nodes)
}
