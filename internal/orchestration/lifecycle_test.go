package orchestration

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/syntho/stackdeploy/internal/config"
	"github.com/syntho/stackdeploy/internal/deployment"
	"github.com/syntho/stackdeploy/internal/metrics"
	"github.com/syntho/stackdeploy/internal/provisioning"
	"github.com/syntho/stackdeploy/internal/provisioning/destroy"
	"github.com/syntho/stackdeploy/internal/runner"
	"github.com/syntho/stackdeploy/internal/state"
)

const traceStep = `echo "$(basename "$0")" >> "$DEPLOYMENT_DIR/../../trace.log"`

var _ = Describe("Deployment lifecycle", func() {
	var (
		scriptsDir  string
		metricsFile string
		ctx         *provisioning.Context
		deployer    *Deployer
		destroyer   *destroy.Provisioner
		stack       config.StackConfig
	)

	writeScript := func(name, body string) {
		path := filepath.Join(scriptsDir, name)
		Expect(os.WriteFile(path, []byte("#!/bin/sh\n"+traceStep+"\n"+body+"\n"), 0o755)).To(Succeed()) // #nosec G306
	}

	trace := func() []string {
		data, err := os.ReadFile(filepath.Join(scriptsDir, "trace.log"))
		if os.IsNotExist(err) {
			return nil
		}
		Expect(err).NotTo(HaveOccurred())
		return strings.Fields(string(data))
	}

	clearTrace := func() {
		Expect(os.RemoveAll(filepath.Join(scriptsDir, "trace.log"))).To(Succeed())
	}

	loadState := func() *state.File {
		f, err := ctx.Store.Load()
		Expect(err).NotTo(HaveOccurred())
		return f
	}

	BeforeEach(func() {
		var err error
		scriptsDir, err = os.MkdirTemp("", "stackdeploy-scripts-")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, scriptsDir)

		for _, script := range provisioning.Scripts() {
			writeScript(script, "exit 0")
		}
		writeScript(provisioning.ScriptClusterName, "echo kind-e2e")

		layout := provisioning.NewLayout(scriptsDir)
		logger := zerolog.New(GinkgoWriter)
		exec := &runner.Runner{ScriptsDir: scriptsDir, Stdout: GinkgoWriter, Stderr: GinkgoWriter}
		metricsFile = filepath.Join(scriptsDir, "stackdeploy.prom")

		ctx = provisioning.NewContext(
			context.Background(),
			layout,
			state.NewStore(layout.DeploymentsDir(), logger),
			exec,
			provisioning.NewConsoleObserver(logger),
			metrics.NewRecorder(metricsFile),
		)
		deployer = NewDeployer()
		destroyer = destroy.NewProvisioner()
		stack = config.StackConfig{
			Kubeconfig:       "apiVersion: v1\nkind: Config\ncurrent-context: e2e\n",
			LicenseKey:       "license",
			RegistryUser:     "user",
			RegistryPassword: "secret",
			Version:          "1.2.3",
		}
	})

	Context("when every step succeeds", func() {
		It("completes and stays completed on a second start", func() {
			res, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Succeeded).To(BeTrue())
			Expect(res.Status).To(Equal(deployment.StatusCompleted))
			Expect(trace()).To(Equal(scripts(Sequence())))

			rec, ok := loadState().Find(res.DeploymentID)
			Expect(ok).To(BeTrue())
			Expect(rec.ClusterName).NotTo(BeNil())
			Expect(*rec.ClusterName).To(Equal("kind-e2e"))
			Expect(rec.FinishedAt).NotTo(BeNil())

			clearTrace()
			again, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Succeeded).To(BeTrue())
			Expect(trace()).To(BeEmpty())
		})

		It("writes the env file the scripts read", func() {
			res, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())

			env, err := os.ReadFile(ctx.Layout.EnvFilePath(res.DeploymentID))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(env)).To(ContainSubstring("LICENSE_KEY=license\n"))
			Expect(string(env)).To(ContainSubstring("ARCH=amd64\n"))
			Expect(string(env)).To(HaveSuffix("VERSION=1.2.3\n"))
		})

		It("writes step metrics to the textfile", func() {
			_, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())
			Expect(ctx.Metrics.Flush()).To(Succeed())

			data, err := os.ReadFile(metricsFile)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("stackdeploy_step_runs_total"))
			Expect(string(data)).To(ContainSubstring(provisioning.ScriptDeployStack))
		})
	})

	Context("when the release download fails", func() {
		BeforeEach(func() {
			writeScript(provisioning.ScriptDownloadRelease, "exit 7")
		})

		It("stops at the shared pre-deployment failure", func() {
			res, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Succeeded).To(BeFalse())
			Expect(res.Status).To(Equal(deployment.StatusPreDeploymentFailed))
			Expect(res.Reason).To(ContainSubstring("downloading syntho-charts release"))
			Expect(trace()).NotTo(ContainElement(provisioning.ScriptMajorPreDeploy))
		})

		It("reports the deployment as unfinished without re-running anything", func() {
			first, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())
			clearTrace()

			second, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Unfinished).To(BeTrue())
			Expect(second.Reason).To(Equal(ReasonUnfinished))
			Expect(second.Status).To(Equal(first.Status))
			Expect(trace()).To(BeEmpty())
		})

		It("can be destroyed and started again", func() {
			first, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())
			clearTrace()

			found, err := destroyer.Destroy(ctx, first.DeploymentID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(trace()).To(Equal([]string{provisioning.ScriptCleanupKubernetes}))

			f := loadState()
			Expect(f.Deployments).To(BeEmpty())
			Expect(f.ActiveDeploymentID).To(BeNil())

			writeScript(provisioning.ScriptDownloadRelease, "exit 0")
			res, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Succeeded).To(BeTrue())
			Expect(res.DeploymentID).To(Equal(first.DeploymentID))
		})
	})

	Context("when the teardown script fails", func() {
		It("keeps the working directory and the record", func() {
			writeScript(provisioning.ScriptDeployStack, "exit 1")
			writeScript(provisioning.ScriptCleanupKubernetes, "exit 5")

			res, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())
			before, err := os.ReadFile(ctx.Store.Path())
			Expect(err).NotTo(HaveOccurred())

			_, err = destroyer.Destroy(ctx, res.DeploymentID)
			Expect(err).To(MatchError(destroy.ErrCleanupFailed))

			after, err := os.ReadFile(ctx.Store.Path())
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
			Expect(ctx.Layout.WorkDir(res.DeploymentID)).To(BeADirectory())
		})
	})

	Context("when a script is missing", func() {
		It("fails the step with the sentinel exit code", func() {
			Expect(os.Remove(filepath.Join(scriptsDir, provisioning.ScriptPreRequirements))).To(Succeed())

			res, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(deployment.StatusPreReqCheckFailed))
			Expect(trace()).To(BeEmpty())
		})
	})

	Context("with two deployments", func() {
		It("moves the active deployment back when the newer one is cleaned up", func() {
			first, err := deployer.Start(ctx, stack)
			Expect(err).NotTo(HaveOccurred())

			other := stack
			other.Kubeconfig = "apiVersion: v1\nkind: Config\ncurrent-context: other\n"
			writeScript(provisioning.ScriptPreRequirements, "exit 1")
			second, err := deployer.Start(ctx, other)
			Expect(err).NotTo(HaveOccurred())
			Expect(loadState().ActiveID()).To(Equal(second.DeploymentID))

			ok, err := destroyer.CleanupForStatus(ctx, second.DeploymentID, second.Status)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			f := loadState()
			Expect(f.ActiveID()).To(Equal(first.DeploymentID))
			Expect(f.Deployments).To(HaveLen(1))
		})
	})
})
