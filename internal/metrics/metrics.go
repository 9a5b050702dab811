// Package metrics records step outcomes and writes them as a Prometheus textfile.
//
// The CLI is short-lived, so nothing is served; when a metrics file is
// configured the registry is flushed to it at the end of every command, in
// the format read by the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/syntho/stackdeploy/internal/deployment"
)

const namespace = "stackdeploy"

// Recorder collects metrics for one command invocation.
// A nil Recorder is valid and records nothing.
type Recorder struct {
	path     string
	registry *prometheus.Registry

	stepsTotal    *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	stage         *prometheus.GaugeVec
	cleanupsTotal *prometheus.CounterVec
}

// NewRecorder creates a recorder that flushes to path. An empty path disables flushing.
func NewRecorder(path string) *Recorder {
	r := &Recorder{
		path:     path,
		registry: prometheus.NewRegistry(),
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "step",
				Name:      "runs_total",
				Help:      "Total number of provisioning step runs by result",
			},
			[]string{"deployment", "step", "result"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "step",
				Name:      "duration_seconds",
				Help:      "Duration of provisioning steps in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
			},
			[]string{"step"},
		),
		stage: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "deployment",
				Name:      "stage",
				Help:      "Position of the deployment's last persisted status in the stage sequence",
			},
			[]string{"deployment", "status"},
		),
		cleanupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cleanup",
				Name:      "runs_total",
				Help:      "Total number of cleanups by level and result",
			},
			[]string{"level", "result"},
		),
	}

	r.registry.MustRegister(r.stepsTotal, r.stepDuration, r.stage, r.cleanupsTotal)
	return r
}

// ObserveStep records the outcome and duration of a step run.
func (r *Recorder) ObserveStep(deploymentID, step string, succeeded bool, d time.Duration) {
	if r == nil {
		return
	}
	r.stepsTotal.WithLabelValues(deploymentID, step, result(succeeded)).Inc()
	r.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// SetStatus records the last persisted status of a deployment.
func (r *Recorder) SetStatus(deploymentID string, status deployment.Status) {
	if r == nil {
		return
	}
	r.stage.DeletePartialMatch(prometheus.Labels{"deployment": deploymentID})
	r.stage.WithLabelValues(deploymentID, status.String()).Set(float64(status.Rank()))
}

// ObserveCleanup records a cleanup attempt.
func (r *Recorder) ObserveCleanup(level deployment.CleanupLevel, succeeded bool) {
	if r == nil {
		return
	}
	r.cleanupsTotal.WithLabelValues(string(level), result(succeeded)).Inc()
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Flush writes all metrics to the configured file.
func (r *Recorder) Flush() error {
	if r == nil || r.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

func result(succeeded bool) string {
	if succeeded {
		return "success"
	}
	return "failure"
}
