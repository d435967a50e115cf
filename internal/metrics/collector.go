// Package metrics counts what a single invocation did and exports it as a
// Prometheus textfile for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector holds the per-run metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	stepsTotal     *prometheus.CounterVec
	faultsTotal    *prometheus.CounterVec
	artifactsTotal *prometheus.CounterVec
	artifactBytes  *prometheus.CounterVec
	runDuration    prometheus.Gauge
	lastSuccess    prometheus.Gauge

	logger *zap.Logger
}

// NewCollector creates a collector whose metric names are prefixed with
// namespace.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	c := &Collector{
		registry: reg,
		logger:   logger,
	}

	c.stepsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Pipeline steps executed, by step",
		},
		[]string{"step"},
	)

	c.faultsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faults_total",
			Help:      "Faults that terminated the run, by kind",
		},
		[]string{"kind"},
	)

	c.artifactsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_written_total",
			Help:      "Files written, by artifact",
		},
		[]string{"artifact"},
	)

	c.artifactBytes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_bytes_total",
			Help:      "Bytes written, by artifact",
		},
		[]string{"artifact"},
	)

	c.runDuration = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run in seconds",
		},
	)

	c.lastSuccess = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run finished without a fault",
		},
	)

	return c
}

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordStep counts one executed step.
func (c *Collector) RecordStep(step string) {
	c.stepsTotal.WithLabelValues(step).Inc()
}

// RecordArtifact counts one written file of size bytes.
func (c *Collector) RecordArtifact(artifact string, size int) {
	c.artifactsTotal.WithLabelValues(artifact).Inc()
	c.artifactBytes.WithLabelValues(artifact).Add(float64(size))
}

// RecordFault counts the fault that ended the run.
func (c *Collector) RecordFault(kind string) {
	c.faultsTotal.WithLabelValues(kind).Inc()
}

// RecordRun stores the run's duration and outcome.
func (c *Collector) RecordRun(d time.Duration, success bool) {
	c.runDuration.Set(d.Seconds())
	if success {
		c.lastSuccess.Set(1)
	} else {
		c.lastSuccess.Set(0)
	}
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The write goes through a temporary file and a rename.
func (c *Collector) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	c.logger.Debug("metrics textfile written", zap.String("path", path))
	return nil
}
