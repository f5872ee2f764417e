package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Metrics = (*PromMetrics)(nil)

// PromMetrics implements ports.Metrics with a private Prometheus registry.
// A build is a short-lived process, so values are written to a file at the
// end instead of being scraped.
type PromMetrics struct {
	registry *prometheus.Registry

	skipped  prometheus.Counter
	executed *prometheus.CounterVec
	failed   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inputs   prometheus.Histogram
	outputs  prometheus.Histogram
}

// NewMetrics registers the build metrics on a fresh registry.
func NewMetrics() *PromMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PromMetrics{
		registry: reg,
		skipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "fab_commands_skipped_total",
			Help: "Commands that were up to date and not run.",
		}),
		executed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fab_commands_executed_total",
			Help: "Commands that were run, by runner.",
		}, []string{"runner"}),
		failed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fab_commands_failed_total",
			Help: "Commands that exited non-zero or could not be traced, by runner.",
		}, []string{"runner"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fab_command_duration_seconds",
			Help:    "Wall time of executed commands, by runner.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"runner"}),
		inputs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fab_record_inputs",
			Help:    "Dependencies stored per command.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		}),
		outputs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fab_record_outputs",
			Help:    "Outputs stored per command.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		}),
	}
}

// Registry exposes the registry the metrics live in.
func (m *PromMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PromMetrics) CommandSkipped() {
	m.skipped.Inc()
}

func (m *PromMetrics) CommandExecuted(runner string, took time.Duration) {
	m.executed.WithLabelValues(runner).Inc()
	m.duration.WithLabelValues(runner).Observe(took.Seconds())
}

func (m *PromMetrics) CommandFailed(runner string) {
	m.failed.WithLabelValues(runner).Inc()
}

func (m *PromMetrics) DependenciesRecorded(inputs, outputs int) {
	m.inputs.Observe(float64(inputs))
	m.outputs.Observe(float64(outputs))
}

// WriteFile writes the metrics in text exposition format. An empty path
// writes nothing.
func (m *PromMetrics) WriteFile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write metrics"), "path", path)
	}
	return nil
}
