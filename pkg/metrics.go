package converter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OUTCOME_SUCCESS = "success"
	OUTCOME_FAILURE = "failure"
)

// Metrics collects conversion statistics for one batch. A nil *Metrics
// records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	samples     *prometheus.CounterVec
	truncated   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	outputBytes *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "converter_conversions_total",
			Help: "Capture files processed, by device and outcome.",
		}, []string{"device", "outcome"}),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "converter_samples_total",
			Help: "Samples per channel written to published containers.",
		}, []string{"device"}),
		truncated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "converter_truncated_captures_total",
			Help: "Captures whose last packet was incomplete.",
		}, []string{"device"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "converter_conversion_duration_seconds",
			Help:    "Time from reading the input to publishing the output.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"device"}),
		outputBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "converter_last_output_bytes",
			Help: "Size of the last published container.",
		}, []string{"device"}),
	}
	m.registry.MustRegister(m.conversions, m.samples, m.truncated, m.duration, m.outputBytes)
	return m
}

func (m *Metrics) ObserveSuccess(device DeviceKind, samples int, outputBytes int64, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := device.String()
	m.conversions.WithLabelValues(label, OUTCOME_SUCCESS).Inc()
	m.samples.WithLabelValues(label).Add(float64(samples))
	m.duration.WithLabelValues(label).Observe(elapsed.Seconds())
	m.outputBytes.WithLabelValues(label).Set(float64(outputBytes))
}

func (m *Metrics) ObserveFailure(device DeviceKind) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(device.String(), OUTCOME_FAILURE).Inc()
}

func (m *Metrics) ObserveTruncated(device DeviceKind) {
	if m == nil {
		return
	}
	m.truncated.WithLabelValues(device.String()).Inc()
}

// WriteTextfile exports the metrics for the node exporter textfile
// collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
