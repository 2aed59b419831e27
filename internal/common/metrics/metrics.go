// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the payload check collectors on their own registry so that a one-shot
// CLI run can export exactly what it measured.
type Recorder struct {
	registry *prometheus.Registry

	PayloadChecks     *prometheus.CounterVec
	PayloadRejections *prometheus.CounterVec
	CheckDuration     *prometheus.HistogramVec
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		PayloadChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payload_checks_total",
				Help: "Total number of payloads checked, by kind",
			},
			[]string{"kind"},
		),
		PayloadRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payload_rejections_total",
				Help: "Total number of payloads rejected, by kind and error code",
			},
			[]string{"kind", "error_code"},
		),
		CheckDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payload_check_duration_seconds",
				Help:    "Duration of a single payload check in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"kind"},
		),
	}
}

// Observe records one finished check. An empty errorCode means the payload was accepted.
func (r *Recorder) Observe(kind, errorCode string, elapsed time.Duration) {
	r.PayloadChecks.WithLabelValues(kind).Inc()
	r.CheckDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if errorCode != "" {
		r.PayloadRejections.WithLabelValues(kind, errorCode).Inc()
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all collected metrics in the node exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
