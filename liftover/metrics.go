package liftover

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts rows through the pipeline and times each step.
type Metrics struct {
	Registry     *prometheus.Registry
	Rows         *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eqtlift_rows_total",
				Help: "Rows seen by the liftover, by outcome",
			},
			[]string{"outcome"},
		),
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eqtlift_step_duration_seconds",
				Help:    "Duration of each pipeline step in seconds",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
			},
			[]string{"step"},
		),
	}
	m.Registry.MustRegister(m.Rows, m.StepDuration)
	return m
}

func (m *Metrics) observe(step string, start time.Time) {
	m.StepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}

// WriteTextfile dumps the metrics in the text exposition format, for the
// node exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
