package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	bookingsIngested *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	minBalance       prometheus.Gauge
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		bookingsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liqcast_bookings_ingested_total",
				Help: "Total number of bookings ingested into backend",
			},
			[]string{"backend", "source"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liqcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		minBalance: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "liqcast_min_projected_balance",
				Help: "Minimum projected balance of the last generated forecast",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "liqcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordBookingIngested records a booking ingested into a backend.
func (r *Recorder) RecordBookingIngested(backend, source string) {
	r.bookingsIngested.WithLabelValues(backend, source).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordMinProjectedBalance records the minimum projected balance of a forecast run.
func (r *Recorder) RecordMinProjectedBalance(balance float64) {
	r.minBalance.Set(balance)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
