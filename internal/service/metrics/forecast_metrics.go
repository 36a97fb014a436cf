package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ForecastLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "liqcast",
			Subsystem: "forecast",
			Name:      "latency_seconds",
			Help:      "Latency of forecast stages",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	ForecastErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "liqcast",
			Subsystem: "forecast",
			Name:      "errors_total",
			Help:      "Errors by forecast stage",
		},
		[]string{"stage"},
	)

	ForecastAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "liqcast",
			Subsystem: "forecast",
			Name:      "alerts_total",
			Help:      "Generated liquidity alerts by severity",
		},
		[]string{"severity"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(ForecastLatency, ForecastErrors, ForecastAlerts)
	})
}
