package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AlarmOperations *prometheus.CounterVec
	ProviderErrors  *prometheus.CounterVec
	RequestSeconds  *prometheus.HistogramVec
	StorageCorrupt  *prometheus.CounterVec
	ScheduledAlarms prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		AlarmOperations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "salah_alarm_operations_total",
			Help: "Total number of alarm set/remove operations by outcome.",
		}, []string{"operation", "result"}),
		ProviderErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "salah_provider_errors_total",
			Help: "Total number of errors received from external providers.",
		}, []string{"provider"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salah_provider_request_duration_seconds",
			Help:    "Duration of requests to external providers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		StorageCorrupt: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "salah_storage_corrupt_total",
			Help: "Total number of persisted values that could not be decoded.",
		}, []string{"key"}),
		ScheduledAlarms: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "salah_scheduled_alarms",
			Help: "Number of alarms currently held in the alarm collection.",
		}),
	}
}
