package executor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusOK              = "ok"
	statusConfigError     = "config_error"
	statusConnectionError = "connection_error"
	statusQueryError      = "query_error"
)

var (
	queriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snowdash_queries_total",
			Help: "Total number of warehouse queries by outcome",
		},
		[]string{"status"},
	)

	queryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snowdash_query_duration_seconds",
			Help:    "Warehouse query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func observe(status string, duration time.Duration) {
	queriesTotal.WithLabelValues(status).Inc()
	if status != statusConfigError {
		queryDuration.Observe(duration.Seconds())
	}
}
