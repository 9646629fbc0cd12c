package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	modelRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bavuga_model_requests_total",
			Help: "Total number of model attempts, partitioned by model and outcome.",
		},
		[]string{"model", "status"},
	)
	modelRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bavuga_model_request_duration_seconds",
			Help:    "Histogram of model attempt durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
)
