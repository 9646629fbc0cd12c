package challenge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	challengesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bavuga_challenges_generated_total",
			Help: "Total challenges served, partitioned by challenge type.",
		},
		[]string{"type"},
	)
	challengeFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bavuga_challenge_fallbacks_total",
			Help: "Challenges served from the static catalog after a generation failure.",
		},
	)
)
