package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solo_legend_turns_total",
			Help: "Total number of processed turns by outcome.",
		},
		[]string{"status"},
	)
	adventuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solo_legend_adventures_started_total",
			Help: "Total number of started adventures, by whether the offline arrival was used.",
		},
		[]string{"start"},
	)
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solo_legend_active_sessions",
		Help: "Number of sessions with a running loop.",
	})
)
