package gemini

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solo_legend_ai_requests_total",
			Help: "Total number of requests to the generative AI API.",
		},
		[]string{"model", "kind", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solo_legend_ai_request_duration_seconds",
			Help:    "Histogram of generative AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model", "kind"},
	)
)

const (
	kindText   = "text"
	kindImage  = "image"
	kindSpeech = "speech"

	statusSuccess    = "success"
	statusError      = "error"
	statusCredential = "error_credential"
	statusEmpty      = "error_empty_response"
)

func observe(model, kind, status string, started time.Time) {
	aiRequestsTotal.With(prometheus.Labels{"model": model, "kind": kind, "status": status}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": model, "kind": kind}).Observe(time.Since(started).Seconds())
}
