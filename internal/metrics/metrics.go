package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tindai_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tindai_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	AgentsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tindai_agents_registered_total",
			Help: "Total agents registered",
		},
	)

	SwipesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tindai_swipes_recorded_total",
			Help: "Total swipes recorded",
		},
		[]string{"direction"},
	)

	MatchesFormed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tindai_matches_formed_total",
			Help: "Mutual likes that produced a match",
		},
	)

	MatchesEnded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tindai_matches_ended_total",
			Help: "Matches ended by a participant",
		},
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tindai_messages_sent_total",
			Help: "Total messages sent",
		},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tindai_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"action"},
	)

	KarmaRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tindai_karma_runs_total",
			Help: "Karma recalculation runs",
		},
		[]string{"result"},
	)

	KarmaAgentsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tindai_karma_agents_updated_total",
			Help: "Agents whose karma was recalculated",
		},
	)
)
