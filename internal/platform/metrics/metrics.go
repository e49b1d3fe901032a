// Package metrics holds the Prometheus collectors shared by the API and the
// background workers. They register on the default registry.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kanso_http_requests_total",
			Help: "Total number of HTTP requests by route, method, and status",
		},
		[]string{"route", "method", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kanso_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status_code"},
	)

	checkInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kanso_checkins_total",
			Help: "Check-in writes by resulting done flag",
		},
		[]string{"done"},
	)

	nudgesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kanso_nudges_total",
			Help: "Nudges by delivery result",
		},
		[]string{"result"},
	)

	streakJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kanso_streak_jobs_total",
			Help: "Streak worker jobs by outcome",
		},
		[]string{"outcome"},
	)

	authEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kanso_auth_events_total",
			Help: "Authentication events by type and result",
		},
		[]string{"event_type", "result"},
	)
)

func RecordHTTPRequest(route, method string, status int, seconds float64) {
	code := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(route, method, code).Inc()
	HTTPRequestDuration.WithLabelValues(route, method, code).Observe(seconds)
}

func RecordCheckIn(done bool) {
	checkInsTotal.WithLabelValues(strconv.FormatBool(done)).Inc()
}

func RecordNudge(result string) {
	nudgesTotal.WithLabelValues(result).Inc()
}

// RecordStreakJob counts one worker outcome: updated, unchanged, failed or dropped.
func RecordStreakJob(outcome string) {
	streakJobsTotal.WithLabelValues(outcome).Inc()
}

func RecordAuthEvent(eventType, result string) {
	authEventsTotal.WithLabelValues(eventType, result).Inc()
}
