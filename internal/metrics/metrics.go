// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the poll engine and API:
// - Poll cycle counts and durations
// - Per-source fetch outcomes
// - Session events and notification decisions
// - Circuit breaker state
// - HTTP API latency and WebSocket connections

var (
	// Poll Engine Metrics
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menubarr_polls_total",
			Help: "Total number of poll cycles by trigger",
		},
		[]string{"trigger"}, // "timer", "manual"
	)

	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "menubarr_poll_duration_seconds",
			Help:    "Duration of complete poll cycles in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PollsCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "menubarr_polls_coalesced_total",
			Help: "Total number of refresh requests coalesced into an in-flight poll",
		},
	)

	// Source Fetch Metrics
	SourceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menubarr_source_fetches_total",
			Help: "Total number of source fetches by source and result",
		},
		[]string{"source", "result"}, // source: "plex", "tautulli"; result: "success", "error"
	)

	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menubarr_source_fetch_duration_seconds",
			Help:    "Duration of source fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	SourceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menubarr_source_errors_total",
			Help: "Total number of classified source errors",
		},
		[]string{"source", "kind"}, // kind: "not_configured", "bad_url", "http_status", "decode"
	)

	// Session State Metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "menubarr_active_sessions",
			Help: "Number of active Plex sessions in the latest snapshot",
		},
	)

	SessionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menubarr_session_events_total",
			Help: "Total number of session events detected by type",
		},
		[]string{"type"}, // "new_session", "state_changed"
	)

	// Notification Metrics
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menubarr_notifications_total",
			Help: "Total number of notification decisions by outcome",
		},
		[]string{"outcome"}, // "sent", "throttled", "suppressed", "failed"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "menubarr_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menubarr_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menubarr_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breakers by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	// HTTP API Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menubarr_http_request_duration_seconds",
			Help:    "Duration of HTTP API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menubarr_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "path", "status"},
	)

	// WebSocket Metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "menubarr_websocket_connections",
			Help: "Current number of connected WebSocket clients",
		},
	)

	WebSocketMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menubarr_websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent by type",
		},
		[]string{"type"}, // "snapshot", "notification", "ping"
	)
)

// RecordHTTPRequest records latency and count for an API request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
}

// RecordSourceFetch records the outcome and latency of a source fetch.
func RecordSourceFetch(source string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	SourceFetchesTotal.WithLabelValues(source, result).Inc()
	SourceFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}
