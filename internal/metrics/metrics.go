// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"          // Metric types
	"github.com/prometheus/client_golang/prometheus/promauto" // Auto-registered collectors
)

var (
	// Transitions counts successful workflow transitions by action.
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dorm",
		Name:      "workflow_transitions_total",
		Help:      "Application workflow transitions by action.",
	}, []string{"action"})

	// Notifications counts notification attempts by result: sent, failed, no_template.
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dorm",
		Name:      "notifications_total",
		Help:      "Status notification attempts by result.",
	}, []string{"result"})

	// Requests counts handled HTTP requests.
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dorm",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status class.",
	}, []string{"method", "route", "status"})
)
