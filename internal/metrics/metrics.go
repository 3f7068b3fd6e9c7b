// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "homespend",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "homespend",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	ExpensesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "homespend",
		Subsystem: "ledger",
		Name:      "expenses_recorded_total",
		Help:      "Expenses successfully added to the ledger.",
	})

	ExpensesReclassified = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "homespend",
		Subsystem: "ledger",
		Name:      "expenses_reclassified_total",
		Help:      "Expenses moved between categories.",
	})

	MirrorEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "homespend",
		Subsystem: "mirror",
		Name:      "events_published_total",
		Help:      "Row events published to the mirror queue, by outcome.",
	}, []string{"outcome"})

	MirrorEventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "homespend",
		Subsystem: "mirror",
		Name:      "events_applied_total",
		Help:      "Row events replayed against the sheet, by outcome.",
	}, []string{"outcome"})
)

// Handler serves the scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
