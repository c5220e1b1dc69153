// Package metrics holds the Prometheus collectors of the service. All
// collectors are registered on the default registry and served by
// promhttp.Handler.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	dictionaryRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dictionary_requests_total",
			Help: "Dictionary API requests by result kind or error",
		},
		[]string{"result"},
	)

	dictionaryRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dictionary_request_duration_seconds",
			Help:    "Dictionary API call duration in seconds, retries included",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dictionary_cache_lookups_total",
			Help: "Dictionary response cache lookups by tier and result",
		},
		[]string{"tier", "result"},
	)

	lookupOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_outcomes_total",
			Help: "Word lookups by terminal outcome",
		},
		[]string{"outcome"},
	)

	backfillEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backfill_entries_total",
			Help: "Entries re-derived by backfill, by result",
		},
		[]string{"result"},
	)
)

// HTTPRequestStarted marks a request as in flight. The returned func records
// its completion; route is the matched mux pattern, known only afterwards.
func HTTPRequestStarted() func(method, route string, status int) {
	start := time.Now()
	httpRequestsInFlight.Inc()
	return func(method, route string, status int) {
		httpRequestsInFlight.Dec()
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordDictionaryRequest records one dictionary API call. result is the
// lookup kind, or "error".
func RecordDictionaryRequest(result string, d time.Duration) {
	dictionaryRequestsTotal.WithLabelValues(result).Inc()
	dictionaryRequestDuration.Observe(d.Seconds())
}

// RecordCacheLookup records a cache hit or miss on one tier.
func RecordCacheLookup(tier string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(tier, result).Inc()
}

// RecordLookupOutcome counts a terminal lookup outcome.
func RecordLookupOutcome(outcome string) {
	lookupOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordBackfill counts one backfilled entry; result is "ok" or "failed".
func RecordBackfill(result string) {
	backfillEntriesTotal.WithLabelValues(result).Inc()
}
