package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Classifications counts per-ticker classification outcomes.
var Classifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "investsmart",
	Name:      "classifications_total",
	Help:      "Per-ticker classification outcomes.",
}, []string{"outcome"}) // classified | skipped | failed

// CacheRequests counts cache lookups by cache and result.
var CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "investsmart",
	Name:      "cache_requests_total",
	Help:      "Cache lookups by cache name and result.",
}, []string{"cache", "result"}) // hit | miss | stale

// ProviderRequestDuration observes upstream provider call latency.
var ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "investsmart",
	Name:      "provider_request_duration_seconds",
	Help:      "Latency of price-history and fundamentals provider calls.",
	Buckets:   prometheus.DefBuckets,
}, []string{"provider"})
