// Package metrics exposes Prometheus collectors for the ticket cache.
// Counters are registered on the default registry and served by the
// /metrics endpoint. Labels keep cardinality fixed: view is "all" or
// "by_id".
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts cache lookups answered without touching the store.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticketapi",
		Name:      "cache_hits_total",
		Help:      "Ticket cache hits, partitioned by cache view.",
	}, []string{"view"})

	// CacheMisses counts cache lookups that fell through to the store.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticketapi",
		Name:      "cache_misses_total",
		Help:      "Ticket cache misses, partitioned by cache view.",
	}, []string{"view"})

	// CacheInvalidations counts invalidations triggered by mutations and
	// by the administrative clear endpoint.
	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticketapi",
		Name:      "cache_invalidations_total",
		Help:      "Ticket cache invalidations, partitioned by cause.",
	}, []string{"cause"})
)
