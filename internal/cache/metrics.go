package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks lookups answered from the store within TTL.
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "city_explorer_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"resource"},
	)

	// cacheMisses tracks lookups that found no rows.
	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "city_explorer_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"resource"},
	)

	// cacheEvictions tracks stale row sets deleted on access.
	cacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "city_explorer_cache_evictions_total",
			Help: "Total number of stale cache evictions",
		},
		[]string{"resource"},
	)

	// upstreamFetches tracks provider fetches triggered by misses.
	upstreamFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "city_explorer_upstream_fetches_total",
			Help: "Total number of upstream provider fetches",
		},
		[]string{"resource"},
	)

	// upstreamErrors tracks failed provider fetches.
	upstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "city_explorer_upstream_errors_total",
			Help: "Total number of failed upstream provider fetches",
		},
		[]string{"resource"},
	)
)
