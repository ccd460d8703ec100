package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// FilesServed counts responses produced by the static file handler, labelled by status code
	FilesServed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coi_serve_files_served_total",
		Help: "The total number of responses produced by the static file handler",
	}, []string{"status_code"})

	// ServedFileSize is the size of the files served to clients
	ServedFileSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coi_serve_served_file_size_bytes",
		Help:    "The size in bytes of the files served",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	})

	// DirectoryListings counts generated directory listings
	DirectoryListings = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coi_serve_directory_listings_total",
		Help: "The total number of directory listings generated",
	})

	// TransferErrors counts responses aborted while streaming the body
	TransferErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coi_serve_transfer_errors_total",
		Help: "The total number of responses aborted while writing the body to the client",
	})

	// VFSOperations counts filesystem operations performed against the served root
	VFSOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coi_serve_vfs_operations_total",
		Help: "The number of VFS operations",
	}, []string{"vfs_name", "operation", "success"})

	// LimitListenerMaxConns is the configured limit of concurrent connections
	LimitListenerMaxConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "coi_serve_limit_listener_max_conns",
		Help: "The maximum number of concurrent connections allowed by the listener",
	})

	// LimitListenerConcurrentConns is the number of connections currently held
	LimitListenerConcurrentConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "coi_serve_limit_listener_concurrent_conns",
		Help: "The number of concurrent connections held by the listener",
	})

	// LimitListenerWaitingConns is the number of connections waiting for a free slot
	LimitListenerWaitingConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "coi_serve_limit_listener_waiting_conns",
		Help: "The number of connections waiting for a free slot in the listener",
	})

	// RateLimitSourceIPBlockedCount is the number of requests blocked by the source IP rate limiter
	RateLimitSourceIPBlockedCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coi_serve_rate_limit_source_ip_blocked_count",
		Help: "The number of requests that were blocked by the source IP rate limiter",
	})

	// RateLimitSourceIPCachedEntries is the number of entries in the rate limiter LRU cache
	RateLimitSourceIPCachedEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "coi_serve_rate_limit_source_ip_cached_entries",
		Help: "The number of entries in the source IP rate limiter cache",
	}, []string{"op"})

	// RateLimitSourceIPCacheRequests is the number of cache hits and misses of the rate limiter LRU cache
	RateLimitSourceIPCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coi_serve_rate_limit_source_ip_cache_requests",
		Help: "The number of source IP rate limiter cache hits and misses",
	}, []string{"op", "cache"})
)

// MustRegister collectors with the Prometheus client
func MustRegister() {
	prometheus.MustRegister(
		FilesServed,
		ServedFileSize,
		DirectoryListings,
		TransferErrors,
		VFSOperations,
		LimitListenerMaxConns,
		LimitListenerConcurrentConns,
		LimitListenerWaitingConns,
		RateLimitSourceIPBlockedCount,
		RateLimitSourceIPCachedEntries,
		RateLimitSourceIPCacheRequests,
	)
}
