package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galarie_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "galarie_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "galarie_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Indexer metrics
var (
	IndexerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "galarie_indexer_runs_total",
			Help: "Total number of index rebuild runs",
		},
	)

	IndexerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "galarie_indexer_last_run_timestamp",
			Help: "Timestamp of the last completed rebuild",
		},
	)

	IndexerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "galarie_indexer_last_run_duration_seconds",
			Help: "Duration of the last completed rebuild in seconds",
		},
	)

	IndexerFilesIndexed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "galarie_indexer_files_indexed",
			Help: "Number of media files in the published snapshot",
		},
	)

	IndexerFilesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "galarie_indexer_files_skipped_total",
			Help: "Total number of files skipped due to per-file errors",
		},
	)

	IndexerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "galarie_indexer_errors_total",
			Help: "Total number of failed rebuild attempts",
		},
	)

	IndexerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "galarie_indexer_running",
			Help: "Whether a rebuild is currently running (1 = running, 0 = idle)",
		},
	)

	IndexerRebuildsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "galarie_indexer_rebuilds_rejected_total",
			Help: "Total number of rebuild requests rejected because one was already in flight",
		},
	)

	IndexerParallelWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "galarie_indexer_parallel_workers",
			Help: "Number of workers used by the parallel walker",
		},
	)
)

// Search metrics
var (
	SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galarie_search_queries_total",
			Help: "Total number of search queries",
		},
		[]string{"status"},
	)

	SearchQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "galarie_search_query_duration_seconds",
			Help:    "Search query execution time in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	SearchResultsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "galarie_search_results_returned",
			Help:    "Number of items returned per search page",
			Buckets: []float64{0, 1, 10, 25, 60, 100, 200},
		},
	)
)

// Snapshot cache metrics
var (
	SnapshotCacheLoads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "galarie_snapshot_cache_loads_total",
			Help: "Total number of successful snapshot cache loads",
		},
	)

	SnapshotCacheSaves = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "galarie_snapshot_cache_saves_total",
			Help: "Total number of successful snapshot cache saves",
		},
	)

	SnapshotCacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galarie_snapshot_cache_errors_total",
			Help: "Total number of snapshot cache failures",
		},
		[]string{"operation"}, // "load", "save"
	)
)

// Thumbnail metrics
var (
	ThumbnailsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galarie_thumbnails_generated_total",
			Help: "Total number of thumbnails generated",
		},
		[]string{"media_type"},
	)

	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "galarie_thumbnail_cache_hits_total",
			Help: "Total number of thumbnail cache hits",
		},
	)

	ThumbnailErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "galarie_thumbnail_errors_total",
			Help: "Total number of thumbnail generation failures",
		},
	)

	ThumbnailGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "galarie_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation time in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)
