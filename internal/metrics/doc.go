// Package metrics defines the Prometheus metrics exported by the server.
//
// Metrics are registered at package init time via promauto and grouped by
// subsystem: HTTP, indexer, search, snapshot cache, and thumbnails.
package metrics
