// Package startup handles application bootstrap: configuration loading from
// environment variables (optionally seeded from a .env file), directory
// validation, and the structured startup/shutdown log output.
//
// Configuration keys:
//
//	MEDIA_ROOT         root of the indexed media tree (default /media)
//	CACHE_DIR          snapshot and thumbnail cache (default /cache)
//	PORT               HTTP listen port (default 8080)
//	REBUILD_INTERVAL   periodic rebuild interval, 0 disables (default 30m)
//	SNAPSHOT_MAX_AGE   stored-snapshot reuse bound, 0 disables (default 15m)
//	INDEX_WORKERS      parallel walker worker count override
//	METRICS_ENABLED    expose /metrics (default true)
//	LOG_HEALTH_CHECKS  log health probe requests (default false)
//	LOG_LEVEL / DEBUG  log verbosity
//
// The cache directory must be writable; the media root is only warned about
// when missing, since the server can start with an empty index and pick the
// root up on a later rebuild.
package startup
