package metrics

// InitializeMetrics pre-populates expected label combinations so that every
// metric is exported from the first Prometheus scrape.
// Call this once at startup.
func InitializeMetrics() {
	for _, op := range []string{"load", "save"} {
		SnapshotCacheErrors.WithLabelValues(op)
	}

	for _, status := range []string{"ok", "invalid"} {
		SearchQueriesTotal.WithLabelValues(status)
	}

	for _, mediaType := range []string{"image", "gif", "video"} {
		ThumbnailsGenerated.WithLabelValues(mediaType)
	}
}
