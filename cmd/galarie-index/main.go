package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"galarie/internal/cache"
	"galarie/internal/index"
	"galarie/internal/indexer"
	"galarie/internal/logging"
)

func main() {
	mediaRoot := flag.String("media", envOr("MEDIA_ROOT", "/media"), "root of the media tree to index")
	cacheDir := flag.String("cache", envOr("CACHE_DIR", "/cache"), "directory for the snapshot file")
	workers := flag.Int("workers", 0, "parallel walker workers (0 = auto)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()

	walker := indexer.NewWalker(*mediaRoot)
	if *workers > 0 {
		walker.SetWorkers(*workers)
	}

	files, err := walker.Walk(ctx)
	if err != nil {
		logging.Fatal("Walk failed: %v", err)
	}

	snap := index.Build(files)

	store := cache.NewStore(*cacheDir)
	if err := store.Save(snap); err != nil {
		logging.Fatal("Failed to write snapshot: %v", err)
	}

	printSummary(os.Stdout, snap, store.Path(), time.Since(start))
}

// printSummary writes a human-readable report of the freshly built snapshot.
func printSummary(w *os.File, snap *index.Snapshot, path string, took time.Duration) {
	byType := make(map[string]int)
	for _, m := range snap.Media {
		byType[string(m.MediaType)]++
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	fmt.Fprintf(w, "Indexed %d media files in %v\n", snap.Len(), took.Round(time.Millisecond))
	for _, t := range types {
		fmt.Fprintf(w, "  %-8s %d\n", t, byType[t])
	}
	fmt.Fprintf(w, "Distinct tags:      %d\n", len(snap.TagIndex))
	fmt.Fprintf(w, "Attribute keys:     %d\n", len(snap.AttributeIndex))
	fmt.Fprintf(w, "Snapshot written to %s\n", path)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
