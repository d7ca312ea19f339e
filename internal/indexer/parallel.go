package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"galarie/internal/index"
	"galarie/internal/logging"
	"galarie/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// Buffer size of the job and result channels between the producer and the
// worker pool.
const walkChannelBuffer = 256

// fileJob is one file handed from the directory producer to a worker.
type fileJob struct {
	relPath string
	info    fs.FileInfo
}

// walkParallel walks the tree with one producer goroutine enumerating
// directories and a pool of workers parsing tags and building records.
// Tag parsing dominates walk cost on large trees, so fan-out happens after
// enumeration.
func (w *Walker) walkParallel(ctx context.Context) ([]index.MediaFile, error) {
	scannedAt := time.Now().UTC()
	start := time.Now()
	logging.Debug("Starting parallel walk with %d workers", w.numWorkers)
	metrics.IndexerParallelWorkers.Set(float64(w.numWorkers))

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan fileJob, walkChannelBuffer)
	results := make(chan index.MediaFile, walkChannelBuffer)

	g.Go(func() error {
		defer close(jobs)
		return w.enqueue(gctx, jobs)
	})

	var workerWg sync.WaitGroup
	workerWg.Add(w.numWorkers)
	for i := 0; i < w.numWorkers; i++ {
		g.Go(func() error {
			defer workerWg.Done()
			for job := range jobs {
				select {
				case results <- buildMediaFile(job.relPath, job.info, scannedAt):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		workerWg.Wait()
		close(results)
	}()

	var files []index.MediaFile
	for m := range results {
		files = append(files, m)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.Debug("Parallel walk complete: %d files in %v", len(files), time.Since(start))
	return files, nil
}

// enqueue walks the directory tree and sends one job per indexable file.
func (w *Walker) enqueue(ctx context.Context, jobs chan<- fileJob) error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if path == w.root {
				return fmt.Errorf("%w: %v", ErrRootUnreadable, err)
			}
			logging.Warn("Skipping %s: %v", path, err)
			metrics.IndexerFilesSkipped.Inc()
			return nil
		}

		relPath, skip := w.checkEntry(path, d)
		if skip != nil {
			return skip
		}
		if relPath == "" || d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logging.Warn("Skipping %s: %v", path, err)
			metrics.IndexerFilesSkipped.Inc()
			return nil
		}

		select {
		case jobs <- fileJob{relPath: relPath, info: info}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}
