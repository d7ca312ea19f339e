package streaming

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"galarie/internal/logging"
)

var (
	// ErrWriteTimeout indicates a single write or the whole stream exceeded
	// its time budget, typically a client draining data too slowly.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates the client disconnected mid-stream.
	ErrClientGone = errors.New("client disconnected")

	// ErrStreamCanceled indicates the stream was shut down via Close.
	ErrStreamCanceled = errors.New("stream canceled")
)

// TimeoutWriterConfig bounds how long a stream may stall.
type TimeoutWriterConfig struct {
	// WriteTimeout caps a single chunk write.
	WriteTimeout time.Duration
	// IdleTimeout caps the gap between successful writes.
	IdleTimeout time.Duration
	// MaxDuration caps the whole stream (0 means unlimited).
	MaxDuration time.Duration
	// ChunkSize splits large writes so stalls are detected per chunk
	// (0 writes buffers as received).
	ChunkSize int
}

// DefaultTimeoutWriterConfig returns the limits used for media streaming.
func DefaultTimeoutWriterConfig() TimeoutWriterConfig {
	return TimeoutWriterConfig{
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		MaxDuration:  0,
		ChunkSize:    64 * 1024,
	}
}

// TimeoutWriter wraps an http.ResponseWriter so a stalled or vanished
// client cannot pin the handler goroutine for the life of the server.
// All bookkeeping is atomic; Write is called from one goroutine but the
// idle watchdog reads concurrently.
type TimeoutWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	ctx     context.Context
	cancel  context.CancelFunc
	config  TimeoutWriterConfig

	started   time.Time
	lastWrite atomic.Int64 // unix nanos of the last successful write
	written   atomic.Int64
	closed    atomic.Bool
}

// NewTimeoutWriter starts the idle watchdog and returns the wrapped writer.
// Callers must Close it to stop the watchdog.
func NewTimeoutWriter(ctx context.Context, w http.ResponseWriter, config TimeoutWriterConfig) *TimeoutWriter {
	streamCtx, cancel := context.WithCancel(ctx)

	tw := &TimeoutWriter{
		w:       w,
		ctx:     streamCtx,
		cancel:  cancel,
		config:  config,
		started: time.Now(),
	}
	tw.lastWrite.Store(tw.started.UnixNano())
	tw.flusher, _ = w.(http.Flusher)

	if config.IdleTimeout > 0 {
		go tw.watchIdle()
	}

	return tw
}

// Write implements io.Writer. Large buffers are split into chunks and
// flushed between chunks so each write stays under WriteTimeout.
func (tw *TimeoutWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		if err := tw.guard(); err != nil {
			return total, err
		}

		chunk := p
		if tw.config.ChunkSize > 0 && len(chunk) > tw.config.ChunkSize {
			chunk = p[:tw.config.ChunkSize]
		}

		n, err := tw.writeChunk(chunk)
		total += n
		if err != nil {
			return total, err
		}

		p = p[len(chunk):]
		if len(p) > 0 && tw.flusher != nil {
			tw.flusher.Flush()
		}
	}
	return total, nil
}

// guard rejects writes once the stream is closed, the client is gone, or
// the total duration budget is spent.
func (tw *TimeoutWriter) guard() error {
	if tw.closed.Load() {
		return ErrStreamCanceled
	}
	select {
	case <-tw.ctx.Done():
		return tw.doneError()
	default:
	}
	if tw.config.MaxDuration > 0 && time.Since(tw.started) > tw.config.MaxDuration {
		return ErrWriteTimeout
	}
	return nil
}

// writeChunk performs one underlying write, bounded by WriteTimeout. The
// write itself runs in a goroutine because ResponseWriter has no deadline
// API; on timeout the goroutine is abandoned and the stream canceled.
func (tw *TimeoutWriter) writeChunk(p []byte) (int, error) {
	type outcome struct {
		n   int
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		n, err := tw.w.Write(p)
		done <- outcome{n, err}
	}()

	timeout := time.NewTimer(tw.config.WriteTimeout)
	defer timeout.Stop()

	select {
	case out := <-done:
		if out.err == nil {
			tw.lastWrite.Store(time.Now().UnixNano())
			tw.written.Add(int64(out.n))
		}
		return out.n, out.err
	case <-timeout.C:
		tw.cancel()
		return 0, ErrWriteTimeout
	case <-tw.ctx.Done():
		return 0, tw.doneError()
	}
}

// watchIdle cancels the stream when no write lands within IdleTimeout.
func (tw *TimeoutWriter) watchIdle() {
	ticker := time.NewTicker(tw.config.IdleTimeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if tw.closed.Load() {
				return
			}
			idle := time.Since(time.Unix(0, tw.lastWrite.Load()))
			if idle > tw.config.IdleTimeout {
				logging.Warn("Stream idle for %v, canceling", idle)
				tw.cancel()
				return
			}
		case <-tw.ctx.Done():
			return
		}
	}
}

// doneError distinguishes a vanished client from a programmatic shutdown.
func (tw *TimeoutWriter) doneError() error {
	if tw.closed.Load() {
		return ErrStreamCanceled
	}
	if errors.Is(tw.ctx.Err(), context.Canceled) {
		return ErrClientGone
	}
	return ErrStreamCanceled
}

// Close stops the watchdog and rejects further writes. Safe to call twice.
func (tw *TimeoutWriter) Close() error {
	if tw.closed.CompareAndSwap(false, true) {
		tw.cancel()
	}
	return nil
}

// Stats reports bytes written and elapsed time for request logging.
func (tw *TimeoutWriter) Stats() (bytesWritten int64, duration time.Duration) {
	return tw.written.Load(), time.Since(tw.started)
}

// StreamWithTimeout copies r to the response under the configured limits.
// Used for full-body media downloads where http.ServeContent's range
// handling is not needed.
func StreamWithTimeout(ctx context.Context, w http.ResponseWriter, r io.Reader, config TimeoutWriterConfig) error {
	tw := NewTimeoutWriter(ctx, w, config)
	defer tw.Close()

	w.Header().Set("X-Content-Type-Options", "nosniff")

	_, err := io.Copy(tw, r)

	bytesWritten, duration := tw.Stats()
	logging.Debug("Stream finished: %d bytes in %v", bytesWritten, duration)

	return err
}
