/*
Package streaming provides timeout-protected streaming utilities for HTTP
responses.

Slow or disconnected clients can hold server resources indefinitely when
streaming large media files. TimeoutWriter wraps http.ResponseWriter with
per-write timeouts, idle detection, chunked writes and client disconnect
detection via the request context.

Typical usage:

	config := streaming.DefaultTimeoutWriterConfig()
	err := streaming.StreamWithTimeout(r.Context(), w, file, config)
	if err != nil && !errors.Is(err, streaming.ErrClientGone) {
		logging.Warn("Streaming error: %v", err)
	}

The sentinel errors ErrWriteTimeout, ErrClientGone and ErrStreamCanceled
distinguish a slow client, a disconnected client and a programmatic cancel;
only the first is worth logging as a problem.
*/
package streaming
