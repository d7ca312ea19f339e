package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"galarie/internal/cache"
	"galarie/internal/handlers"
	"galarie/internal/indexer"
	"galarie/internal/logging"
	"galarie/internal/media"
	"galarie/internal/metrics"
	"galarie/internal/middleware"
	"galarie/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()

	// Initialize the vips fast path for thumbnail decoding
	if config.ThumbnailsEnabled {
		if err := media.InitVips(); err != nil {
			logging.Warn("libvips init failed, thumbnail decoding falls back to pure Go: %v", err)
		}
		defer media.ShutdownVips()
	}

	// Initialize the index coordinator
	startup.LogIndexerInit(config.RebuildInterval)
	store := cache.NewStore(config.CacheDir)
	walker := indexer.NewWalker(config.MediaRoot)
	walker.SetWorkers(config.IndexWorkers)
	coordinator := indexer.NewCoordinator(store, walker, config.SnapshotMaxAge)

	// Bootstrap in the background: the server starts serving immediately
	// with an empty snapshot, readiness flips once the initial snapshot
	// (loaded or walked) is established.
	go func() {
		if err := coordinator.Bootstrap(context.Background()); err != nil {
			logging.Error("Initial index bootstrap failed: %v", err)
		}
	}()
	coordinator.Start(config.RebuildInterval)
	startup.LogIndexerStarted()

	// Initialize handlers
	h := handlers.New(coordinator, config)

	// Setup router
	router := setupRouter(h, config)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply metrics middleware
	var handler http.Handler = loggedHandler
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, coordinator)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Unknown routes and method mismatches keep the error envelope.
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.Liveness).Methods("GET")
	r.HandleFunc("/readyz", h.Readiness).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/media", h.SearchMedia).Methods("GET")
	api.HandleFunc("/media/{id}/thumbnail", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/media/{id}/stream", h.StreamMedia).Methods("GET")
	api.HandleFunc("/index/rebuild", h.TriggerRebuild).Methods("POST")
	api.HandleFunc("/tags", h.GetAllTags).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")

	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	return r
}

func handleShutdown(srv *http.Server, coordinator *indexer.Coordinator) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping index coordinator")
	coordinator.Stop()
	startup.LogShutdownStepComplete("Index coordinator stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
