package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"firewatch/internal/config"
	"firewatch/internal/dashboard"
	"firewatch/internal/database"
	"firewatch/internal/detector"
	"firewatch/internal/handlers"
	"firewatch/internal/metrics"
	"firewatch/internal/middleware"
	"firewatch/internal/worker"
)

func main() {
	resetStats := flag.Bool("reset-stats", false, "Run the daily stats rollover once and exit")
	checkConfig := flag.Bool("check-config", false, "Validate configuration and exit")
	flag.Parse()

	if *resetStats || *checkConfig {
		runMaintenance(*resetStats, *checkConfig)
		return
	}

	runServer()
}

func runMaintenance(resetStats, checkConfig bool) {
	// Disable structured logging for CLI-style invocations
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors
	})))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if checkConfig {
		fmt.Printf("Configuration OK\n")
		fmt.Printf("  Database: %s\n", cfg.DatabasePath)
		fmt.Printf("  Listen: %s:%d\n", cfg.Host, cfg.Port)
		fmt.Printf("  Detector: %s %s (timeout %s)\n", cfg.DetectorCommand, cfg.DetectorScript, cfg.DetectorTimeout)
		if cfg.SnapshotPath != "" {
			fmt.Printf("  Snapshot file mode: %s\n", cfg.SnapshotPath)
		}
		return
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	if err := worker.NewWorker(db).RunStatsRollover(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to reset stats: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Daily stats reset.")
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set up logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting firewatch server",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DatabasePath,
		"log_level", cfg.LogLevel)

	// Media directories must exist before the first upload or frame write
	for _, dir := range []string{cfg.UploadsDir, cfg.FramesDir, cfg.ImagesDir, cfg.ClipsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("Failed to create media directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	// Open database and initialize schema + seed rows
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	if err := db.Seed(cfg.Seed.ToSite()); err != nil {
		logger.Error("Failed to seed database", "error", err)
		os.Exit(1)
	}

	logger.Info("Database ready")

	// Create detector client and handlers
	detectorClient := detector.NewClient(cfg.DetectorCommand, cfg.DetectorScript, cfg.DetectorTimeout)

	snapshotHandler := handlers.NewSnapshotHandler(db, cfg)
	firefighterHandler := handlers.NewFirefighterHandler(db)
	personnelHandler := handlers.NewPersonnelHandler(db)
	alertHandler := handlers.NewAlertHandler(db)
	ingestHandler := handlers.NewIngestHandler(db, cfg)
	uploadHandler := handlers.NewUploadHandler(db, cfg, detectorClient, ingestHandler)
	dispatchHandler := handlers.NewDispatchHandler(db, cfg)
	debugHandler := handlers.NewDebugHandler(db, cfg)
	dashboardPage := dashboard.Handler()

	// Set up HTTP routes
	mux := http.NewServeMux()

	// Static media mounts
	mux.Handle("/camera_frames/", http.StripPrefix("/camera_frames/", http.FileServer(http.Dir(cfg.FramesDir))))
	mux.Handle("/detected_images/", http.StripPrefix("/detected_images/", http.FileServer(http.Dir(cfg.ImagesDir))))
	mux.Handle("/detected_clips/", http.StripPrefix("/detected_clips/", http.FileServer(http.Dir(cfg.ClipsDir))))
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	// Health check endpoint
	mux.Handle("/health", middleware.WrapHandler(metrics.EndpointHealth, func(w http.ResponseWriter, r *http.Request) {
		if err := db.Health(); err != nil {
			http.Error(w, "Database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))

	// Query-string routed API; falls through to the dashboard page
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		var endpoint string
		var handler http.HandlerFunc
		switch {
		case query.Has("api"):
			endpoint, handler = metrics.EndpointSnapshot, snapshotHandler.HandleSnapshot
		case query.Has("upload"):
			endpoint, handler = metrics.EndpointUpload, uploadHandler.HandleUpload
		case query.Has("firefighter"):
			endpoint, handler = metrics.EndpointFirefighters, firefighterHandler.Handle
		case query.Has("personnel"):
			endpoint, handler = metrics.EndpointPersonnel, personnelHandler.Handle
		case query.Has("update_alert"):
			endpoint, handler = metrics.EndpointAlerts, alertHandler.HandleUpdate
		case query.Has("detection"):
			endpoint = metrics.EndpointIngest
			if query.Get("detection") == "clip" {
				handler = ingestHandler.HandleDetectionClip
			} else {
				handler = ingestHandler.HandleDetectionAdd
			}
		case query.Has("camera"):
			endpoint, handler = metrics.EndpointIngest, ingestHandler.HandleCameraStatus
		case query.Has("activity"):
			endpoint, handler = metrics.EndpointIngest, ingestHandler.HandleActivityAdd
		case query.Has("dispatch"):
			endpoint, handler = metrics.EndpointDispatch, dispatchHandler.Handle
		case query.Has("debug"):
			endpoint, handler = metrics.EndpointDebug, debugHandler.HandleDebug
		default:
			endpoint, handler = metrics.EndpointDashboard, dashboardPage
		}

		middleware.WrapHandler(endpoint, handler).ServeHTTP(w, r)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  60 * time.Second, // Uploads and detector runs can be slow
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start maintenance worker in background
	workerInstance := worker.NewWorker(db)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	go func() {
		if err := workerInstance.Start(workerCtx); err != nil && err != context.Canceled {
			logger.Error("Maintenance worker failed", "error", err)
		}
	}()

	// Start site state collector if metrics are enabled
	if cfg.MetricsEnabled {
		go func() {
			logger.Info("Starting site state collector")
			metrics.StartSiteStateCollector(workerCtx, db, 15*time.Second)
		}()
	}

	// Start metrics server if enabled
	var metricsServer *http.Server
	if cfg.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())

		metricsAddr := fmt.Sprintf("%s:%d", cfg.MetricsHost, cfg.MetricsPort)
		metricsServer = &http.Server{
			Addr:    metricsAddr,
			Handler: metricsMux,
		}

		go func() {
			logger.Info("Metrics server listening", "addr", metricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// Start HTTP server in background
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down gracefully...")

	// Stop worker
	workerCancel()

	// Shutdown HTTP servers with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", "error", err)
		}
	}

	logger.Info("Server stopped")
}

