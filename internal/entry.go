// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/starford/supportdir/internal/api"
	"github.com/starford/supportdir/internal/apperr"
	"github.com/starford/supportdir/internal/catalog"
	"github.com/starford/supportdir/internal/directory"
	"github.com/starford/supportdir/internal/filter"
	"github.com/starford/supportdir/internal/mcpserver"
	"github.com/starford/supportdir/internal/metrics"
	"github.com/starford/supportdir/internal/models"
	"github.com/starford/supportdir/internal/sse"
	"github.com/starford/supportdir/internal/storage"
	"github.com/starford/supportdir/internal/web"
)

func newApplication(opts []Option) (*application, *slog.Logger, error) {
	app := &application{logOutput: os.Stdout, version: "dev"}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	return app, logger, nil
}

// newProvider builds the dataset source named by the configuration.
func newProvider(cfg DatasetConfig) (storage.Provider, error) {
	switch cfg.Source {
	case SourceHTTP:
		return storage.NewHTTP(cfg.URL, cfg.Timeout), nil
	case SourceFile:
		store, err := storage.NewFSFromPath(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}

func newCatalog(cfg *Config, logger *slog.Logger) (*catalog.Catalog, error) {
	store, err := newProvider(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	return catalog.New(store, cfg.Pagination.Session(), logger), nil
}

// datasetEvent converts a catalog event into an SSE event.
func datasetEvent(kind string, snap *catalog.Snapshot) sse.Event {
	if snap.Status != catalog.StatusReady {
		return sse.Event{Type: sse.EventDatasetUnavailable, Data: map[string]string{
			"source":  snap.Source,
			"message": apperr.UnavailableMessage,
		}}
	}
	return sse.Event{Type: sse.EventDatasetLoaded, Data: map[string]any{
		"source":    snap.Source,
		"records":   len(snap.Records),
		"checksum":  snap.Checksum,
		"loaded_at": snap.LoadedAt,
		"event":     kind,
	}}
}

// newRouter assembles the HTTP surface around the directory service.
func newRouter(cat *catalog.Catalog, broker *sse.Broker, logger *slog.Logger) (chi.Router, error) {
	svc := directory.NewService(cat)
	presenter, err := web.NewPresenter(svc, logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if cat.Snapshot().Status != catalog.StatusReady {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Mount API routes under /api.
	r.Mount("/api", api.NewRouter(svc, broker))

	r.Method(http.MethodGet, "/", presenter)

	return r, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("dataset_source", cfg.Dataset.Source),
		slog.String("dataset_path", cfg.Dataset.Path),
		slog.String("dataset_url", cfg.Dataset.URL),
		slog.String("pagination_mode", cfg.Pagination.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	cat, err := newCatalog(cfg, logger)
	if err != nil {
		return err
	}

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()
	cat.OnEvent(func(kind string, snap *catalog.Snapshot) {
		broker.Publish(datasetEvent(kind, snap))
	})

	// Load once. A failure leaves the directory unavailable; it is not retried.
	if err := cat.Load(ctx); err != nil {
		logger.Warn("initial dataset load failed", slog.String("error", err.Error()))
	}

	r, err := newRouter(cat, broker, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload the dataset when its file changes.
	if cfg.Dataset.Watching() {
		g.Go(func() error {
			if err := catalog.Watch(gCtx, cat, cfg.Dataset.Path, cfg.Dataset.Debounce, logger); err != nil {
				logger.Warn("dataset watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Closing the broker ends open SSE streams so Shutdown can finish.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP loads the dataset and serves the MCP tools over stdio.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}

	cat, err := newCatalog(app.config, logger)
	if err != nil {
		return err
	}
	if err := cat.Load(ctx); err != nil {
		logger.Warn("initial dataset load failed", slog.String("error", err.Error()))
	}

	srv := mcpserver.New(directory.NewService(cat), app.version)
	logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}

// DimensionReport counts the options of one dimension.
type DimensionReport struct {
	Dimension models.Dimension
	Label     string
	Options   int
}

// CheckReport summarises a dataset load.
type CheckReport struct {
	Source     string
	Shape      string
	Records    int
	Checksum   string
	Dimensions []DimensionReport
}

// Check loads the dataset once and reports what it contains. Load failures
// are returned.
func Check(ctx context.Context, opts ...Option) (*CheckReport, error) {
	app, logger, err := newApplication(opts)
	if err != nil {
		return nil, err
	}

	cat, err := newCatalog(app.config, logger)
	if err != nil {
		return nil, err
	}
	if err := cat.Load(ctx); err != nil {
		return nil, err
	}

	snap := cat.Snapshot()
	report := &CheckReport{
		Source:   snap.Source,
		Shape:    string(snap.Shape),
		Records:  len(snap.Records),
		Checksum: snap.Checksum,
	}
	report.Dimensions = dimensionReports(snap.Options)
	return report, nil
}

func dimensionReports(opts filter.Options) []DimensionReport {
	out := make([]DimensionReport, 0, len(models.Dimensions))
	for _, d := range models.Dimensions {
		out = append(out, DimensionReport{Dimension: d, Label: d.Label(), Options: len(opts[d])})
	}
	return out
}
