// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
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
	"golang.org/x/sync/errgroup"

	"github.com/starford/satcat/internal/api"
	"github.com/starford/satcat/internal/fetch"
	"github.com/starford/satcat/internal/ingest"
	"github.com/starford/satcat/internal/mcpserver"
	"github.com/starford/satcat/internal/metrics"
	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/sse"
)

// Run starts the HTTP server and, when enabled, the inbox watcher.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	c, err := app.bootstrap(ctx, os.Stdout, broker.PublishIngest)
	if err != nil {
		return err
	}
	defer c.db.Close()

	cfg := c.cfg
	logger := c.logger

	// Build API router.
	apiRouter := api.NewRouter(c.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := c.svc.ListReferenceCodes(req.Context(), models.TableOperationalStatus); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start inbox watcher with SSE callback.
	if cfg.Inbox.Watch {
		g.Go(func() error {
			err := ingest.Watch(gCtx, c.ingester, c.inbox, c.inbox.Root(), logger, broker.PublishFeedEvent)
			if err != nil {
				return fmt.Errorf("inbox watcher: %w", err)
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

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// Import ingests one feed file of the given kind and prints the report.
func Import(ctx context.Context, kind, path string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	if kind != models.FeedSatcat && kind != models.FeedTLE {
		return fmt.Errorf("unknown feed kind %q (want %s or %s)", kind, models.FeedSatcat, models.FeedTLE)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read feed: %w", err)
	}

	c, err := app.bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer c.db.Close()

	rep, err := c.ingester.IngestFeed(ctx, kind, path, data)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	return app.print(rep)
}

// Fetch downloads the named data sources ("all" or none for every source),
// archives each payload in the inbox and ingests it. SATCAT sources run first.
func Fetch(ctx context.Context, names []string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	sources, err := fetch.Select(app.config.Sources, names)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no data sources configured")
	}

	c, err := app.bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer c.db.Close()

	syncer := fetch.NewSyncer(fetch.NewFetcher(0, c.logger), c.inbox, c.ingester, c.logger)
	reports, err := syncer.SyncAll(ctx, sources)
	if perr := app.print(reports); perr != nil {
		return perr
	}
	return err
}

// Position prints the position of an object at the given date; a zero date
// means now.
func Position(ctx context.Context, norad string, at time.Time, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	if at.IsZero() {
		at = app.now().UTC()
	}

	c, err := app.bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer c.db.Close()

	d, err := c.svc.GetPositionAt(ctx, norad, at)
	if err != nil {
		return err
	}
	return app.print(d)
}

// ServeMCP serves the MCP tools on stdin/stdout. Logs go to stderr.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	c, err := app.bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer c.db.Close()

	c.logger.Info("MCP server starting on stdio")
	return mcpserver.New(c.svc, c.inbox, c.logger).ServeStdio()
}

func (a *application) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
