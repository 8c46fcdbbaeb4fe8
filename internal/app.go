package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/starford/satcat/internal/ingest"
	"github.com/starford/satcat/internal/metrics"
	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/orbit"
	"github.com/starford/satcat/internal/satservice"
	"github.com/starford/satcat/internal/storage"
	"github.com/starford/satcat/internal/store"
)

// components are the collaborators shared by every entry point.
type components struct {
	cfg      *Config
	logger   *slog.Logger
	db       *store.DB
	inbox    *storage.FS
	ingester *ingest.Ingester
	svc      *satservice.Service
}

func newApplication(opts []Option) (*application, error) {
	app := &application{out: os.Stdout, now: time.Now}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// bootstrap opens the store and the inbox and wires ingestion and the query
// service. Logs go to logOut; observers are notified of every ingestion batch.
func (a *application) bootstrap(ctx context.Context, logOut io.Writer, observers ...ingest.Observer) (*components, error) {
	cfg := a.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("inbox_path", cfg.Inbox.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("gravity", cfg.Propagation.Gravity),
		slog.String("log_level", cfg.App.LogLevel.String()))

	prop := a.propagator
	if prop == nil {
		sgp4, err := orbit.NewSGP4(cfg.Propagation.Gravity, cfg.Propagation.MaxEpochDistance)
		if err != nil {
			return nil, fmt.Errorf("init propagator: %w", err)
		}
		prop = sgp4
	}

	inbox, err := storage.NewFS(cfg.Inbox.Path)
	if err != nil {
		return nil, fmt.Errorf("init inbox: %w", err)
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	observers = append([]ingest.Observer{metrics.ObserveIngest}, observers...)
	in := ingest.New(db,
		ingest.WithClock(a.now),
		ingest.WithLogger(logger),
		ingest.WithObserver(func(rep models.IngestReport) {
			for _, o := range observers {
				o(rep)
			}
		}),
	)

	if cfg.Reference.Path != "" {
		codes, err := ingest.LoadReferenceCodes(cfg.Reference.Path)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("load reference codes: %w", err)
		}
		if err := in.SeedReferenceCodes(ctx, codes); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed reference codes: %w", err)
		}
		logger.Info("reference codes loaded", slog.Int("count", len(codes)))
	}

	return &components{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		inbox:    inbox,
		ingester: in,
		svc:      satservice.NewService(db, prop, in),
	}, nil
}
