// Package ingest turns raw SATCAT lines and TLE blocks into stored catalog
// entries and element sets.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/store"
)

// Observer is called after every committed batch.
type Observer func(models.IngestReport)

// Ingester writes parsed feed data to the store. Each batch runs in one
// transaction.
type Ingester struct {
	store    store.Store
	logger   *slog.Logger
	now      func() time.Time
	observer Observer

	mu   sync.Mutex
	last time.Time
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithClock replaces time.Now as the source of ingestion timestamps.
func WithClock(now func() time.Time) Option {
	return func(in *Ingester) { in.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(in *Ingester) { in.logger = l }
}

// WithObserver registers a callback for committed batches.
func WithObserver(o Observer) Option {
	return func(in *Ingester) { in.observer = o }
}

// New returns an Ingester writing to s.
func New(s store.Store, opts ...Option) *Ingester {
	in := &Ingester{
		store:  s,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(in)
	}
	return in
}

// stamp returns the next ingestion instant. Instants are strictly increasing
// within the process so two records ingested back to back never tie.
func (in *Ingester) stamp() time.Time {
	in.mu.Lock()
	defer in.mu.Unlock()
	t := in.now().UTC()
	if !t.After(in.last) {
		t = in.last.Add(time.Microsecond)
	}
	in.last = t
	return t
}

// IngestFeed ingests a whole feed payload of the given kind. origin names
// where the payload came from and is only reported.
func (in *Ingester) IngestFeed(ctx context.Context, kind, origin string, data []byte) (models.IngestReport, error) {
	lines := SplitLines(string(data))
	var (
		rep models.IngestReport
		err error
	)
	switch kind {
	case models.FeedSatcat:
		rep, err = in.IngestCatalogLines(ctx, lines)
	case models.FeedTLE:
		rep, err = in.IngestTleLines(ctx, lines)
	default:
		return models.IngestReport{}, fmt.Errorf("%w: unknown feed kind %q", apperr.ErrValidation, kind)
	}
	rep.Origin = origin
	if err == nil {
		in.notify(rep)
	}
	return rep, err
}

func (in *Ingester) notify(rep models.IngestReport) {
	in.logger.Info("ingest: batch committed",
		slog.String("kind", rep.Kind),
		slog.String("origin", rep.Origin),
		slog.Int("upserted", rep.Upserted),
		slog.Int("inserted", rep.Inserted),
		slog.Int("duplicates", rep.Duplicates),
		slog.Int("unknown_satellite", rep.UnknownSatellite),
		slog.Int("checksum_mismatch", rep.ChecksumMismatch),
		slog.Int("skipped", rep.Skipped),
		slog.Duration("duration", rep.Duration),
	)
	if in.observer != nil {
		in.observer(rep)
	}
}

// SplitLines splits text on newlines and drops carriage returns.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
