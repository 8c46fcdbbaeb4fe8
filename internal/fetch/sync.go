package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/ingest"
	"github.com/starford/satcat/internal/metrics"
	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/storage"
)

// AllSources selects every configured source in Select.
const AllSources = "all"

// Syncer downloads sources, archives each payload and ingests it.
type Syncer struct {
	fetcher  *Fetcher
	archive  storage.Provider
	ingester *ingest.Ingester
	logger   *slog.Logger
	now      func() time.Time
}

// NewSyncer wires a Syncer. archive may be nil to skip archiving.
func NewSyncer(f *Fetcher, archive storage.Provider, in *ingest.Ingester, logger *slog.Logger) *Syncer {
	return &Syncer{fetcher: f, archive: archive, ingester: in, logger: logger, now: time.Now}
}

// Select picks sources by name. "all" selects every source. Unknown names
// fail with apperr.ErrNotFound.
func Select(sources []models.DataSource, names []string) ([]models.DataSource, error) {
	if len(names) == 0 || slices.Contains(names, AllSources) {
		return sources, nil
	}
	var out []models.DataSource
	for _, name := range names {
		i := slices.IndexFunc(sources, func(s models.DataSource) bool { return s.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("%w: data source %q", apperr.ErrNotFound, name)
		}
		out = append(out, sources[i])
	}
	return out, nil
}

// Sync downloads and ingests one source.
func (s *Syncer) Sync(ctx context.Context, src models.DataSource) (models.IngestReport, error) {
	s.logger.Info("fetch: downloading", slog.String("source", src.Name), slog.String("url", src.URL))
	data, err := s.fetcher.Fetch(ctx, src.URL)
	metrics.ObserveFetch(src.Name, err)
	if err != nil {
		return models.IngestReport{}, fmt.Errorf("fetch %s: %w", src.Name, err)
	}

	if s.archive != nil {
		path := storage.ArchivePath(src.Name, s.now())
		if err := s.archive.Write(path, data); err != nil {
			s.logger.Warn("fetch: archive failed", slog.String("source", src.Name), slog.String("error", err.Error()))
		}
	}

	rep, err := s.ingester.IngestFeed(ctx, src.Type, src.Name, data)
	if err != nil {
		return rep, fmt.Errorf("ingest %s: %w", src.Name, err)
	}
	return rep, nil
}

// SyncAll syncs every source in order. Catalog sources go first so TLEs for
// newly catalogued objects are not dropped. It stops at the first failure.
func (s *Syncer) SyncAll(ctx context.Context, sources []models.DataSource) ([]models.IngestReport, error) {
	ordered := slices.Clone(sources)
	slices.SortStableFunc(ordered, func(a, b models.DataSource) int {
		return feedRank(a.Type) - feedRank(b.Type)
	})

	reports := make([]models.IngestReport, 0, len(ordered))
	for _, src := range ordered {
		rep, err := s.Sync(ctx, src)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func feedRank(kind string) int {
	if kind == models.FeedSatcat {
		return 0
	}
	return 1
}
