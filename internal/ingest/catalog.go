package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/parser"
	"github.com/starford/satcat/internal/store"
)

const dateLayout = "2006-01-02"

// payloadMarker flags a payload in the SATCAT has_payload column.
const payloadMarker = "*"

// IngestCatalogLine parses one SATCAT line and upserts it by catalog number.
func (in *Ingester) IngestCatalogLine(ctx context.Context, line string) (*models.CatalogRecord, error) {
	var out *models.CatalogRecord
	err := in.store.InTx(ctx, func(c store.Catalog) error {
		rec, err := in.catalogLine(ctx, c, line)
		out = rec
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IngestCatalogLines upserts every SATCAT line in one transaction. Blank and
// unusable lines are skipped and counted.
func (in *Ingester) IngestCatalogLines(ctx context.Context, lines []string) (models.IngestReport, error) {
	rep := models.IngestReport{Kind: models.FeedSatcat, Started: in.now().UTC()}
	err := in.store.InTx(ctx, func(c store.Catalog) error {
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			_, err := in.catalogLine(ctx, c, line)
			if errors.Is(err, apperr.ErrValidation) || errors.Is(err, apperr.ErrConflict) {
				rep.Skipped++
				in.logger.Warn("ingest: satcat line skipped",
					slog.Int("line", i+1), slog.String("error", err.Error()))
				continue
			}
			if err != nil {
				return err
			}
			rep.Upserted++
		}
		return nil
	})
	rep.Duration = time.Since(rep.Started)
	if err != nil {
		return rep, fmt.Errorf("ingest: satcat batch: %w", err)
	}
	return rep, nil
}

func (in *Ingester) catalogLine(ctx context.Context, c store.Catalog, line string) (*models.CatalogRecord, error) {
	f := parser.ExplodeSatcat(line)

	norad, ok := f.NoradCatalogNumber.Get()
	if !ok {
		return nil, fmt.Errorf("%w: satcat line has no catalog number", apperr.ErrValidation)
	}
	designator, ok := f.InternationalDesignator.Get()
	if !ok {
		return nil, fmt.Errorf("%w: satcat entry %s has no international designator", apperr.ErrValidation, norad)
	}

	now := in.stamp()
	rec := &models.CatalogRecord{
		NoradCatalogNumber:      norad,
		InternationalDesignator: designator,
		Names:                   optString(f.Names),
		HasPayload:              f.HasPayload.Or("") == payloadMarker,
		LaunchDate:              optDate(f.LaunchDate),
		DecayDate:               optDate(f.DecayDate),
		OrbitalPeriod:           optFloat(f.OrbitalPeriod),
		Inclination:             optFloat(f.Inclination),
		Apogee:                  optInt(f.Apogee),
		Perigee:                 optInt(f.Perigee),
		RadarCrossSection:       optFloat(f.RadarCrossSection),
		Added:                   now,
		Updated:                 now,
	}

	var err error
	if rec.OperationalStatus, err = lookup(ctx, c, models.TableOperationalStatus, f.OperationalStatus); err != nil {
		return nil, err
	}
	if rec.Owner, err = lookup(ctx, c, models.TableSource, f.Owner); err != nil {
		return nil, err
	}
	if rec.LaunchSite, err = lookup(ctx, c, models.TableLaunchSite, f.LaunchSite); err != nil {
		return nil, err
	}
	if rec.OrbitalStatus, err = lookup(ctx, c, models.TableOrbitalStatus, f.OrbitalStatus); err != nil {
		return nil, err
	}

	if err := c.UpsertCatalogEntry(ctx, rec); err != nil {
		return nil, err
	}
	return c.FindCatalogEntry(ctx, norad)
}

// lookup resolves a code against a reference table. Unknown codes are nil.
func lookup(ctx context.Context, c store.Catalog, table string, f parser.Field[string]) (*string, error) {
	code, ok := f.Get()
	if !ok {
		return nil, nil
	}
	rc, err := c.FindReferenceCode(ctx, table, code)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rc.Code, nil
}

func optString(f parser.Field[string]) *string {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	return &v
}

func optDate(f parser.Field[string]) *time.Time {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil
	}
	return &t
}

func optFloat(f parser.Field[string]) *float64 {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &n
}

func optInt(f parser.Field[string]) *int64 {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
