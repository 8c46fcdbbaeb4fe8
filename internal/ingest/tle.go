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
	"github.com/starford/satcat/internal/checksum"
	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/parser"
	"github.com/starford/satcat/internal/store"
)

type outcome int

const (
	inserted outcome = iota
	duplicate
	unknownSatellite
)

// IngestTleGroup stores one name/line1/line2 block. It returns nil without
// error when the satellite is not in the catalog or the exact three lines are
// already stored.
func (in *Ingester) IngestTleGroup(ctx context.Context, lines [3]string) (*models.TleRecord, error) {
	var out *models.TleRecord
	err := in.store.InTx(ctx, func(c store.Catalog) error {
		tle, res, _, err := in.tleGroup(ctx, c, lines)
		if err == nil && res == inserted {
			out = tle
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IngestTleLines groups non-blank lines by three and stores every group in
// one transaction. A trailing incomplete group is skipped.
func (in *Ingester) IngestTleLines(ctx context.Context, lines []string) (models.IngestReport, error) {
	rep := models.IngestReport{Kind: models.FeedTLE, Started: in.now().UTC()}
	groups, rest := GroupTLE(lines)
	if rest > 0 {
		rep.Skipped++
		in.logger.Warn("ingest: incomplete tle group at end of feed", slog.Int("lines", rest))
	}

	err := in.store.InTx(ctx, func(c store.Catalog) error {
		for i, g := range groups {
			_, res, mismatch, err := in.tleGroup(ctx, c, g)
			if errors.Is(err, apperr.ErrValidation) {
				rep.Skipped++
				in.logger.Warn("ingest: tle group skipped",
					slog.Int("group", i+1), slog.String("error", err.Error()))
				continue
			}
			if err != nil {
				return err
			}
			if mismatch {
				rep.ChecksumMismatch++
			}
			switch res {
			case inserted:
				rep.Inserted++
			case duplicate:
				rep.Duplicates++
			case unknownSatellite:
				rep.UnknownSatellite++
			}
		}
		return nil
	})
	rep.Duration = time.Since(rep.Started)
	if err != nil {
		return rep, fmt.Errorf("ingest: tle batch: %w", err)
	}
	return rep, nil
}

// IngestTleText is IngestTleLines over raw text.
func (in *Ingester) IngestTleText(ctx context.Context, text string) (models.IngestReport, error) {
	return in.IngestTleLines(ctx, SplitLines(text))
}

// GroupTLE drops blank lines and groups the rest by three. rest is the number
// of lines left over.
func GroupTLE(lines []string) (groups [][3]string, rest int) {
	var cur [3]string
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		cur[n] = l
		n++
		if n == 3 {
			groups = append(groups, cur)
			n = 0
		}
	}
	return groups, n
}

func (in *Ingester) tleGroup(ctx context.Context, c store.Catalog, lines [3]string) (*models.TleRecord, outcome, bool, error) {
	f := parser.ExplodeTLE(lines)

	norad, ok := f.SatelliteNumber.Get()
	if !ok {
		return nil, 0, false, fmt.Errorf("%w: tle has no satellite number", apperr.ErrValidation)
	}

	if _, err := c.FindCatalogEntry(ctx, norad); errors.Is(err, apperr.ErrNotFound) {
		in.logger.Debug("ingest: tle for unknown satellite", slog.String("norad", norad))
		return nil, unknownSatellite, false, nil
	} else if err != nil {
		return nil, 0, false, err
	}

	tle, err := toTleRecord(f)
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: tle %s: %v", apperr.ErrValidation, norad, err)
	}

	mismatch := !checksum.Verify(f.Line1Full) || !checksum.Verify(f.Line2Full)
	if mismatch {
		in.logger.Warn("ingest: tle checksum mismatch",
			slog.String("norad", norad), slog.String("line1", f.Line1Full), slog.String("line2", f.Line2Full))
	}

	tle.Added = in.stamp()
	ok, err = c.InsertTleIfAbsent(ctx, tle)
	if err != nil {
		return nil, 0, mismatch, err
	}
	if !ok {
		in.logger.Debug("ingest: tle already stored", slog.String("norad", norad))
		return nil, duplicate, mismatch, nil
	}
	return tle, inserted, mismatch, nil
}

// toTleRecord converts exploded fields. Epoch and mean motion are required;
// other absent numeric fields are zero.
func toTleRecord(f parser.TLEFields) (*models.TleRecord, error) {
	t := &models.TleRecord{
		Line0:                         f.Line0Full,
		Line1:                         f.Line1Full,
		Line2:                         f.Line2Full,
		SatelliteNumber:               f.SatelliteNumber.Or(""),
		Classification:                f.Classification.Or(""),
		InternationalDesignatorYear:   f.InternationalDesignatorYear.Or(""),
		InternationalDesignatorNumber: f.InternationalDesignatorNumber.Or(""),
		InternationalDesignatorPiece:  f.InternationalDesignatorPiece.Or(""),
		Drag:                          f.Drag.Or(0),
	}

	if raw, ok := f.DragText.Get(); ok && !f.Drag.Valid {
		return nil, fmt.Errorf("drag %q: cannot decode", raw)
	}

	year, ok := f.EpochYear.Get()
	if !ok {
		return nil, errors.New("missing epoch year")
	}
	t.EpochYear = year

	p := numParser{}
	t.EpochDay = p.required("epoch day", f.EpochDay)
	t.MeanMotion = p.required("mean motion", f.MeanMotion)
	t.FirstDerivativeMeanMotion = p.float("first derivative", f.FirstDerivativeMeanMotion)
	t.SecondDerivativeMeanMotion = p.float("second derivative", f.SecondDerivativeMeanMotion)
	t.Inclination = p.float("inclination", f.Inclination)
	t.AscendingNode = p.float("ascending node", f.AscendingNode)
	t.Eccentricity = p.float("eccentricity", f.Eccentricity)
	t.PerigeeArgument = p.float("perigee argument", f.PerigeeArgument)
	t.MeanAnomaly = p.float("mean anomaly", f.MeanAnomaly)
	t.SetNumber = p.int("set number", f.SetNumber)
	t.FirstChecksum = p.int("first checksum", f.FirstChecksum)
	t.RevolutionNumber = p.int("revolution number", f.RevolutionNumber)
	t.SecondChecksum = p.int("second checksum", f.SecondChecksum)
	if p.err != nil {
		return nil, p.err
	}
	return t, nil
}

// numParser keeps the first conversion error.
type numParser struct {
	err error
}

func (p *numParser) required(name string, f parser.Field[string]) float64 {
	if !f.Valid && p.err == nil {
		p.err = fmt.Errorf("missing %s", name)
	}
	return p.float(name, f)
}

func (p *numParser) float(name string, f parser.Field[string]) float64 {
	v, ok := f.Get()
	if !ok {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s %q: %w", name, v, err)
	}
	return n
}

func (p *numParser) int(name string, f parser.Field[string]) int {
	v, ok := f.Get()
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s %q: %w", name, v, err)
	}
	return n
}
