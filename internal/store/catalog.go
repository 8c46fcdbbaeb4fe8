package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/models"
)

const catalogColumns = `norad_catalog_number, international_designator, names, has_payload,
	operational_status, owner, launch_date, launch_site, decay_date, orbital_period,
	inclination, apogee, perigee, radar_cross_section, orbital_status, added, updated`

// UpsertCatalogEntry inserts rec or updates the entry with the same catalog
// number. The original Added instant of an existing entry is kept.
func (r *Repo) UpsertCatalogEntry(ctx context.Context, rec *models.CatalogRecord) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO catalog_entries (`+catalogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(norad_catalog_number) DO UPDATE SET
			international_designator = excluded.international_designator,
			names                    = excluded.names,
			has_payload              = excluded.has_payload,
			operational_status       = excluded.operational_status,
			owner                    = excluded.owner,
			launch_date              = excluded.launch_date,
			launch_site              = excluded.launch_site,
			decay_date               = excluded.decay_date,
			orbital_period           = excluded.orbital_period,
			inclination              = excluded.inclination,
			apogee                   = excluded.apogee,
			perigee                  = excluded.perigee,
			radar_cross_section      = excluded.radar_cross_section,
			orbital_status           = excluded.orbital_status,
			updated                  = excluded.updated
	`, rec.NoradCatalogNumber, rec.InternationalDesignator, rec.Names, rec.HasPayload,
		rec.OperationalStatus, rec.Owner, rec.LaunchDate, rec.LaunchSite, rec.DecayDate, rec.OrbitalPeriod,
		rec.Inclination, rec.Apogee, rec.Perigee, rec.RadarCrossSection, rec.OrbitalStatus,
		rec.Added.UTC(), rec.Updated.UTC())
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: catalog entry %s: designator %s already used",
			apperr.ErrConflict, rec.NoradCatalogNumber, rec.InternationalDesignator)
	}
	if err != nil {
		return fmt.Errorf("store: upsert catalog entry %s: %w", rec.NoradCatalogNumber, err)
	}
	return nil
}

// FindCatalogEntry returns the entry for a catalog number, or an error
// wrapping apperr.ErrNotFound.
func (r *Repo) FindCatalogEntry(ctx context.Context, norad string) (*models.CatalogRecord, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+catalogColumns+` FROM catalog_entries WHERE norad_catalog_number = ?`, norad)
	rec, err := scanCatalog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: catalog entry %s", apperr.ErrNotFound, norad)
	}
	if err != nil {
		return nil, fmt.Errorf("store: find catalog entry %s: %w", norad, err)
	}
	return rec, nil
}

// ListCatalog returns one page of entries ordered by catalog number and the
// total number of matching entries.
func (r *Repo) ListCatalog(ctx context.Context, f models.CatalogFilter) ([]models.CatalogRecord, int, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := ""
	var args []any
	if f.Query != "" {
		like := f.Query + "%"
		where = ` WHERE international_designator LIKE ? OR norad_catalog_number LIKE ? OR names LIKE ?`
		args = append(args, like, like, like)
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT count(*) FROM catalog_entries`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count catalog: %w", err)
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+catalogColumns+` FROM catalog_entries`+where+` ORDER BY norad_catalog_number LIMIT ? OFFSET ?`,
		append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list catalog: %w", err)
	}
	defer rows.Close()

	var out []models.CatalogRecord
	for rows.Next() {
		rec, err := scanCatalog(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *rec)
	}
	return out, total, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCatalog(s scanner) (*models.CatalogRecord, error) {
	var rec models.CatalogRecord
	var names, opStatus, owner, site, orbStatus sql.NullString
	var launch, decay sql.NullTime
	var period, incl, rcs sql.NullFloat64
	var apogee, perigee sql.NullInt64
	err := s.Scan(&rec.NoradCatalogNumber, &rec.InternationalDesignator, &names, &rec.HasPayload,
		&opStatus, &owner, &launch, &site, &decay, &period,
		&incl, &apogee, &perigee, &rcs, &orbStatus, &rec.Added, &rec.Updated)
	if err != nil {
		return nil, err
	}
	rec.Names = nullString(names)
	rec.OperationalStatus = nullString(opStatus)
	rec.Owner = nullString(owner)
	rec.LaunchSite = nullString(site)
	rec.OrbitalStatus = nullString(orbStatus)
	rec.LaunchDate = nullTime(launch)
	rec.DecayDate = nullTime(decay)
	rec.OrbitalPeriod = nullFloat(period)
	rec.Inclination = nullFloat(incl)
	rec.RadarCrossSection = nullFloat(rcs)
	rec.Apogee = nullInt(apogee)
	rec.Perigee = nullInt(perigee)
	return &rec, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
