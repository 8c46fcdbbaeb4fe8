package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/models"
)

const tleColumns = `id, line0, line1, line2, satellite_number, classification,
	international_designator_year, international_designator_number, international_designator_piece,
	epoch_year, epoch_day, first_derivative_mean_motion, second_derivative_mean_motion, drag,
	set_number, first_checksum, inclination, ascending_node, eccentricity, perigee_argument,
	mean_anomaly, mean_motion, revolution_number, second_checksum, added_ns`

// InsertTleIfAbsent stores tle unless a record with the same three lines
// already exists. It reports whether a row was written and sets tle.ID when
// it was. The check and the insert are one statement.
func (r *Repo) InsertTleIfAbsent(ctx context.Context, tle *models.TleRecord) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO tles (line0, line1, line2, satellite_number, classification,
			international_designator_year, international_designator_number, international_designator_piece,
			epoch_year, epoch_day, first_derivative_mean_motion, second_derivative_mean_motion, drag,
			set_number, first_checksum, inclination, ascending_node, eccentricity, perigee_argument,
			mean_anomaly, mean_motion, revolution_number, second_checksum, added_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(line1, line2, line0) DO NOTHING
	`, tle.Line0, tle.Line1, tle.Line2, tle.SatelliteNumber, tle.Classification,
		tle.InternationalDesignatorYear, tle.InternationalDesignatorNumber, tle.InternationalDesignatorPiece,
		tle.EpochYear, tle.EpochDay, tle.FirstDerivativeMeanMotion, tle.SecondDerivativeMeanMotion, tle.Drag,
		tle.SetNumber, tle.FirstChecksum, tle.Inclination, tle.AscendingNode, tle.Eccentricity, tle.PerigeeArgument,
		tle.MeanAnomaly, tle.MeanMotion, tle.RevolutionNumber, tle.SecondChecksum, tle.Added.UnixNano())
	if err != nil {
		return false, fmt.Errorf("store: insert tle %s: %w", tle.SatelliteNumber, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: insert tle rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("store: insert tle id: %w", err)
	}
	tle.ID = id
	return true, nil
}

// ListTleHistory returns every TLE for a satellite, oldest ingestion first.
func (r *Repo) ListTleHistory(ctx context.Context, norad string) ([]models.TleRecord, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+tleColumns+` FROM tles WHERE satellite_number = ? ORDER BY added_ns, id`, norad)
	if err != nil {
		return nil, fmt.Errorf("store: list tle history %s: %w", norad, err)
	}
	defer rows.Close()

	var out []models.TleRecord
	for rows.Next() {
		t, err := scanTle(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan tle: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// GetTle returns one TLE by row id.
func (r *Repo) GetTle(ctx context.Context, id int64) (*models.TleRecord, error) {
	t, err := scanTle(r.q.QueryRowContext(ctx, `SELECT `+tleColumns+` FROM tles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: tle %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get tle %d: %w", id, err)
	}
	return t, nil
}

func scanTle(s scanner) (*models.TleRecord, error) {
	var t models.TleRecord
	var sat sql.NullString
	var addedNS int64
	err := s.Scan(&t.ID, &t.Line0, &t.Line1, &t.Line2, &sat, &t.Classification,
		&t.InternationalDesignatorYear, &t.InternationalDesignatorNumber, &t.InternationalDesignatorPiece,
		&t.EpochYear, &t.EpochDay, &t.FirstDerivativeMeanMotion, &t.SecondDerivativeMeanMotion, &t.Drag,
		&t.SetNumber, &t.FirstChecksum, &t.Inclination, &t.AscendingNode, &t.Eccentricity, &t.PerigeeArgument,
		&t.MeanAnomaly, &t.MeanMotion, &t.RevolutionNumber, &t.SecondChecksum, &addedNS)
	if err != nil {
		return nil, err
	}
	t.SatelliteNumber = sat.String
	t.Added = time.Unix(0, addedNS).UTC()
	return &t, nil
}
