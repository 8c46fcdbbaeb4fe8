package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/models"
)

// FindReferenceCode looks up one code in a reference table.
func (r *Repo) FindReferenceCode(ctx context.Context, table, code string) (*models.ReferenceCode, error) {
	rc := models.ReferenceCode{Table: table, Code: code}
	err := r.q.QueryRowContext(ctx,
		`SELECT description FROM reference_codes WHERE tbl = ? AND code = ?`, table, code,
	).Scan(&rc.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s code %q", apperr.ErrNotFound, table, code)
	}
	if err != nil {
		return nil, fmt.Errorf("store: find %s code %q: %w", table, code, err)
	}
	return &rc, nil
}

// UpsertReferenceCode inserts a code or replaces its description.
func (r *Repo) UpsertReferenceCode(ctx context.Context, rc models.ReferenceCode) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO reference_codes (tbl, code, description) VALUES (?, ?, ?)
		ON CONFLICT(tbl, code) DO UPDATE SET description = excluded.description
	`, rc.Table, rc.Code, rc.Description)
	if err != nil {
		return fmt.Errorf("store: upsert %s code %q: %w", rc.Table, rc.Code, err)
	}
	return nil
}

// ListReferenceCodes returns the codes of one table ordered by code.
func (r *Repo) ListReferenceCodes(ctx context.Context, table string) ([]models.ReferenceCode, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT code, description FROM reference_codes WHERE tbl = ? ORDER BY code`, table)
	if err != nil {
		return nil, fmt.Errorf("store: list %s codes: %w", table, err)
	}
	defer rows.Close()

	out := []models.ReferenceCode{}
	for rows.Next() {
		rc := models.ReferenceCode{Table: table}
		if err := rows.Scan(&rc.Code, &rc.Description); err != nil {
			return nil, fmt.Errorf("store: scan %s code: %w", table, err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
