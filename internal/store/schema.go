// Package store provides the SQLite-backed catalog and TLE history.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS reference_codes (
	tbl         TEXT NOT NULL,
	code        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (tbl, code)
);

CREATE TABLE IF NOT EXISTS catalog_entries (
	norad_catalog_number     TEXT PRIMARY KEY,
	international_designator TEXT NOT NULL UNIQUE,
	names                    TEXT,
	has_payload              INTEGER NOT NULL DEFAULT 0,
	operational_status       TEXT,
	owner                    TEXT,
	launch_date              DATETIME,
	launch_site              TEXT,
	decay_date               DATETIME,
	orbital_period           REAL,
	inclination              REAL,
	apogee                   INTEGER,
	perigee                  INTEGER,
	radar_cross_section      REAL,
	orbital_status           TEXT,
	added                    DATETIME NOT NULL,
	updated                  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tles (
	id                              INTEGER PRIMARY KEY AUTOINCREMENT,
	line0                           TEXT NOT NULL DEFAULT '',
	line1                           TEXT NOT NULL,
	line2                           TEXT NOT NULL,
	satellite_number                TEXT REFERENCES catalog_entries(norad_catalog_number) ON DELETE SET NULL,
	classification                  TEXT NOT NULL DEFAULT '',
	international_designator_year   TEXT NOT NULL DEFAULT '',
	international_designator_number TEXT NOT NULL DEFAULT '',
	international_designator_piece  TEXT NOT NULL DEFAULT '',
	epoch_year                      TEXT NOT NULL,
	epoch_day                       REAL NOT NULL,
	first_derivative_mean_motion    REAL NOT NULL DEFAULT 0,
	second_derivative_mean_motion   REAL NOT NULL DEFAULT 0,
	drag                            REAL NOT NULL DEFAULT 0,
	set_number                      INTEGER NOT NULL DEFAULT 0,
	first_checksum                  INTEGER NOT NULL DEFAULT 0,
	inclination                     REAL NOT NULL DEFAULT 0,
	ascending_node                  REAL NOT NULL DEFAULT 0,
	eccentricity                    REAL NOT NULL DEFAULT 0,
	perigee_argument                REAL NOT NULL DEFAULT 0,
	mean_anomaly                    REAL NOT NULL DEFAULT 0,
	mean_motion                     REAL NOT NULL,
	revolution_number               INTEGER NOT NULL DEFAULT 0,
	second_checksum                 INTEGER NOT NULL DEFAULT 0,
	added_ns                        INTEGER NOT NULL,
	UNIQUE(line1, line2, line0)
);

CREATE INDEX IF NOT EXISTS idx_tles_satellite_added ON tles(satellite_number, added_ns);
CREATE INDEX IF NOT EXISTS idx_catalog_names ON catalog_entries(names);
`

// CelesTrak operational status legend.
const seedSQL = `
INSERT OR IGNORE INTO reference_codes (tbl, code, description) VALUES
	('operational_status', '+', 'Operational'),
	('operational_status', '-', 'Nonoperational'),
	('operational_status', 'P', 'Partially Operational'),
	('operational_status', 'B', 'Backup/Standby'),
	('operational_status', 'S', 'Spare'),
	('operational_status', 'X', 'Extended Mission'),
	('operational_status', 'D', 'Decayed'),
	('operational_status', '?', 'Unknown');
`

// DB wraps a sql.DB with catalog operations.
type DB struct {
	Repo
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply core schema: %w", err)
	}
	if _, err := conn.Exec(seedSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: seed reference codes: %w", err)
	}
	return &DB{Repo: Repo{q: conn}, conn: conn}, nil
}

// InTx runs fn inside one transaction. Any error from fn rolls back every
// write fn made.
func (db *DB) InTx(ctx context.Context, fn func(Catalog) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if err := fn(&Repo{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
