package models

import "time"

// IngestReport summarizes one ingestion batch.
type IngestReport struct {
	Kind   string `json:"kind"`
	Origin string `json:"origin,omitempty"`

	Upserted         int `json:"upserted,omitempty"`
	Inserted         int `json:"inserted,omitempty"`
	Duplicates       int `json:"duplicates,omitempty"`
	UnknownSatellite int `json:"unknown_satellite,omitempty"`
	ChecksumMismatch int `json:"checksum_mismatch,omitempty"`
	Skipped          int `json:"skipped"`

	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration_ns"`
}

// FeedFile describes a raw feed payload in the inbox or the archive.
type FeedFile struct {
	Path      string    `json:"path"`
	Kind      string    `json:"kind"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
