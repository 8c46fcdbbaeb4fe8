// Package models defines the domain types of the satellite catalog.
package models

import "time"

// Reference tables a catalog entry points into.
const (
	TableOperationalStatus = "operational_status"
	TableSource            = "source"
	TableLaunchSite        = "launch_site"
	TableOrbitalStatus     = "orbital_status"
)

// ReferenceTables lists every known reference table.
var ReferenceTables = []string{
	TableOperationalStatus,
	TableSource,
	TableLaunchSite,
	TableOrbitalStatus,
}

// ReferenceCode is one row of a reference table.
type ReferenceCode struct {
	Table       string `json:"table"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CatalogRecord is a catalogued orbiting object. NoradCatalogNumber is the
// primary key and InternationalDesignator is unique. Lookup codes that did
// not resolve at ingestion are nil.
type CatalogRecord struct {
	NoradCatalogNumber      string     `json:"norad_catalog_number"`
	InternationalDesignator string     `json:"international_designator"`
	Names                   *string    `json:"names"`
	HasPayload              bool       `json:"has_payload"`
	OperationalStatus       *string    `json:"operational_status"`
	Owner                   *string    `json:"owner"`
	LaunchDate              *time.Time `json:"launch_date"`
	LaunchSite              *string    `json:"launch_site"`
	DecayDate               *time.Time `json:"decay_date"`
	OrbitalPeriod           *float64   `json:"orbital_period"`
	Inclination             *float64   `json:"inclination"`
	Apogee                  *int64     `json:"apogee"`
	Perigee                 *int64     `json:"perigee"`
	RadarCrossSection       *float64   `json:"radar_cross_section"`
	OrbitalStatus           *string    `json:"orbital_status"`
	Added                   time.Time  `json:"added"`
	Updated                 time.Time  `json:"updated"`
}

// CatalogFilter narrows catalog listings. Query matches as a prefix of the
// designator, the catalog number or the names.
type CatalogFilter struct {
	Query  string
	Limit  int
	Offset int
}
