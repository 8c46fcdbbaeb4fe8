package api

import (
	"time"

	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/satservice"
)

// CatalogEntry is a catalog entry response (aliased from the domain layer).
type CatalogEntry = models.CatalogRecord

// TleRecord is a stored element set response (aliased from the domain layer).
type TleRecord = models.TleRecord

// ReferenceCode is one reference table row (aliased from the domain layer).
type ReferenceCode = models.ReferenceCode

// IngestReport is returned by the import endpoints (aliased from the domain layer).
type IngestReport = models.IngestReport

// CatalogListResponse wraps paginated catalog listings.
type CatalogListResponse struct {
	Entries []CatalogEntry `json:"entries" validate:"required"`
	Total   int            `json:"total" example:"42" validate:"required"`
}

// ReferenceListResponse wraps the codes of one reference table.
type ReferenceListResponse struct {
	Table string          `json:"table" example:"operational_status" validate:"required"`
	Codes []ReferenceCode `json:"codes" validate:"required"`
}

// ObjectSummary identifies the object a position belongs to.
type ObjectSummary struct {
	NoradCatalogNumber      string  `json:"norad_catalog_number" example:"25544" validate:"required"`
	Name                    *string `json:"name" example:"ISS (ZARYA)"`
	InternationalDesignator string  `json:"international_designator" example:"1998-067A" validate:"required"`
}

// TleSummary identifies the element set a position was computed from.
type TleSummary struct {
	ID        int64   `json:"id" example:"1" validate:"required"`
	SetNumber int     `json:"set_number" example:"999"`
	EpochYear string  `json:"epoch_year" example:"17"`
	EpochDay  float64 `json:"epoch_day" example:"236.53358279"`
}

// PositionResponse is the sub-satellite point of an object at a date.
// Angles are degrees, elevation meters, velocity meters per second.
type PositionResponse struct {
	Date      time.Time     `json:"date" validate:"required"`
	Object    ObjectSummary `json:"object" validate:"required"`
	Tle       TleSummary    `json:"tle" validate:"required"`
	Longitude float64       `json:"longitude" example:"-120.5"`
	Latitude  float64       `json:"latitude" example:"45.2"`
	Elevation float64       `json:"elevation" example:"408000"`
	Velocity  float64       `json:"velocity" example:"7669.4"`
}

func newPositionResponse(d *satservice.PositionDetail) PositionResponse {
	return PositionResponse{
		Date: d.At,
		Object: ObjectSummary{
			NoradCatalogNumber:      d.Object.NoradCatalogNumber,
			Name:                    d.Object.Names,
			InternationalDesignator: d.Object.InternationalDesignator,
		},
		Tle: TleSummary{
			ID:        d.TleUsed.ID,
			SetNumber: d.TleUsed.SetNumber,
			EpochYear: d.TleUsed.EpochYear,
			EpochDay:  d.TleUsed.EpochDay,
		},
		Longitude: d.SubLongitudeDeg,
		Latitude:  d.SubLatitudeDeg,
		Elevation: d.ElevationMeters,
		Velocity:  d.VelocityMps,
	}
}
