package models

import "time"

// TleRecord is one stored element set. It is immutable once inserted; newer
// records for the same object supersede it. Added is the ingestion instant
// and the only ordering key for temporal resolution.
type TleRecord struct {
	ID int64 `json:"id"`

	Line0 string `json:"line0"`
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`

	SatelliteNumber               string `json:"satellite_number"`
	Classification                string `json:"classification"`
	InternationalDesignatorYear   string `json:"international_designator_year"`
	InternationalDesignatorNumber string `json:"international_designator_number"`
	InternationalDesignatorPiece  string `json:"international_designator_piece"`

	EpochYear                  string  `json:"epoch_year"`
	EpochDay                   float64 `json:"epoch_day"`
	FirstDerivativeMeanMotion  float64 `json:"first_derivative_mean_motion"`
	SecondDerivativeMeanMotion float64 `json:"second_derivative_mean_motion"`
	Drag                       float64 `json:"drag"`
	SetNumber                  int     `json:"set_number"`
	FirstChecksum              int     `json:"first_checksum"`

	Inclination      float64 `json:"inclination"`
	AscendingNode    float64 `json:"ascending_node"`
	Eccentricity     float64 `json:"eccentricity"`
	PerigeeArgument  float64 `json:"perigee_argument"`
	MeanAnomaly      float64 `json:"mean_anomaly"`
	MeanMotion       float64 `json:"mean_motion"`
	RevolutionNumber int     `json:"revolution_number"`
	SecondChecksum   int     `json:"second_checksum"`

	Added time.Time `json:"added"`
}

// Position is the sub-satellite point and speed of an object at an instant.
type Position struct {
	SubLongitudeDeg float64 `json:"longitude"`
	SubLatitudeDeg  float64 `json:"latitude"`
	ElevationMeters float64 `json:"elevation"`
	VelocityMps     float64 `json:"velocity"`
}

// PositionReport is a Position together with the element set it came from.
type PositionReport struct {
	Position
	At      time.Time `json:"date"`
	TleUsed TleRecord `json:"tle"`
}
