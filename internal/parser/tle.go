package parser

import (
	"strconv"
	"strings"
)

// TLESchema holds the column layout of the name line and the two element
// lines of a three-line TLE block, indexed by line number.
var TLESchema = [3]Schema{
	{
		{Name: "name", Start: 0, End: 23},
	},
	{
		{Name: "line_number", Start: 0, End: 1},
		{Name: "satellite_number", Start: 2, End: 7},
		{Name: "classification", Start: 7, End: 8},
		{Name: "international_designator_year", Start: 9, End: 11},
		{Name: "international_designator_number", Start: 11, End: 14},
		{Name: "international_designator_piece", Start: 14, End: 16},
		{Name: "epoch_year", Start: 18, End: 20},
		{Name: "epoch_day", Start: 20, End: 32},
		{Name: "first_derivative_mean_motion", Start: 34, End: 43},
		{Name: "second_derivative_mean_motion", Start: 44, End: 52},
		{Name: "drag", Start: 53, End: 62},
		{Name: "set_number", Start: 63, End: 68},
		{Name: "first_checksum", Start: 68, End: 69},
	},
	{
		{Name: "inclination", Start: 8, End: 16},
		{Name: "ascending_node", Start: 17, End: 25},
		{Name: "eccentricity", Start: 26, End: 33},
		{Name: "perigee_argument", Start: 34, End: 42},
		{Name: "mean_anomaly", Start: 43, End: 51},
		{Name: "mean_motion", Start: 52, End: 63},
		{Name: "revolution_number", Start: 63, End: 68},
		{Name: "second_checksum", Start: 68, End: 69},
	},
}

// TLEFields is one exploded three-line TLE block. Numeric columns stay in
// decimal string form, after the format fixups below, except Drag.
type TLEFields struct {
	Line0Full string
	Line1Full string
	Line2Full string

	Name Field[string]

	LineNumber                    Field[string]
	SatelliteNumber               Field[string]
	Classification                Field[string]
	InternationalDesignatorYear   Field[string]
	InternationalDesignatorNumber Field[string]
	InternationalDesignatorPiece  Field[string]
	EpochYear                     Field[string]
	EpochDay                      Field[string]
	FirstDerivativeMeanMotion     Field[string]
	SecondDerivativeMeanMotion    Field[string]
	Drag                          Field[float64]
	DragText                      Field[string]
	SetNumber                     Field[string]
	FirstChecksum                 Field[string]

	Inclination      Field[string]
	AscendingNode    Field[string]
	Eccentricity     Field[string]
	PerigeeArgument  Field[string]
	MeanAnomaly      Field[string]
	MeanMotion       Field[string]
	RevolutionNumber Field[string]
	SecondChecksum   Field[string]
}

// ExplodeTLE splits a name line, line 1 and line 2 into their columns.
//
// The feed drops leading zeros by convention, so the first derivative of the
// mean motion gets a "0" prefix and the eccentricity a "0." prefix. The second
// derivative is always reported as "0". Drag is decoded by FormatDrag. Fixups
// are only applied to present values.
func ExplodeTLE(lines [3]string) TLEFields {
	m0 := Explode(lines[0], TLESchema[0])
	m1 := Explode(lines[1], TLESchema[1])
	m2 := Explode(lines[2], TLESchema[2])

	f := TLEFields{
		Line0Full: strings.TrimSpace(lines[0]),
		Line1Full: strings.TrimSpace(lines[1]),
		Line2Full: strings.TrimSpace(lines[2]),

		Name: m0["name"],

		LineNumber:                    m1["line_number"],
		SatelliteNumber:               m1["satellite_number"],
		Classification:                m1["classification"],
		InternationalDesignatorYear:   m1["international_designator_year"],
		InternationalDesignatorNumber: m1["international_designator_number"],
		InternationalDesignatorPiece:  m1["international_designator_piece"],
		EpochYear:                     m1["epoch_year"],
		EpochDay:                      m1["epoch_day"],
		FirstDerivativeMeanMotion:     prefixed("0", m1["first_derivative_mean_motion"]),
		SecondDerivativeMeanMotion:    Some("0"),
		SetNumber:                     m1["set_number"],
		FirstChecksum:                 m1["first_checksum"],

		Inclination:      m2["inclination"],
		AscendingNode:    m2["ascending_node"],
		Eccentricity:     prefixed("0.", m2["eccentricity"]),
		PerigeeArgument:  m2["perigee_argument"],
		MeanAnomaly:      m2["mean_anomaly"],
		MeanMotion:       m2["mean_motion"],
		RevolutionNumber: m2["revolution_number"],
		SecondChecksum:   m2["second_checksum"],
	}

	f.DragText = m1["drag"]
	if raw, ok := f.DragText.Get(); ok {
		if v, ok := FormatDrag(raw); ok {
			f.Drag = Some(v)
		}
	}
	return f
}

func prefixed(prefix string, f Field[string]) Field[string] {
	if !f.Valid {
		return f
	}
	return Some(prefix + f.Value)
}

// FormatDrag decodes the "sMMMMMsE" drag notation: a five digit mantissa
// with an implied leading "0." shifted right by the signed trailing exponent.
// "88849-3" decodes to 0.0088849 and "00000+0" to 0.
//
// A leading minus sign is stripped and not applied to the result, so negative
// drag terms come back as their magnitude. The second return value is false
// when the text cannot be decoded.
func FormatDrag(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "-")
	raw = strings.ReplaceAll(raw, "+", "-")

	parts := strings.Split(raw, "-")
	mantissa := parts[0]
	if mantissa == "" {
		return 0, false
	}

	power := 0
	if len(parts) > 1 {
		p, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, false
		}
		power = p
	}

	zeros := ""
	if power > 1 {
		zeros = strings.Repeat("0", power-1)
	}

	v, err := strconv.ParseFloat("0."+zeros+mantissa, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
