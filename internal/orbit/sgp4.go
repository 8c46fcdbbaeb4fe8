package orbit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/physics"
	"github.com/starford/satcat/internal/timecodec"
)

// Gravity model names accepted by NewSGP4.
const (
	GravityWGS72 = "wgs72"
	GravityWGS84 = "wgs84"
)

// DefaultMaxEpochDistance is how far from its epoch an element set may be
// propagated before SGP4 refuses.
const DefaultMaxEpochDistance = 30 * 24 * time.Hour

// SGP4 propagates element sets with the SGP4 model.
type SGP4 struct {
	gravity     satellite.Gravity
	maxDistance time.Duration
}

// NewSGP4 returns an SGP4 propagator for the named gravity model. A zero
// maxDistance selects DefaultMaxEpochDistance.
func NewSGP4(gravity string, maxDistance time.Duration) (*SGP4, error) {
	var g satellite.Gravity
	switch strings.ToLower(gravity) {
	case "", GravityWGS72:
		g = satellite.GravityWGS72
	case GravityWGS84:
		g = satellite.GravityWGS84
	default:
		return nil, fmt.Errorf("%w: unknown gravity model %q", apperr.ErrValidation, gravity)
	}
	if maxDistance <= 0 {
		maxDistance = DefaultMaxEpochDistance
	}
	return &SGP4{gravity: g, maxDistance: maxDistance}, nil
}

// Propagate implements Propagator. line0 is only used in error messages.
func (p *SGP4) Propagate(line0, line1, line2 string, at time.Time) (Geometry, error) {
	name := strings.TrimSpace(line0)
	// go-satellite exits the process on malformed lines.
	if err := validateLines(line1, line2); err != nil {
		return Geometry{}, fmt.Errorf("%w: %s: %v", apperr.ErrPropagation, name, err)
	}
	line1 = fillBlankExponentials(line1)
	if err := checkColumns(line1, line2); err != nil {
		return Geometry{}, fmt.Errorf("%w: %s: %v", apperr.ErrPropagation, name, err)
	}

	epoch, err := epochOf(line1)
	if err != nil {
		return Geometry{}, fmt.Errorf("%w: %s: %v", apperr.ErrPropagation, name, err)
	}
	if d := at.Sub(epoch); d > p.maxDistance || d < -p.maxDistance {
		return Geometry{}, fmt.Errorf("%w: %s: %s is %s from epoch %s",
			apperr.ErrPropagation, name, at.UTC().Format(time.RFC3339), d.Round(time.Second), epoch.Format(time.RFC3339))
	}

	sat := satellite.TLEToSat(line1, line2, p.gravity)
	if sat.Error != 0 {
		return Geometry{}, fmt.Errorf("%w: %s: sgp4 init code=%d %s", apperr.ErrPropagation, name, sat.Error, sat.ErrorStr)
	}

	at = at.UTC()
	year, month, day := at.Date()
	hour, minute, sec := at.Clock()
	pos, _ := satellite.Propagate(sat, year, int(month), day, hour, minute, sec)
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return Geometry{}, fmt.Errorf("%w: %s: sgp4 output is NaN/Inf", apperr.ErrPropagation, name)
	}

	gmst := satellite.ThetaG_JD(satellite.JDay(year, int(month), day, hour, minute, sec))
	altKm, _, lla := satellite.ECIToLLA(pos, gmst)

	return Geometry{
		SubLongitudeRad:   normalizeLongitude(lla.Longitude),
		SubLatitudeRad:    lla.Latitude,
		ElevationMeters:   altKm * 1000,
		EarthRadiusMeters: physics.WGS84EquatorialRadius,
	}, nil
}

func validateLines(line1, line2 string) error {
	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got '%c'", line2[0])
	}
	return nil
}

// fillBlankExponentials writes a zero into the second derivative and drag
// columns of line 1 when they are entirely blank.
func fillBlankExponentials(line1 string) string {
	const zero = " 00000-0"
	b := []byte(line1)
	for _, start := range []int{44, 53} {
		if strings.TrimSpace(line1[start:start+8]) == "" {
			copy(b[start:], zero)
		}
	}
	return string(b)
}

// checkColumns parses every numeric column the same way go-satellite does,
// so a value it cannot read is reported instead of terminating the process.
func checkColumns(line1, line2 string) error {
	squeeze := func(s string) string { return strings.Replace(s, " ", "", 2) }
	ints := []struct{ name, text string }{
		{"satellite number", strings.TrimSpace(line1[2:7])},
		{"epoch year", line1[18:20]},
	}
	for _, c := range ints {
		if _, err := strconv.ParseInt(c.text, 10, 0); err != nil {
			return fmt.Errorf("%s %q: %w", c.name, c.text, err)
		}
	}
	floats := []struct{ name, text string }{
		{"epoch day", line1[20:32]},
		{"first derivative", squeeze(line1[33:43])},
		{"second derivative", squeeze(line1[44:45] + "." + line1[45:50] + "e" + line1[50:52])},
		{"drag", squeeze(line1[53:54] + "." + line1[54:59] + "e" + line1[59:61])},
		{"inclination", squeeze(line2[8:16])},
		{"ascending node", squeeze(line2[17:25])},
		{"eccentricity", "." + line2[26:33]},
		{"perigee argument", squeeze(line2[34:42])},
		{"mean anomaly", squeeze(line2[43:51])},
		{"mean motion", squeeze(line2[52:63])},
	}
	for _, c := range floats {
		if _, err := strconv.ParseFloat(c.text, 64); err != nil {
			return fmt.Errorf("%s %q: %w", c.name, c.text, err)
		}
	}
	return nil
}

// epochOf reads the epoch from columns 19-32 of line 1.
func epochOf(line1 string) (time.Time, error) {
	yy, err := strconv.Atoi(strings.TrimSpace(line1[18:20]))
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch year: %w", err)
	}
	day, err := strconv.ParseFloat(strings.TrimSpace(line1[20:32]), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch day: %w", err)
	}
	return timecodec.EpochTime(yy, day), nil
}

// normalizeLongitude maps a longitude in radians onto (-pi, pi].
func normalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 2*math.Pi)
	if lon > math.Pi {
		lon -= 2 * math.Pi
	} else if lon <= -math.Pi {
		lon += 2 * math.Pi
	}
	return lon
}
