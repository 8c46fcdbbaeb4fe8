package orbit

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/physics"
)

const radToDeg = 180 / math.Pi

// ComputePosition propagates tle to at and derives the circular orbital
// speed from the resulting elevation.
func ComputePosition(p Propagator, tle models.TleRecord, at time.Time) (models.Position, error) {
	g, err := p.Propagate(tle.Line0, tle.Line1, tle.Line2, at)
	if err != nil {
		if errors.Is(err, apperr.ErrPropagation) {
			return models.Position{}, err
		}
		return models.Position{}, fmt.Errorf("%w: %v", apperr.ErrPropagation, err)
	}

	v, err := OrbitalVelocity(g.ElevationMeters, g.EarthRadiusMeters)
	if err != nil {
		return models.Position{}, err
	}

	return models.Position{
		SubLongitudeDeg: g.SubLongitudeRad * radToDeg,
		SubLatitudeDeg:  g.SubLatitudeRad * radToDeg,
		ElevationMeters: g.ElevationMeters,
		VelocityMps:     v,
	}, nil
}

// OrbitalVelocity is the vis-viva speed of a circular orbit at elevation
// meters above a body of the given radius: sqrt(G*M/(R+elevation)).
func OrbitalVelocity(elevation, earthRadius float64) (float64, error) {
	if math.IsNaN(elevation) || math.IsInf(elevation, 0) {
		return 0, fmt.Errorf("%w: elevation is not a number (%v)", apperr.ErrValidation, elevation)
	}
	if elevation < 0 {
		return 0, fmt.Errorf("%w: elevation is negative (%.1f m)", apperr.ErrValidation, elevation)
	}
	return math.Sqrt(physics.G * physics.EarthMass / (earthRadius + elevation)), nil
}
